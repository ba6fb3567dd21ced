package minio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/structidx/docstore"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("a/b.json"))
	assert.Equal(t, "application/octet-stream", contentType("a/b.six"))
}

func TestStoreKey(t *testing.T) {
	s := NewStore(nil, "bucket", "/orders/")
	assert.Equal(t, "orders/2026/1.json", s.key("2026/1.json"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "1.json", bare.key("1.json"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-structidx"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, fmt.Sprintf("run-%d/", time.Now().UnixNano()))

	data := []byte(`{"user":{"name":"ada","age":36}}`)
	require.NoError(t, store.Put(ctx, "doc.json", data))

	got, err := docstore.ReadAll(ctx, store, "doc.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc.json"}, names)

	require.NoError(t, store.Delete(ctx, "doc.json"))
	_, err = store.Get(ctx, "doc.json")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	require.NoError(t, store.Delete(ctx, "doc.json"))
}
