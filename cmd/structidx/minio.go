package main

import (
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	miniostore "github.com/hupe1980/structidx/docstore/minio"
)

// openMinio parses host:port/bucket/prefix.
func openMinio(location, accessKey, secretKey string) (*miniostore.Store, error) {
	endpoint, rest, _ := strings.Cut(location, "/")
	bucket, prefix, _ := strings.Cut(rest, "/")
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("minio location must be host:port/bucket[/prefix], got %q", location)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return miniostore.NewStore(client, bucket, prefix), nil
}
