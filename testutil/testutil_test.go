package testutil

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLeavesMatchDecodedJSON(t *testing.T) {
	rng := NewRNG(4711)

	for range 50 {
		doc := rng.Document(DocOptions{Indent: 0.5})

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(doc.JSON, &decoded))

		for _, path := range doc.Paths() {
			var cur any = decoded
			for _, seg := range strings.Split(path, ".") {
				obj, ok := cur.(map[string]any)
				require.True(t, ok, path)
				cur, ok = obj[seg]
				require.True(t, ok, path)
			}
			assert.Equal(t, doc.Leaves[path], cur, path)
		}
	}
}

func TestKeysHaveNoDots(t *testing.T) {
	for _, k := range DefaultKeys {
		assert.NotContains(t, k, ".")
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	d1 := rng.Document(DocOptions{})
	rng.Reset()
	d2 := rng.Document(DocOptions{})

	assert.Equal(t, d1.JSON, d2.JSON)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestZipf(t *testing.T) {
	rng := NewRNG(4711)

	counts := make([]int, 10)
	for range 1000 {
		counts[rng.Zipf(10, 1.5)]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Equal(t, 0, rng.Zipf(1, 1.0))
}
