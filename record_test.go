package structidx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/structidx/model"
	"github.com/hupe1980/structidx/testutil"
)

func TestFindValueInRecordMatchesFindValue(t *testing.T) {
	rng := testutil.NewRNG(5)
	ex := newExtractor(t)

	variants := []RecordOptions{
		{Encoding: RecordUTF8},
		{Encoding: RecordUTF16},
		{Encoding: RecordUTF8, IndexLevels: 6},
		{Encoding: RecordUTF16, IndexLevels: 6, Compression: CompressionLZ4},
		{Encoding: RecordUTF8, IndexLevels: 6, Compression: CompressionZSTD},
		{Encoding: RecordUTF8, IndexLevels: 2},
	}

	for range 50 {
		doc := rng.Document(testutil.DocOptions{MaxDepth: 4})
		paths := append(doc.Paths(), doc.Containers...)
		paths = append(paths, "missing", "a.missing")

		for _, opts := range variants {
			rec, err := EncodeRecord(string(doc.JSON), opts)
			require.NoError(t, err)

			for _, path := range paths {
				want, err := ex.Lookup(doc.JSON, path)
				require.NoError(t, err)
				got, err := ex.LookupRecord(rec, opts.Encoding, path)
				require.NoError(t, err, "%+v %s", opts, path)
				assert.Equal(t, want.Outcome, got.Outcome, "%+v %s", opts, path)
				assert.True(t, want.Value.Equal(got.Value), "%+v %s", opts, path)
			}
		}
	}
}

func TestIndexRecordUsesEmbeddedIndex(t *testing.T) {
	ex := newExtractor(t)
	rec, err := EncodeRecord(`{"a":{"b":"ü"}}`, RecordOptions{Encoding: RecordUTF16, IndexLevels: 3})
	require.NoError(t, err)

	ix, err := ex.IndexRecord(rec, RecordUTF16)
	require.NoError(t, err)
	defer ix.Close()

	assert.Equal(t, StoreRecord, ix.Store())
	assert.Equal(t, 3, ix.Levels())

	v, ok, err := ix.FindValue("a.b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.String("ü"), v)

	_, _, err = ix.FindValue("a.b.c")
	assert.ErrorIs(t, err, ErrPathTooDeep)

	v, ok, err = ex.FindValueInRecord(rec, RecordUTF16, "a.b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.String("ü"), v)
}

func TestFindValueInRecordMalformed(t *testing.T) {
	ex := newExtractor(t)

	_, _, err := ex.FindValueInRecord([]byte{0, 0}, RecordUTF8, "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	var re *RecordError
	assert.ErrorAs(t, err, &re)

	_, _, err = ex.FindValueInRecord([]byte{0, 0, 0, 9, '{'}, RecordUTF8, "a")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}
