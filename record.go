package structidx

import (
	"github.com/hupe1980/structidx/internal/level"
	"github.com/hupe1980/structidx/internal/leveled"
	"github.com/hupe1980/structidx/internal/record"
	"github.com/hupe1980/structidx/internal/scan"
)

// RecordEncoding is the payload encoding of a record.
type RecordEncoding = record.Encoding

const (
	// RecordUTF8 payloads hold one byte per code unit.
	RecordUTF8 = record.UTF8
	// RecordUTF16 payloads hold big-endian 16-bit code units.
	RecordUTF16 = record.UTF16
)

// Compression selects how an embedded index section is stored.
type Compression = record.Compression

const (
	CompressionNone = record.CompressionNone
	CompressionLZ4  = record.CompressionLZ4
	CompressionZSTD = record.CompressionZSTD
)

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) { return record.ParseCompression(s) }

// RecordOptions controls EncodeRecord.
type RecordOptions struct {
	Encoding RecordEncoding
	// IndexLevels embeds a precomputed index with that many levels.
	// 0 writes the payload only.
	IndexLevels int
	Compression Compression
}

// EncodeRecord serializes doc as a length-prefixed record, optionally
// followed by its structural index.
//
// Records with an embedded index are answered by FindValueInRecord without
// scanning, as long as the path is shallower than IndexLevels.
func EncodeRecord(doc string, opts RecordOptions) ([]byte, error) {
	rec, err := record.Encode(doc, opts.Encoding)
	if err != nil {
		return nil, translateError(err)
	}
	if opts.IndexLevels <= 0 {
		return rec, nil
	}

	r, err := record.Open(rec, opts.Encoding)
	if err != nil {
		return nil, translateError(err)
	}

	bm := scan.Acquire(r.Source.Len())
	defer scan.Release(bm)
	scan.Build(r.Source, bm)

	levels := leveled.NewArray(opts.IndexLevels, bm.Words())
	level.Classify(bm, levels)

	out, err := record.AppendIndex(rec, bm.Quote, levels, opts.Compression)
	if err != nil {
		return nil, translateError(err)
	}
	return out, nil
}
