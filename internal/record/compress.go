package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how the index section is stored.
type Compression uint8

const (
	// CompressionNone stores the index words as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 stores the index as an LZ4 block.
	CompressionLZ4 Compression = 1
	// CompressionZSTD stores the index as a zstd frame.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, errors.New("record: unknown compression " + s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

const blockHeaderSize = 8

// appendBlock appends [raw size][stored size][data] to dst. Data that does not
// shrink by at least 10% is stored raw with stored size 0.
func appendBlock(dst, data []byte, c Compression) ([]byte, error) {
	var packed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*0.9 {
		dst = binary.LittleEndian.AppendUint32(dst, 0)
		return append(dst, data...), nil
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(packed)))
	return append(dst, packed...), nil
}

// errBlockSize is returned when a block header disagrees with the size the
// caller expects. Nothing is allocated or decoded in that case.
var errBlockSize = errors.New("block size does not match index shape")

// readBlock decodes a block at the start of data and returns the raw bytes.
// want is the exact decoded size; headers claiming anything else are rejected
// before decoding. Raw blocks are returned as a sub-slice of data.
func readBlock(data []byte, c Compression, want int) ([]byte, error) {
	if len(data) < blockHeaderSize {
		return nil, errors.New("block too small for header")
	}
	rawSize := int(binary.LittleEndian.Uint32(data[0:]))
	stored := int(binary.LittleEndian.Uint32(data[4:]))
	body := data[blockHeaderSize:]

	if rawSize != want {
		return nil, errBlockSize
	}
	if stored == 0 {
		if len(body) < rawSize {
			return nil, errors.New("block data too small")
		}
		return body[:rawSize], nil
	}
	if len(body) < stored {
		return nil, errors.New("compressed block data too small")
	}
	body = body[:stored]

	switch c {
	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if n != rawSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return out, nil
	case CompressionZSTD:
		return readZstd(body, rawSize)
	default:
		return nil, errors.New("unknown compression")
	}
}

// readZstd decodes exactly size bytes from a zstd frame. Frames that decode to
// more or fewer bytes are rejected without growing the output.
func readZstd(body []byte, size int) ([]byte, error) {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	if err := dec.Reset(bytes.NewReader(body)); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	if _, err := io.ReadFull(dec, out); err != nil {
		return nil, errors.New("decompressed size mismatch")
	}
	var extra [1]byte
	if n, _ := dec.Read(extra[:]); n != 0 {
		return nil, errors.New("decompressed size mismatch")
	}
	return out, nil
}
