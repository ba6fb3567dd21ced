package record

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/structidx/internal/bitset"
	"github.com/hupe1980/structidx/internal/conv"
	"github.com/hupe1980/structidx/internal/leveled"
	"github.com/hupe1980/structidx/internal/text"
)

// Encoding is the payload encoding of a record.
type Encoding uint8

const (
	// UTF8 payloads hold one byte per code unit.
	UTF8 Encoding = iota
	// UTF16 payloads hold big-endian 16-bit code units.
	UTF16
)

func (e Encoding) String() string {
	if e == UTF16 {
		return "utf-16"
	}
	return "utf-8"
}

func (e Encoding) unitSize() int {
	if e == UTF16 {
		return 2
	}
	return 1
}

const (
	lengthPrefixSize = 4
	sectionHeader    = 11
)

var indexMagic = [4]byte{'S', 'I', 'X', '1'}

// ErrMalformed is returned when a record cannot be decoded.
var ErrMalformed = errors.New("record: malformed")

// Error locates a decoding failure inside a record.
type Error struct {
	Offset int
	Reason string
	cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("record: malformed at offset %d: %s", e.Offset, e.Reason)
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrMalformed, e.cause}
	}
	return []error{ErrMalformed}
}

// Index is an embedded structural index.
type Index struct {
	// Quotes holds the real (unescaped) quote positions.
	Quotes []uint64
	// Levels holds the leveled colon bitmaps.
	Levels *leveled.Buffer
}

// Record is a decoded view over record bytes. It does not copy the payload.
type Record struct {
	Source text.Source
	// Index is nil when the record carries no index section.
	Index *Index
	// Size is the number of bytes consumed from the input.
	Size int
}

// Encode builds a record with no index section.
func Encode(doc string, enc Encoding) ([]byte, error) {
	payload := []byte(doc)
	units := len(doc)
	if enc == UTF16 {
		var err error
		if payload, err = text.EncodeUTF16(doc); err != nil {
			return nil, err
		}
		units = len(payload) / 2
	}
	n, err := conv.IntToUint32(units)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, lengthPrefixSize+len(payload))
	out = binary.BigEndian.AppendUint32(out, n)
	return append(out, payload...), nil
}

// AppendIndex appends an index section built from quotes and levels to rec.
func AppendIndex(rec []byte, quotes []uint64, levels leveled.List, c Compression) ([]byte, error) {
	if levels.Levels() > 0xFFFF {
		return nil, fmt.Errorf("record: %d levels exceed section limit", levels.Levels())
	}
	words, err := conv.IntToUint32(levels.Words())
	if err != nil {
		return nil, err
	}
	if len(quotes) != levels.Words() {
		return nil, errors.New("record: quote bitmap and level bitmaps differ in size")
	}

	raw := make([]byte, 0, (1+levels.Levels())*levels.Words()*8)
	for _, w := range quotes {
		raw = binary.LittleEndian.AppendUint64(raw, w)
	}
	raw = leveled.AppendLE(raw, levels)

	rec = append(rec, indexMagic[:]...)
	rec = append(rec, byte(c))
	rec = binary.LittleEndian.AppendUint16(rec, uint16(levels.Levels()))
	rec = binary.LittleEndian.AppendUint32(rec, words)
	return appendBlock(rec, raw, c)
}

// Open decodes the record at the start of buf.
func Open(buf []byte, enc Encoding) (*Record, error) {
	if len(buf) < lengthPrefixSize {
		return nil, &Error{Offset: 0, Reason: "missing length prefix"}
	}
	units, err := conv.Uint32ToInt(binary.BigEndian.Uint32(buf))
	if err != nil {
		return nil, &Error{Offset: 0, Reason: "length overflow", cause: err}
	}
	end := lengthPrefixSize + units*enc.unitSize()
	if end > len(buf) || end < lengthPrefixSize {
		return nil, &Error{Offset: 0, Reason: "payload exceeds buffer"}
	}

	payload := buf[lengthPrefixSize:end]
	rec := &Record{Size: end}
	if enc == UTF16 {
		u, err := text.NewUTF16(payload)
		if err != nil {
			return nil, &Error{Offset: lengthPrefixSize, Reason: "utf-16 payload", cause: err}
		}
		rec.Source = u
	} else {
		rec.Source = text.Bytes(payload)
	}

	rest := buf[end:]
	if len(rest) < len(indexMagic) || [4]byte(rest[:4]) != indexMagic {
		return rec, nil
	}

	idx, size, err := openIndex(rest, units, end)
	if err != nil {
		return nil, err
	}
	rec.Index = idx
	rec.Size += size
	return rec, nil
}

func openIndex(section []byte, units, offset int) (*Index, int, error) {
	if len(section) < sectionHeader+blockHeaderSize {
		return nil, 0, &Error{Offset: offset, Reason: "truncated index header"}
	}
	c := Compression(section[4])
	levels := int(binary.LittleEndian.Uint16(section[5:]))
	words, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(section[7:]))
	if err != nil || words != bitset.WordCount(units) {
		return nil, 0, &Error{Offset: offset + 7, Reason: "index word count does not match payload"}
	}

	want := (1 + levels) * words * 8
	block := section[sectionHeader:]
	raw, err := readBlock(block, c, want)
	if errors.Is(err, errBlockSize) {
		return nil, 0, &Error{Offset: offset + sectionHeader, Reason: "index block size"}
	}
	if err != nil {
		return nil, 0, &Error{Offset: offset + sectionHeader, Reason: "index block", cause: err}
	}

	quotes := make([]uint64, words)
	for i := range quotes {
		quotes[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	list, err := leveled.NewBuffer(levels, words, raw[words*8:], nil)
	if err != nil {
		return nil, 0, &Error{Offset: offset + sectionHeader, Reason: "index levels", cause: err}
	}

	stored := int(binary.LittleEndian.Uint32(block[4:]))
	if stored == 0 {
		stored = len(raw)
	}
	return &Index{Quotes: quotes, Levels: list}, sectionHeader + blockHeaderSize + stored, nil
}
