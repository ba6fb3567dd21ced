package pattern

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/structidx/internal/conv"
	"github.com/hupe1980/structidx/internal/hash"
	"github.com/hupe1980/structidx/model"
)

var snapshotMagic = [4]byte{'S', 'P', 'C', '1'}

// ErrBadSnapshot is returned when a snapshot cannot be decoded.
var ErrBadSnapshot = errors.New("pattern: invalid snapshot")

const (
	maxSnapshotPath     = 1 << 16
	maxSnapshotSegments = 1 << 10
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteTo writes a compressed snapshot of every entry, ordered by path.
// The uncompressed body ends with a CRC32C of everything before it.
func (c *Cache) WriteTo(w io.Writer) (int64, error) {
	var paths []string
	patterns := map[string]model.Pattern{}
	c.Range(func(path string, p model.Pattern) bool {
		paths = append(paths, path)
		patterns[path] = p
		return true
	})
	sort.Strings(paths)

	cw := &countingWriter{w: w}
	enc, err := zstd.NewWriter(cw)
	if err != nil {
		return 0, err
	}
	sum := hash.NewCRC32C()
	bw := bufio.NewWriter(io.MultiWriter(enc, sum))

	var scratch [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(scratch[:], v)
		_, _ = bw.Write(scratch[:n])
	}

	_, _ = bw.Write(snapshotMagic[:])
	putUvarint(uint64(len(paths)))
	for _, path := range paths {
		p := patterns[path]
		putUvarint(uint64(len(path)))
		_, _ = bw.WriteString(path)
		putUvarint(uint64(len(p)))
		for _, ord := range p {
			putUvarint(uint64(ord))
		}
	}

	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return cw.n, err
	}
	if _, err := enc.Write(binary.LittleEndian.AppendUint32(nil, sum.Sum32())); err != nil {
		_ = enc.Close()
		return cw.n, err
	}
	if err := enc.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// hashingReader checksums the bytes consumed through it.
type hashingReader struct {
	br  *bufio.Reader
	sum hash32
}

type hash32 interface {
	io.Writer
	Sum32() uint32
}

func (hr *hashingReader) ReadByte() (byte, error) {
	b, err := hr.br.ReadByte()
	if err == nil {
		_, _ = hr.sum.Write([]byte{b})
	}
	return b, err
}

func (hr *hashingReader) Read(p []byte) (int, error) {
	n, err := hr.br.Read(p)
	_, _ = hr.sum.Write(p[:n])
	return n, err
}

// ReadFrom loads entries from a snapshot written by WriteTo, adding them to
// the cache. Nothing is added unless the whole snapshot verifies.
func (c *Cache) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	dec, err := zstd.NewReader(cr)
	if err != nil {
		return 0, err
	}
	defer dec.Close()
	br := bufio.NewReader(dec)
	hr := &hashingReader{br: br, sum: hash.NewCRC32C()}

	var magic [4]byte
	if _, err := io.ReadFull(hr, magic[:]); err != nil || magic != snapshotMagic {
		return cr.n, ErrBadSnapshot
	}

	count, err := binary.ReadUvarint(hr)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	type entry struct {
		path    string
		pattern model.Pattern
	}
	var entries []entry
	for i := uint64(0); i < count; i++ {
		plen, err := binary.ReadUvarint(hr)
		if err != nil || plen == 0 || plen > maxSnapshotPath {
			return cr.n, ErrBadSnapshot
		}
		path := make([]byte, plen)
		if _, err := io.ReadFull(hr, path); err != nil {
			return cr.n, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
		n, err := binary.ReadUvarint(hr)
		if err != nil || n == 0 || n > maxSnapshotSegments {
			return cr.n, ErrBadSnapshot
		}
		p := make(model.Pattern, n)
		for j := range p {
			raw, err := binary.ReadUvarint(hr)
			if err != nil {
				return cr.n, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
			}
			ord, err := conv.Uint64ToInt(raw)
			if err != nil {
				return cr.n, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
			}
			p[j] = ord
		}
		entries = append(entries, entry{string(path), p})
	}

	want := hr.sum.Sum32()
	var trailer [4]byte
	if _, err := io.ReadFull(br, trailer[:]); err != nil {
		return cr.n, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if binary.LittleEndian.Uint32(trailer[:]) != want {
		return cr.n, fmt.Errorf("%w: checksum mismatch", ErrBadSnapshot)
	}

	for _, e := range entries {
		c.Put(e.path, e.pattern)
	}
	return cr.n, nil
}
