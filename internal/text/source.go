package text

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ErrOddLength is returned when a UTF-16 payload has an odd byte count.
var ErrOddLength = errors.New("text: utf-16 payload has odd length")

// Source is a read-only sequence of code units.
type Source interface {
	// Len returns the number of code units.
	Len() int
	// At returns the code unit at i. i must be in [0, Len()).
	At(i int) uint16
	// KeyLen returns the number of code units s occupies in this encoding.
	KeyLen(s string) int
	// EqualAt reports whether the units starting at i spell s.
	EqualAt(i int, s string) bool
	// Decode returns the units in [start, end) as a Go (UTF-8) string.
	Decode(start, end int) string
}

// String is a Source over a Go string.
type String string

func (s String) Len() int { return len(s) }

func (s String) At(i int) uint16 { return uint16(s[i]) }

func (s String) KeyLen(k string) int { return len(k) }

func (s String) EqualAt(i int, k string) bool {
	return i >= 0 && i+len(k) <= len(s) && string(s[i:i+len(k)]) == k
}

func (s String) Decode(start, end int) string { return string(s[start:end]) }

// Bytes is a Source over UTF-8 bytes.
type Bytes []byte

func (b Bytes) Len() int { return len(b) }

func (b Bytes) At(i int) uint16 { return uint16(b[i]) }

func (b Bytes) KeyLen(k string) int { return len(k) }

func (b Bytes) EqualAt(i int, k string) bool {
	return i >= 0 && i+len(k) <= len(b) && string(b[i:i+len(k)]) == k
}

func (b Bytes) Decode(start, end int) string { return string(b[start:end]) }

// UTF16 is a Source over big-endian UTF-16 code units.
type UTF16 struct {
	data []byte
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// NewUTF16 wraps big-endian UTF-16 bytes.
func NewUTF16(data []byte) (UTF16, error) {
	if len(data)%2 != 0 {
		return UTF16{}, ErrOddLength
	}
	return UTF16{data: data}, nil
}

// EncodeUTF16 returns s encoded as big-endian UTF-16 bytes.
func EncodeUTF16(s string) ([]byte, error) {
	return utf16BE.NewEncoder().Bytes([]byte(s))
}

func (u UTF16) Len() int { return len(u.data) / 2 }

func (u UTF16) At(i int) uint16 { return binary.BigEndian.Uint16(u.data[2*i:]) }

func (u UTF16) KeyLen(k string) int {
	n := 0
	for _, r := range k {
		n += utf16.RuneLen(r)
	}
	return n
}

func (u UTF16) EqualAt(i int, k string) bool {
	if i < 0 {
		return false
	}
	n := u.Len()
	for _, r := range k {
		if r >= 0x10000 {
			r1, r2 := utf16.EncodeRune(r)
			if i+2 > n || u.At(i) != uint16(r1) || u.At(i+1) != uint16(r2) {
				return false
			}
			i += 2
			continue
		}
		if i >= n || u.At(i) != uint16(r) {
			return false
		}
		i++
	}
	return true
}

func (u UTF16) Decode(start, end int) string {
	out, err := utf16BE.NewDecoder().Bytes(u.data[2*start : 2*end])
	if err != nil {
		return string(utf8.RuneError)
	}
	return string(out)
}

// IsSpace reports whether c is JSON insignificant whitespace.
func IsSpace(c uint16) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
