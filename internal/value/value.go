package value

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/hupe1980/structidx/internal/text"
	"github.com/hupe1980/structidx/model"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fastjson/fastfloat"
)

// Read decodes the value following the colon at pos.
func Read(src text.Source, pos int) (model.Scalar, model.Outcome) {
	n := src.Len()
	i := SkipSpace(src, pos+1)
	if i >= n {
		return model.Scalar{}, model.OutcomeMalformed
	}

	switch c := src.At(i); {
	case c == 't':
		return literal(src, i, "true", model.Bool(true))
	case c == 'f':
		return literal(src, i, "false", model.Bool(false))
	case c == 'n':
		return literal(src, i, "null", model.Null())
	case c == '"':
		end, escaped, ok := StringEnd(src, i)
		if !ok {
			return model.Scalar{}, model.OutcomeMalformed
		}
		if !escaped {
			return model.String(src.Decode(i+1, end)), model.OutcomeFound
		}
		s, ok := Unescape(src, i+1, end)
		if !ok {
			return model.Scalar{}, model.OutcomeMalformed
		}
		return model.String(s), model.OutcomeFound
	case c == '-' || (c >= '0' && c <= '9'):
		return number(src, i)
	case c == '{' || c == '[':
		return model.Scalar{}, model.OutcomeNotScalar
	default:
		return model.Scalar{}, model.OutcomeMalformed
	}
}

// SkipSpace returns the first offset at or after i that is not whitespace.
func SkipSpace(src text.Source, i int) int {
	n := src.Len()
	for i < n && text.IsSpace(src.At(i)) {
		i++
	}
	return i
}

// StringEnd returns the offset of the quote closing the string that opens at
// quote. escaped reports whether any backslash was seen.
func StringEnd(src text.Source, quote int) (end int, escaped, ok bool) {
	n := src.Len()
	for j := quote + 1; j < n; j++ {
		switch src.At(j) {
		case '\\':
			escaped = true
			j++
		case '"':
			return j, escaped, true
		}
	}
	return 0, escaped, false
}

func literal(src text.Source, i int, word string, v model.Scalar) (model.Scalar, model.Outcome) {
	if !src.EqualAt(i, word) {
		return model.Scalar{}, model.OutcomeMalformed
	}
	if j := i + len(word); j < src.Len() && !delimiter(src.At(j)) {
		return model.Scalar{}, model.OutcomeMalformed
	}
	return v, model.OutcomeFound
}

func delimiter(c uint16) bool {
	return c == ',' || c == '}' || c == ']' || text.IsSpace(c)
}

func number(src text.Source, i int) (model.Scalar, model.Outcome) {
	n := src.Len()
	j := i
	for j < n {
		c := src.At(j)
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			j++
			continue
		}
		break
	}
	if j < n && !delimiter(src.At(j)) {
		return model.Scalar{}, model.OutcomeMalformed
	}
	f, err := fastfloat.Parse(src.Decode(i, j))
	if err != nil {
		return model.Scalar{}, model.OutcomeMalformed
	}
	return model.Number(f), model.OutcomeFound
}

// Unescape decodes the raw string content in [start, end), resolving JSON
// escape sequences. ok is false for an invalid escape.
func Unescape(src text.Source, start, end int) (string, bool) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	run := start
	for i := start; i < end; i++ {
		if src.At(i) != '\\' {
			continue
		}
		if run < i {
			_, _ = buf.WriteString(src.Decode(run, i))
		}
		i++
		if i >= end {
			return "", false
		}
		switch src.At(i) {
		case '"':
			_ = buf.WriteByte('"')
		case '\\':
			_ = buf.WriteByte('\\')
		case '/':
			_ = buf.WriteByte('/')
		case 'b':
			_ = buf.WriteByte('\b')
		case 'f':
			_ = buf.WriteByte('\f')
		case 'n':
			_ = buf.WriteByte('\n')
		case 'r':
			_ = buf.WriteByte('\r')
		case 't':
			_ = buf.WriteByte('\t')
		case 'u':
			r, next, ok := unicodeEscape(src, i+1, end)
			if !ok {
				return "", false
			}
			buf.B = utf8.AppendRune(buf.B, r)
			i = next - 1
		default:
			return "", false
		}
		run = i + 1
	}
	if run < end {
		_, _ = buf.WriteString(src.Decode(run, end))
	}
	return buf.String(), true
}

// unicodeEscape reads the 4 hex digits at i (after "\u") and, for a high
// surrogate, a following "\uXXXX" low surrogate. next is the offset after the
// consumed units.
func unicodeEscape(src text.Source, i, end int) (r rune, next int, ok bool) {
	r1, ok := hex4(src, i, end)
	if !ok {
		return 0, 0, false
	}
	next = i + 4
	if !utf16.IsSurrogate(r1) {
		return r1, next, true
	}
	if next+6 <= end && src.At(next) == '\\' && src.At(next+1) == 'u' {
		if r2, ok := hex4(src, next+2, end); ok {
			if dec := utf16.DecodeRune(r1, r2); dec != utf8.RuneError {
				return dec, next + 6, true
			}
		}
	}
	return utf8.RuneError, next, true
}

func hex4(src text.Source, i, end int) (rune, bool) {
	if i+4 > end {
		return 0, false
	}
	var r rune
	for k := 0; k < 4; k++ {
		c := src.At(i + k)
		var d uint16
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | rune(d)
	}
	return r, true
}
