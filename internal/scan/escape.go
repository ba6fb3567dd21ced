package scan

import (
	"github.com/hupe1980/structidx/internal/bitset"
)

const topBit = uint64(1) << 63

// MaskEscapedQuotes clears every quote bit whose unit is escaped, i.e.
// preceded by an odd number of consecutive backslashes. quote is modified in
// place; backslash is only read.
func MaskEscapedQuotes(backslash, quote []uint64) {
	carry := false
	for i := range quote {
		var bs uint64
		if i < len(backslash) {
			bs = backslash[i]
		}
		var escaped uint64
		escaped, carry = EscapedWord(bs, carry)
		quote[i] &^= escaped
	}
}

// EscapedWord returns the units of one word that are escaped by a backslash.
// carry reports that bit 0 is escaped by an unescaped backslash at bit 63 of
// the previous word; the returned carry is the same signal for the next word.
func EscapedWord(backslash uint64, carry bool) (uint64, bool) {
	var escaped uint64
	if carry {
		escaped = 1
	}
	next := false
	for x := backslash; x != 0; x = bitset.RemoveLowest(x) {
		low := bitset.ExtractLowest(x)
		if escaped&low != 0 {
			// this backslash is itself escaped
			continue
		}
		if low == topBit {
			next = true
			continue
		}
		escaped |= low << 1
	}
	return escaped, next
}

// MaskStrings clears colon and brace bits that fall inside string literals.
// It must run after MaskEscapedQuotes so only real delimiters toggle state.
func MaskStrings(b *Bitmaps) {
	var inside uint64
	for i := range b.Quote {
		m := bitset.PrefixXOR(b.Quote[i]) ^ inside
		b.Colon[i] &^= m
		b.LBrace[i] &^= m
		b.RBrace[i] &^= m
		inside = uint64(int64(m) >> 63)
	}
}
