package match

import (
	"github.com/hupe1980/structidx/internal/bitset"
	"github.com/hupe1980/structidx/internal/leveled"
	"github.com/hupe1980/structidx/internal/text"
	"github.com/hupe1980/structidx/internal/value"
	"github.com/hupe1980/structidx/model"
)

// Matcher resolves paths over one indexed document.
// It is not safe for concurrent use.
type Matcher struct {
	src    text.Source
	levels leveled.List
	quotes []uint64

	cands []int
}

// New returns a Matcher. quotes holds the real (unescaped) quote positions.
func New(src text.Source, levels leveled.List, quotes []uint64) *Matcher {
	return &Matcher{src: src, levels: levels, quotes: quotes}
}

// FindPattern searches for path and returns the ordinals it matched together
// with the colon of the last segment. ok is false when the path is absent.
func (m *Matcher) FindPattern(path model.Path) (p model.Pattern, colon int, ok bool) {
	segs := path.Segments()
	if len(segs) == 0 || len(segs) > m.levels.Levels() {
		return nil, -1, false
	}

	p = make(model.Pattern, 0, len(segs))
	start, end := 0, m.src.Len()
	for lv, seg := range segs {
		m.cands = m.levels.Colons(lv, start, end, m.cands[:0])

		found := -1
		for i, c := range m.cands {
			if m.KeyMatches(c, seg) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, -1, false
		}

		colon = m.cands[found]
		p = append(p, found)
		start, end = m.narrow(colon, found, end)
		if lv < len(segs)-1 && !m.opensObject(colon) {
			return nil, -1, false
		}
	}
	return p, colon, true
}

// FindValueByPattern replays p for path and returns the colon of the last
// segment. ok is false when any cached ordinal is out of range, its key does
// not match, or an earlier sibling carries the same key. In all those cases
// the pattern is invalid for this document and FindPattern must decide, so a
// replay never resolves to a different duplicate key than a search would.
func (m *Matcher) FindValueByPattern(path model.Path, p model.Pattern) (colon int, ok bool) {
	segs := path.Segments()
	if len(segs) == 0 || len(p) != len(segs) || len(segs) > m.levels.Levels() {
		return -1, false
	}

	start, end := 0, m.src.Len()
	for lv, seg := range segs {
		ord := p[lv]
		if ord < 0 {
			return -1, false
		}
		m.cands = m.levels.Colons(lv, start, end, m.cands[:0])
		if ord >= len(m.cands) {
			return -1, false
		}

		colon = m.cands[ord]
		if !m.KeyMatches(colon, seg) {
			return -1, false
		}
		for _, c := range m.cands[:ord] {
			if m.KeyMatches(c, seg) {
				return -1, false
			}
		}
		start, end = m.narrow(colon, ord, end)
		if lv < len(segs)-1 && !m.opensObject(colon) {
			return -1, false
		}
	}
	return colon, true
}

// narrow returns the value window of the candidate at ordinal ord.
func (m *Matcher) narrow(colon, ord, end int) (int, int) {
	if ord+1 < len(m.cands) {
		end = m.cands[ord+1]
	}
	return colon + 1, end
}

// opensObject reports whether the value after colon starts with '{'.
func (m *Matcher) opensObject(colon int) bool {
	i := value.SkipSpace(m.src, colon+1)
	return i < m.src.Len() && m.src.At(i) == '{'
}

// KeyMatches reports whether the quoted key immediately before colon equals
// seg. Whitespace between the closing quote and the colon is skipped. Keys
// containing escape sequences are compared in unescaped form.
func (m *Matcher) KeyMatches(colon int, seg string) bool {
	opening, closing, ok := m.keyBounds(colon)
	if !ok {
		return false
	}

	for j := opening + 1; j < closing; j++ {
		if m.src.At(j) == '\\' {
			key, ok := value.Unescape(m.src, opening+1, closing)
			return ok && key == seg
		}
	}
	return closing-opening-1 == m.src.KeyLen(seg) && m.src.EqualAt(opening+1, seg)
}

// Key returns the unescaped key that precedes colon.
func (m *Matcher) Key(colon int) (string, bool) {
	opening, closing, ok := m.keyBounds(colon)
	if !ok {
		return "", false
	}
	return value.Unescape(m.src, opening+1, closing)
}

// keyBounds locates the real quotes around the key of colon.
func (m *Matcher) keyBounds(colon int) (opening, closing int, ok bool) {
	i := colon - 1
	for i >= 0 && text.IsSpace(m.src.At(i)) {
		i--
	}
	if i < 1 || m.src.At(i) != '"' || !bitset.Test(m.quotes, i) {
		return -1, -1, false
	}
	opening = bitset.PrevSet(m.quotes, i)
	if opening < 0 {
		return -1, -1, false
	}
	return opening, i, true
}
