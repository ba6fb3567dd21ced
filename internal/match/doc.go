// Package match resolves dotted attribute paths against a structural index.
//
// FindPattern narrows a window level by level: at level L it lists the colons
// of L inside the window, picks the first whose preceding quoted key equals
// the segment, and shrinks the window to the span between that colon and the
// next colon of the same level. The ordinals it picks form a model.Pattern.
//
// FindValueByPattern replays a Pattern on another document, validating the key
// at each cached ordinal instead of searching; any mismatch reports the
// pattern as invalid so the caller can fall back to FindPattern.
package match
