package model

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned for an empty path or a path with an empty segment.
var ErrInvalidPath = errors.New("invalid attribute path")

// Path is a dotted attribute path split into object-key segments.
type Path struct {
	raw      string
	segments []string
}

// ParsePath splits a dotted attribute path such as "address.city".
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, ErrInvalidPath
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if seg == "" {
			return Path{}, ErrInvalidPath
		}
	}
	return Path{raw: s, segments: segs}, nil
}

// MustParsePath is ParsePath that panics on error. Intended for literals.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the dotted form.
func (p Path) String() string { return p.raw }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// Segment returns segment i.
func (p Path) Segment(i int) string { return p.segments[i] }

// Segments returns the segments. The slice must not be modified.
func (p Path) Segments() []string { return p.segments }
