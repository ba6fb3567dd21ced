// Package conv provides checked integer conversions.
//
// Record headers and pattern snapshots carry fixed-width lengths, counts and
// ordinals that come from outside the process. The helpers here convert them
// to and from Go's int with explicit overflow errors instead of silent
// truncation. Every failure wraps ErrOverflow.
package conv
