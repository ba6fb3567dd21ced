// Package model defines the values exchanged with structidx callers.
//
// # Values
//
//   - Scalar: a JSON leaf (string, number, boolean, null) extracted by path
//   - Outcome: why a lookup did or did not produce a Scalar
//   - Result: a Scalar together with its Outcome
//
// # Paths
//
//   - Path: dotted attribute path split into object-key segments
//   - Pattern: per-segment colon ordinals remembered from a successful match
//
// Values are small and copied by value; none of them hold references into the
// document they were extracted from.
package model
