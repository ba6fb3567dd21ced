// Package bitset provides word-level bit manipulation for the structural index.
//
// Bitmaps are plain []uint64 slices with one bit per code unit of the document:
// unit i lives in word i>>6 at bit i&63. Helpers here extract set bits in
// ascending order (lowest first) and build range masks that span word
// boundaries.
//
// Used internally for:
//   - Character-class bitmaps produced by the scanner
//   - Per-level colon bitmaps produced by the classifier
package bitset
