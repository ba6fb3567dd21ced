// Package scan builds the character-class bitmaps of a structural index.
//
// A single forward pass records five bitmaps (colon, quote, left brace,
// right brace, backslash). Two word-parallel passes then refine them:
//   - MaskEscapedQuotes clears quotes preceded by an odd backslash run
//   - MaskStrings clears colons and braces that sit inside string literals
//
// Both passes carry state across 64-bit word boundaries.
package scan
