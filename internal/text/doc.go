// Package text abstracts the document a structural index is built over.
//
// A Source is an immutable sequence of code units addressed by offset. Three
// encodings are supported:
//   - String: a Go string, one unit per byte (UTF-8)
//   - Bytes: a byte slice (heap or mmap'd), one unit per byte (UTF-8)
//   - UTF16: big-endian UTF-16 code units inside a record buffer
//
// All structural characters of JSON are ASCII, so scanning and key comparison
// work on raw units; only string values are decoded.
package text
