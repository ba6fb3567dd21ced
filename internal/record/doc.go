// Package record reads and writes length-prefixed document records.
//
// # Layout
//
//	[0:4]    uint32 big-endian  payload length in code units (N)
//	[4:...]  payload            N bytes (UTF-8) or 2N bytes (UTF-16BE)
//	[...]    index section      optional, see below
//
// The index section carries a prebuilt structural index so lookups can skip
// scanning:
//
//	[0:4]    "SIX1"
//	[4]      compression (0 none, 1 lz4, 2 zstd)
//	[5:7]    uint16 little-endian  levels
//	[7:11]   uint32 little-endian  words per bitmap
//	[11:19]  block header: uint32 LE raw size, uint32 LE stored size (0 = raw)
//	[19:...] block data
//
// The raw block is the quote bitmap followed by every level bitmap, each as
// little-endian uint64 words. Uncompressed sections are used in place.
package record
