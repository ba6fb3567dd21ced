// Package hash provides checksums for persisted artifacts.
//
// Pattern cache snapshots end with a CRC32-Castagnoli (CRC32C) of their
// uncompressed body, so a truncated or corrupted snapshot is rejected before
// any entry reaches the cache. CRC32C is hardware accelerated on x86 (SSE4.2)
// and ARM (CRC extension) through hash/crc32.
package hash
