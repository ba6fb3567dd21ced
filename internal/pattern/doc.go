// Package pattern caches speculative match patterns by attribute path.
//
// A Cache maps a dotted path string to the model.Pattern that matched it last.
// Entries are hints, never trusted without re-validation, so a race between
// writers only costs a redundant search. Stored patterns are immutable copies:
// a reader sees either a complete pattern or no entry.
//
// The cache is split into 64 shards selected by maphash. It is unbounded by
// default; a positive capacity turns each shard into an LRU holding
// capacity/64 entries.
//
// WriteTo and ReadFrom persist a cache as a zstd-compressed snapshot so a
// restarted process starts warm.
package pattern
