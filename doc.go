// Package structidx extracts scalar values from JSON objects by dotted path
// without building a parse tree.
//
// A document is indexed in two word-parallel passes. The first classifies
// every code unit into five bitmaps (colon, quote, left brace, right brace,
// backslash), masks escaped quotes and clears structural characters inside
// strings. The second assigns every colon to its object nesting depth. A path
// such as "user.address.city" is then resolved level by level: the candidate
// colons of level i are narrowed to the value range of the key matched at
// level i-1.
//
// # Quick Start
//
//	ex, _ := structidx.NewExtractor()
//	v, ok, err := ex.FindValue(doc, "user.address.city")
//
// For several paths over the same document, build the index once:
//
//	ix, _ := ex.Index(doc)
//	defer ix.Close()
//	city, _, _ := ix.FindValue("user.address.city")
//	zip, _, _ := ix.FindValue("user.address.zip")
//
// # Speculative Patterns
//
// Each successful search yields a pattern: the ordinal of the matched colon
// among the candidates of every level. The Extractor keeps patterns in a
// PatternCache and replays them first on later documents. For streams of
// documents that share a schema the replay touches one candidate per level.
// A pattern that no longer fits (a key moved or disappeared) is detected by
// comparing keys and triggers a full search, so results never depend on the
// cache.
//
// # Backing Stores
//
// The leveled colon bitmaps live either in a garbage-collected slice
// (StoreArray, the default) or in an off-heap buffer leased from a
// BufferPool (StorePooled). Pooled indexes must be closed to return their
// buffer; Extractor.FindValue does this itself.
//
// # Records
//
// EncodeRecord writes a length-prefixed UTF-8 or UTF-16 payload, optionally
// followed by a precomputed index compressed with LZ4 or zstd.
// FindValueInRecord answers lookups on such records without rescanning.
//
// # Limits
//
// Only object keys are navigated. Arrays are opaque: a path never descends
// into an array, and a matched array or object is reported as
// model.OutcomeNotScalar. Paths with at least as many segments as the
// configured max nesting are rejected with ErrPathTooDeep.
package structidx
