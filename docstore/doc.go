// Package docstore provides storage abstraction for JSON documents,
// encoded records and pattern cache snapshots.
//
// Store is the interface for reading and writing named documents.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-memory, for tests
//   - CachingStore: Byte-bounded LRU in front of any Store
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type Store interface {
//	    Get(ctx, name) (Document, error)
//	    Put(ctx, name, data) error   // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// A Document exposes its contents as a byte slice that stays valid until
// Close. LocalStore backs it with a read-only memory mapping so large
// documents can be indexed without copying.
package docstore
