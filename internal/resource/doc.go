// Package resource bounds the shared resources used by structidx.
//
// A Controller governs two budgets:
//
//   - Memory: bytes of off-heap buffer memory handed out by the buffer pool.
//     TryAcquireMemory fails fast; AcquireMemory waits until memory is
//     released or the context is done.
//   - IO: bytes per second read from a document store during predicate scans,
//     enforced with a token bucket.
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    IOLimitBytesPerSec: 32 << 20,
//	})
//
//	if err := rc.AcquireMemory(ctx, size); err != nil { ... }
//	defer rc.ReleaseMemory(size)
//
// A nil *Controller is valid and imposes no limits.
package resource
