// Package bufpool provides a fixed-capacity pool of off-heap byte buffers.
//
// Buffers are anonymous memory mappings of one fixed size, created lazily up
// to the pool capacity and recycled afterwards. Between Acquire and Release a
// buffer is owned exclusively by the caller; Release is idempotent so it can be
// deferred on every exit path.
//
// Requests larger than the buffer size fail with ErrBufferTooSmall. When every
// buffer is in use, TryAcquire fails with ErrPoolExhausted and Acquire waits
// for a Release or for its context to end. New mappings are charged against an
// optional resource.Controller memory budget.
package bufpool
