// Package fs abstracts the file system operations behind atomic document
// writes so that failures can be injected in tests.
//
//   - [LocalFS]: Production implementation using the os package
//   - [FaultyFS]: Test wrapper that fails writes, syncs, closes or renames
//
// Tests inject [FaultyFS] to check that a failed write never leaves a
// partial document behind:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("orders", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
//
// Operations take no context.Context; local syscalls are not interruptible.
// Remote stores in docstore/s3 and docstore/minio carry contexts instead.
package fs
