// Package mmap maps document files and pooled index buffers outside the Go heap.
//
// Open maps a document read-only for a single front-to-back scan; the kernel
// is told to read ahead. Anon maps zeroed read-write memory for the pooled
// leveled-colon store. Neither is visible to the garbage collector, so every
// Mapping must be closed.
//
// On Windows, documents use MapViewOfFile and buffers use VirtualAlloc; the
// read-ahead hint is not available there.
package mmap
