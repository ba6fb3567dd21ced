// Package cache provides a byte-bounded LRU for fetched documents.
//
// It backs docstore.CachingStore so that documents read from remote stores
// are fetched once per working set. Memory is optionally charged against a
// resource.Controller.
package cache
