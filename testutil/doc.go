// Package testutil provides testing utilities for structidx.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Documents
//
//	rng := testutil.NewRNG(seed)
//	doc := rng.Document(testutil.DocOptions{MaxDepth: 5})
//	for path, want := range doc.Leaves {
//	    // compare against a lookup of path in doc.JSON
//	}
package testutil
