// Package s3 provides an S3 implementation of the docstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("orders/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	doc, err := store.Get(ctx, "2026/10/order-1.json")
//	defer doc.Close()
//	idx, err := ex.Index(doc.Bytes())
//
// # Features
//
//   - Multipart uploads for large records
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - Custom endpoints for S3-compatible servers
package s3
