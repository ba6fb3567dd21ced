package docstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a document does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store holds named JSON documents, records and cache snapshots.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get opens a document for reading.
	Get(ctx context.Context, name string) (Document, error)
	// Put writes a document atomically, replacing any previous version.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Document is a read-only view of a stored document.
type Document interface {
	// Bytes returns the document contents.
	// The slice is valid until the Document is closed and must not be modified.
	Bytes() []byte
	Close() error
}

// ReadAll returns a copy of the named document.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return append([]byte(nil), doc.Bytes()...), nil
}

// bytesDocument is a Document over an owned slice.
type bytesDocument []byte

// NewDocument wraps data as a Document. Close is a no-op.
func NewDocument(data []byte) Document { return bytesDocument(data) }

func (d bytesDocument) Bytes() []byte { return d }
func (d bytesDocument) Close() error  { return nil }
