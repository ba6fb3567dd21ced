package structidx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/structidx/internal/bufpool"
	"github.com/hupe1980/structidx/internal/leveled"
	"github.com/hupe1980/structidx/internal/record"
	"github.com/hupe1980/structidx/model"
)

var (
	// ErrInvalidPath is returned for empty paths or paths with empty segments.
	ErrInvalidPath = model.ErrInvalidPath

	// ErrPathTooDeep is returned when a path has at least as many segments
	// as the index has levels.
	ErrPathTooDeep = errors.New("path exceeds max nesting")

	// ErrPoolExhausted is returned when the buffer pool has no free buffer.
	ErrPoolExhausted = errors.New("buffer pool exhausted")

	// ErrBufferTooSmall is returned when the leveled index does not fit a pooled buffer.
	ErrBufferTooSmall = errors.New("index does not fit pooled buffer")

	// ErrMalformedRecord is returned when a record cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrClosed is returned when using a closed Index.
	ErrClosed = errors.New("index is closed")

	// ErrInvalidConfig is returned by LoadConfig and NewExtractor for bad settings.
	ErrInvalidConfig = errors.New("invalid config")
)

// PathError reports a path that cannot be resolved against an index.
//
// The original underlying error can be accessed via errors.Unwrap.
type PathError struct {
	Path       string
	Segments   int
	MaxNesting int
	cause      error
}

func (e *PathError) Error() string {
	if errors.Is(e.cause, ErrPathTooDeep) {
		return fmt.Sprintf("path %q has %d segments, max nesting is %d", e.Path, e.Segments, e.MaxNesting)
	}
	return fmt.Sprintf("path %q: %v", e.Path, e.cause)
}

func (e *PathError) Unwrap() error { return e.cause }

// RecordError reports where a record failed to decode.
//
// The original underlying error can be accessed via errors.Unwrap.
type RecordError struct {
	Offset int
	Reason string
	cause  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record at offset %d: %s", e.Offset, e.Reason)
}

func (e *RecordError) Unwrap() []error { return []error{ErrMalformedRecord, e.cause} }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var re *record.Error
	if errors.As(err, &re) {
		return &RecordError{Offset: re.Offset, Reason: re.Reason, cause: err}
	}
	if errors.Is(err, record.ErrMalformed) || errors.Is(err, leveled.ErrShortBuffer) {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	if errors.Is(err, bufpool.ErrPoolExhausted) {
		return fmt.Errorf("%w: %w", ErrPoolExhausted, err)
	}
	if errors.Is(err, bufpool.ErrBufferTooSmall) {
		return fmt.Errorf("%w: %w", ErrBufferTooSmall, err)
	}
	if errors.Is(err, bufpool.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return err
}

func pathError(path string, cause error) error {
	return &PathError{Path: path, Segments: strings.Count(path, ".") + 1, cause: cause}
}
