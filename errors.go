package streamio

import (
	"errors"
	"fmt"
)

// Sentinel errors for common stream conditions.
var (
	// ErrInvalidHandle indicates a value that is not an open stream resource.
	ErrInvalidHandle = errors.New("streamio: not a valid stream handle")

	// ErrInvalidMode indicates an open mode string that cannot be classified.
	ErrInvalidMode = errors.New("streamio: invalid open mode")

	// ErrNegativeLength indicates a read with a negative length.
	ErrNegativeLength = errors.New("streamio: length cannot be negative")

	// ErrDetached indicates I/O on a stream whose handle was closed or
	// detached. Check with errors.Is(err, streamio.ErrDetached).
	ErrDetached = errors.New("streamio: stream is detached or closed")

	// ErrNotSeekable indicates a seek on a stream without random access.
	ErrNotSeekable = errors.New("streamio: stream is not seekable")
)

// StreamError wraps a failed stream operation with additional context.
type StreamError struct {
	// Op is the operation that failed: "read", "write", "seek", "tell",
	// "contents".
	Op string

	// URI locates the underlying resource, when known.
	URI string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("streamio: %s %s failed: %v", e.Op, e.URI, e.Err)
	}
	return fmt.Sprintf("streamio: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StreamError) Unwrap() error {
	return e.Err
}

func newStreamError(op, uri string, err error) *StreamError {
	return &StreamError{Op: op, URI: uri, Err: err}
}
