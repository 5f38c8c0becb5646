// Package streamio provides a capability-aware wrapper around open stream
// resources: files, in-memory buffers, or object-store backed handles.
// A Stream owns exactly one handle at a time, caches its byte length,
// snapshots its read/write/seek capabilities at construction from the
// fopen-style mode it was opened in, and manages the handle's lifetime
// through Close, Detach or implicit teardown.
package streamio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	_ io.Reader    = (*Stream)(nil)
	_ io.Writer    = (*Stream)(nil)
	_ io.Seeker    = (*Stream)(nil)
	_ io.Closer    = (*Stream)(nil)
	_ fmt.Stringer = (*Stream)(nil)
)

// sizeUnknown marks a size cache that has not been computed yet.
const sizeUnknown = -1

// Stream wraps exactly one open resource handle. All I/O flows through it
// until the handle is released by Close or handed back by Detach, after
// which every active operation fails with ErrDetached.
//
// A Stream is not safe for concurrent use: the cursor position and the
// cached size are shared mutable state with no internal locking.
type Stream struct {
	handle   any
	mode     string
	uri      string
	size     int64
	readable bool
	writable bool
	seekable bool
	eof      bool
	log      zerolog.Logger
}

// New wraps an already-open resource handle in a Stream. The handle must
// satisfy at least one of io.Reader and io.Writer; anything else, including
// nil, a path or a plain string, fails with ErrInvalidHandle.
//
// Capabilities are derived once: readable and writable from the fopen-style
// mode (WithMode option, or the handle's own Mode() string method), with
// interface satisfaction as the fallback when no mode is known; seekable
// from whether the handle implements io.Seeker; the uri from the handle's
// Name() string method unless overridden with WithURI.
//
// If the handle is an io.Closer, the Stream guarantees it is closed when
// the Stream is garbage collected without a prior Close or Detach.
func New(handle any, opts ...Option) (*Stream, error) {
	cfg := config{size: sizeUnknown}
	for _, opt := range opts {
		opt(&cfg)
	}

	if handle == nil {
		return nil, ErrInvalidHandle
	}
	_, canRead := handle.(io.Reader)
	_, canWrite := handle.(io.Writer)
	if !canRead && !canWrite {
		return nil, fmt.Errorf("%w: %T", ErrInvalidHandle, handle)
	}

	mode := cfg.mode
	if mode == "" {
		if m, ok := handle.(interface{ Mode() string }); ok {
			mode = m.Mode()
		}
	}

	s := &Stream{
		handle: handle,
		mode:   mode,
		size:   cfg.size,
		log:    log.Logger,
	}
	if cfg.logger != nil {
		s.log = *cfg.logger
	}

	if mode != "" {
		base, plus, ok := classifyMode(mode)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
		}
		s.readable = readableMode(base, plus)
		s.writable = writableMode(base, plus)
	} else {
		s.readable = canRead
		s.writable = canWrite
	}

	_, s.seekable = handle.(io.Seeker)

	if cfg.uriSet {
		s.uri = cfg.uri
	} else if n, ok := handle.(interface{ Name() string }); ok {
		s.uri = n.Name()
	}

	if _, ok := handle.(io.Closer); ok {
		runtime.SetFinalizer(s, (*Stream).finalize)
	}
	return s, nil
}

// finalize closes a handle that was never closed or detached explicitly.
func (s *Stream) finalize() {
	if c, ok := s.handle.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.log.Error().Err(err).Str("uri", s.uri).Msg("closing abandoned stream handle")
		}
	}
}

// IsReadable reports whether the stream was opened with read access.
func (s *Stream) IsReadable() bool {
	return s.readable
}

// IsWritable reports whether the stream was opened with write access.
func (s *Stream) IsWritable() bool {
	return s.writable
}

// IsSeekable reports whether the underlying handle supports repositioning.
func (s *Stream) IsSeekable() bool {
	return s.seekable
}

// Mode returns the fopen-style mode the handle was opened in, if known.
func (s *Stream) Mode() string {
	return s.mode
}

// URI returns the locator of the underlying resource, if any.
func (s *Stream) URI() string {
	return s.uri
}

// Read reads up to len(p) bytes into p. It implements io.Reader: io.EOF is
// returned at end of resource and marks the stream EOF. Any other failure
// of the underlying handle is reported as a *StreamError.
func (s *Stream) Read(p []byte) (int, error) {
	if s.handle == nil {
		return 0, ErrDetached
	}
	r, ok := s.handle.(io.Reader)
	if !ok {
		return 0, newStreamError("read", s.uri, errors.New("unable to read from stream"))
	}
	n, err := r.Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.eof = true
			return n, io.EOF
		}
		return n, newStreamError("read", s.uri, err)
	}
	return n, nil
}

// ReadBytes reads up to length bytes from the current position. A zero
// length returns empty bytes without touching the handle, and reading at
// the true end of the resource returns empty bytes rather than an error,
// marking the stream EOF.
func (s *Stream) ReadBytes(length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}
	if s.handle == nil {
		return nil, ErrDetached
	}
	if length == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, length)
	n, err := s.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// Write writes len(p) bytes from p to the stream and returns the count
// written. A known cached size grows by the written count: writes are
// assumed to extend the resource at the cursor, overwrites in the middle
// are not tracked differently.
func (s *Stream) Write(p []byte) (int, error) {
	if s.handle == nil {
		return 0, ErrDetached
	}
	w, ok := s.handle.(io.Writer)
	if !ok {
		return 0, newStreamError("write", s.uri, errors.New("unable to write to stream"))
	}
	n, err := w.Write(p)
	if err != nil {
		return n, newStreamError("write", s.uri, err)
	}
	if s.size != sizeUnknown {
		s.size += int64(n)
	}
	return n, nil
}

// Seek repositions the cursor. Streams without random access fail with a
// *StreamError wrapping ErrNotSeekable. A successful seek clears the EOF
// flag.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.handle == nil {
		return 0, ErrDetached
	}
	if !s.seekable {
		return 0, newStreamError("seek", s.uri, ErrNotSeekable)
	}
	pos, err := s.handle.(io.Seeker).Seek(offset, whence)
	if err != nil {
		return 0, newStreamError("seek", s.uri, err)
	}
	s.eof = false
	return pos, nil
}

// Rewind seeks to the start of the stream.
func (s *Stream) Rewind() error {
	_, err := s.Seek(0, io.SeekStart)
	return err
}

// Tell returns the current cursor offset.
func (s *Stream) Tell() (int64, error) {
	if s.handle == nil {
		return 0, ErrDetached
	}
	sk, ok := s.handle.(io.Seeker)
	if !ok {
		return 0, newStreamError("tell", s.uri, errors.New("unable to determine stream position"))
	}
	pos, err := sk.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, newStreamError("tell", s.uri, err)
	}
	return pos, nil
}

// EOF reports whether the last read reached the end of the resource.
func (s *Stream) EOF() (bool, error) {
	if s.handle == nil {
		return false, ErrDetached
	}
	return s.eof, nil
}

// Size reports the byte length of the underlying resource. The second
// return is false when the length cannot be determined; Size never fails.
//
// For path-backed resources the filesystem is consulted on every call,
// since the file may have changed underneath the handle. For everything
// else a previously computed value is trusted until a write through this
// Stream updates it.
func (s *Stream) Size() (int64, bool) {
	if s.handle == nil {
		return 0, false
	}
	if s.pathBacked() {
		info, err := os.Stat(s.uri)
		if err != nil {
			return 0, false
		}
		s.size = info.Size()
		return s.size, true
	}
	if s.size != sizeUnknown {
		return s.size, true
	}
	if st, ok := s.handle.(interface{ Stat() (os.FileInfo, error) }); ok {
		info, err := st.Stat()
		if err != nil {
			return 0, false
		}
		s.size = info.Size()
		return s.size, true
	}
	return 0, false
}

// pathBacked reports whether the uri names a local filesystem path rather
// than a scheme-qualified locator such as nats://bucket/object.
func (s *Stream) pathBacked() bool {
	return s.uri != "" && !strings.Contains(s.uri, "://")
}

// Metadata returns the metadata mapping for the handle. It never fails; a
// closed or detached stream yields an empty map. Handles exposing their
// own Metadata() map[string]any have their entries merged in.
func (s *Stream) Metadata() map[string]any {
	if s.handle == nil {
		return map[string]any{}
	}
	md := map[string]any{
		"uri":      s.uri,
		"mode":     s.mode,
		"seekable": s.seekable,
		"eof":      s.eof,
	}
	if m, ok := s.handle.(interface{ Metadata() map[string]any }); ok {
		for k, v := range m.Metadata() {
			md[k] = v
		}
	}
	return md
}

// MetadataValue returns one metadata entry by key. The second return is
// false when the handle is gone or the key is missing; it never fails.
func (s *Stream) MetadataValue(key string) (any, bool) {
	v, ok := s.Metadata()[key]
	return v, ok
}

// Contents reads the remainder of the stream from the current position to
// the end as one result.
func (s *Stream) Contents() ([]byte, error) {
	if s.handle == nil {
		return nil, ErrDetached
	}
	r, ok := s.handle.(io.Reader)
	if !ok {
		return nil, newStreamError("contents", s.uri, errors.New("unable to read stream contents"))
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newStreamError("contents", s.uri, err)
	}
	return data, nil
}

// Close releases the underlying handle if present and resets the stream.
// Closing an already closed or detached stream is a no-op.
func (s *Stream) Close() error {
	if s.handle == nil {
		return nil
	}
	h := s.handle
	s.reset()
	if c, ok := h.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Detach hands the raw handle back to the caller without closing it,
// transferring ownership out. The stream becomes inert; a second call
// returns nil.
func (s *Stream) Detach() any {
	h := s.handle
	s.reset()
	return h
}

func (s *Stream) reset() {
	runtime.SetFinalizer(s, nil)
	s.handle = nil
	s.size = sizeUnknown
	s.uri = ""
	s.mode = ""
	s.readable = false
	s.writable = false
	s.seekable = false
	s.eof = false
}

// String converts the stream to its full contents as text, seeking to the
// start first when the stream is seekable. Conversion never fails: any
// internal error is reported through the stream's logger and an empty
// string is returned.
func (s *Stream) String() string {
	if s.handle == nil {
		s.log.Warn().Msg("string conversion on a detached stream")
		return ""
	}
	uri := s.uri
	if s.seekable {
		if err := s.Rewind(); err != nil {
			s.log.Error().Err(err).Str("uri", uri).Msg("stream string conversion failed")
			return ""
		}
	}
	data, err := s.Contents()
	if err != nil {
		s.log.Error().Err(err).Str("uri", uri).Msg("stream string conversion failed")
		return ""
	}
	return string(data)
}
