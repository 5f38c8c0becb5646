package streamio

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// Buffer is an in-memory stream handle backed by a growable byte slice.
// It carries an fopen-style mode so a Stream wrapped around it derives
// capabilities the same way it would for a real file, and it reports no
// name, so it is never treated as path-backed.
type Buffer struct {
	mode    string
	data    []byte
	pos     int64
	modTime time.Time
	closed  bool
	mu      sync.RWMutex
}

// NewBuffer creates an empty in-memory handle in the given mode.
func NewBuffer(mode string) *Buffer {
	return &Buffer{
		mode:    mode,
		data:    make([]byte, 0),
		modTime: time.Now(),
	}
}

// NewBufferBytes creates an in-memory handle seeded with data.
func NewBufferBytes(mode string, data []byte) *Buffer {
	return &Buffer{
		mode:    mode,
		data:    append([]byte(nil), data...),
		modTime: time.Now(),
	}
}

func (b *Buffer) Read(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, os.ErrClosed
	}
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}

	n = copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) ReadAt(p []byte, off int64) (n int, err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, os.ErrClosed
	}
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}

	n = copy(p, b.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, os.ErrClosed
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}

	if abs < 0 {
		return 0, errors.New("negative position")
	}

	b.pos = abs
	return abs, nil
}

func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, os.ErrClosed
	}

	// Append modes always write at the end regardless of the cursor.
	if b.mode != "" && b.mode[0] == 'a' {
		b.pos = int64(len(b.data))
	}

	// Ensure capacity
	if required := int(b.pos) + len(p); required > len(b.data) {
		newData := make([]byte, required)
		copy(newData, b.data)
		b.data = newData
	}

	n = copy(b.data[b.pos:], p)
	b.pos += int64(n)
	b.modTime = time.Now()
	return n, nil
}

func (b *Buffer) WriteAt(p []byte, off int64) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, os.ErrClosed
	}
	if off < 0 {
		return 0, errors.New("negative offset")
	}

	// Ensure capacity
	if required := int(off) + len(p); required > len(b.data) {
		newData := make([]byte, required)
		copy(newData, b.data)
		b.data = newData
	}

	n = copy(b.data[off:], p)
	b.modTime = time.Now()
	return n, nil
}

// Truncate resizes the buffer, zero-filling when growing.
func (b *Buffer) Truncate(size int64) error {
	if size < 0 {
		return errors.New("negative size")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return os.ErrClosed
	}

	if size > int64(len(b.data)) {
		newData := make([]byte, size)
		copy(newData, b.data)
		b.data = newData
	} else {
		b.data = b.data[:size]
	}
	b.modTime = time.Now()
	return nil
}

// Mode returns the fopen-style mode the buffer was created with.
func (b *Buffer) Mode() string {
	return b.mode
}

// Stat describes the buffer as an unnamed regular file.
func (b *Buffer) Stat() (os.FileInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, os.ErrClosed
	}
	return NewFileInfo("", int64(len(b.data)), b.modTime), nil
}

// Len returns the current length of the buffered data.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Bytes returns a copy of the buffered data.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte(nil), b.data...)
}

// Close marks the buffer closed. Closing twice is a no-op.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
