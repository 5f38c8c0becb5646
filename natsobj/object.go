package natsobj

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/inovacc/streamio"
)

// Object is an open stream handle over a single object in the store. Data
// is held in memory; writable handles flush back to the store on Sync or
// Close.
type Object struct {
	store   *Store
	name    string
	mode    string
	data    []byte
	pos     int64
	modTime time.Time
	dirty   bool
	closed  bool
}

func (o *Object) Read(p []byte) (n int, err error) {
	if o.closed {
		return 0, os.ErrClosed
	}
	if o.pos >= int64(len(o.data)) {
		return 0, io.EOF
	}

	n = copy(p, o.data[o.pos:])
	o.pos += int64(n)
	return n, nil
}

func (o *Object) Write(p []byte) (n int, err error) {
	if o.closed {
		return 0, os.ErrClosed
	}

	// Ensure capacity
	if required := int(o.pos) + len(p); required > len(o.data) {
		newData := make([]byte, required)
		copy(newData, o.data)
		o.data = newData
	}

	n = copy(o.data[o.pos:], p)
	o.pos += int64(n)
	o.modTime = time.Now()
	o.dirty = true
	return n, nil
}

func (o *Object) Seek(offset int64, whence int) (int64, error) {
	if o.closed {
		return 0, os.ErrClosed
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = o.pos + offset
	case io.SeekEnd:
		abs = int64(len(o.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}

	if abs < 0 {
		return 0, errors.New("negative position")
	}

	o.pos = abs
	return abs, nil
}

// Name reports the object locator in nats://bucket/name form, so streams
// over objects are never mistaken for path-backed files.
func (o *Object) Name() string {
	return fmt.Sprintf("nats://%s/%s", o.store.bucket, o.name)
}

// Mode returns the fopen-style mode the object was opened in.
func (o *Object) Mode() string {
	return o.mode
}

// Stat describes the in-memory state of the object.
func (o *Object) Stat() (os.FileInfo, error) {
	if o.closed {
		return nil, os.ErrClosed
	}
	return streamio.NewFileInfo(o.name, int64(len(o.data)), o.modTime), nil
}

// Metadata exposes store-level facts for merging into stream metadata.
func (o *Object) Metadata() map[string]any {
	return map[string]any{
		"bucket": o.store.bucket,
		"object": o.name,
	}
}

// Sync writes dirty data back to the object store without closing the
// handle.
func (o *Object) Sync() error {
	if o.closed {
		return os.ErrClosed
	}
	if !o.dirty {
		return nil
	}
	if err := o.store.save(o.name, o.data); err != nil {
		return err
	}
	o.dirty = false
	return nil
}

// Close flushes pending writes and marks the handle closed. Closing twice
// is a no-op.
func (o *Object) Close() error {
	if o.closed {
		return nil
	}
	err := o.Sync()
	o.closed = true
	return err
}
