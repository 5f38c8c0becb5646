package streamio

import (
	"fmt"
	"os"
)

// fileHandle couples an os.File with the fopen-style mode it was opened
// in, so capability derivation can still see the mode after the open flags
// are gone.
type fileHandle struct {
	*os.File
	mode string
}

func (f *fileHandle) Mode() string {
	return f.mode
}

// Open opens path in an fopen-style mode and wraps it in a Stream. The
// resulting stream is path-backed: size queries always consult fresh
// filesystem metadata.
//
// Supported modes are r, w, a, x and c, optionally combined with + for
// read and write access and suffixed with b, t or e.
func Open(path, mode string) (*Stream, error) {
	flag, err := openFlags(mode)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("streamio: open %s: %w", path, err)
	}
	return New(&fileHandle{File: f, mode: mode})
}

// openFlags maps an fopen-style mode onto os.OpenFile flags.
func openFlags(mode string) (int, error) {
	base, plus, ok := classifyMode(mode)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	var flag int
	switch base {
	case 'r':
		flag = os.O_RDONLY
	case 'w':
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case 'a':
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case 'x':
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	case 'c':
		flag = os.O_WRONLY | os.O_CREATE
	}
	if plus {
		flag = flag&^os.O_WRONLY | os.O_RDWR
	}
	return flag, nil
}
