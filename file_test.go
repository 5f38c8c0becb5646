package streamio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInvalidMode(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "f.txt"), "rw")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestOpenReadMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"), "r")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenExclusiveExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := Open(path, "x")
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestOpenWritePlusRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	s, err := Open(path, "w+")
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	assert.True(t, s.IsReadable())
	assert.True(t, s.IsWritable())
	assert.True(t, s.IsSeekable())
	assert.Equal(t, path, s.URI())

	_, err = s.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, s.Rewind())

	contents, err := s.Contents()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), contents)
}

func TestOpenAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	s, err := Open(path, "a")
	require.NoError(t, err)
	assert.False(t, s.IsReadable())
	assert.True(t, s.IsWritable())

	_, err = s.Write([]byte("def"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), data)
}

func TestOpenTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0644))

	s, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenOrCreatePreservesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0644))

	s, err := Open(path, "c")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), data)
}

func TestPathBackedSizeBypassesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	s, err := Open(path, "r")
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	size, ok := s.Size()
	require.True(t, ok)
	assert.Equal(t, int64(5), size)

	// The file changes underneath the handle; a path-backed stream must
	// pick up the fresh length instead of trusting the cache.
	require.NoError(t, os.WriteFile(path, []byte("1234567890"), 0644))

	size, ok = s.Size()
	require.True(t, ok)
	assert.Equal(t, int64(10), size)
}

func TestFileStreamMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	s, err := Open(path, "w+b")
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	md := s.Metadata()
	assert.Equal(t, path, md["uri"])
	assert.Equal(t, "w+b", md["mode"])
	assert.Equal(t, true, md["seekable"])
}
