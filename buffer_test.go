package streamio

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferReadWriteSeek(t *testing.T) {
	b := NewBuffer("w+")

	n, err := b.Write([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	pos, err := b.Seek(6, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	buf := make([]byte, 5)
	n, err = b.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	_, err = b.Read(buf)
	assert.ErrorIs(t, err, io.EOF)

	_, err = b.Seek(-1, io.SeekStart)
	assert.Error(t, err)
	_, err = b.Seek(0, 42)
	assert.Error(t, err)
}

func TestBufferOverwriteInMiddle(t *testing.T) {
	b := NewBufferBytes("r+", []byte("aaaa"))

	_, err := b.Seek(1, io.SeekStart)
	require.NoError(t, err)

	n, err := b.Write([]byte("bb"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("abba"), b.Bytes())
	assert.Equal(t, 4, b.Len())
}

func TestBufferAppendMode(t *testing.T) {
	b := NewBufferBytes("a", []byte("abc"))

	_, err := b.Seek(0, io.SeekStart)
	require.NoError(t, err)

	// Append mode ignores the cursor and writes at the end.
	_, err = b.Write([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), b.Bytes())
}

func TestBufferWriteAtExtends(t *testing.T) {
	b := NewBufferBytes("r+", []byte("ab"))

	n, err := b.WriteAt([]byte("zz"), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{'a', 'b', 0, 0, 'z', 'z'}, b.Bytes())

	_, err = b.WriteAt([]byte("x"), -1)
	assert.Error(t, err)
}

func TestBufferReadAt(t *testing.T) {
	b := NewBufferBytes("r", []byte("abcdef"))

	buf := make([]byte, 3)
	n, err := b.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "cde", string(buf))

	// Short read at the tail reports EOF.
	n, err = b.ReadAt(buf, 5)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = b.ReadAt(buf, 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBufferTruncate(t *testing.T) {
	b := NewBufferBytes("r+", []byte("abcdef"))

	require.NoError(t, b.Truncate(3))
	assert.Equal(t, []byte("abc"), b.Bytes())

	require.NoError(t, b.Truncate(5))
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0}, b.Bytes())

	assert.Error(t, b.Truncate(-1))
}

func TestBufferClosed(t *testing.T) {
	b := NewBuffer("w+")
	require.NoError(t, b.Close())

	_, err := b.Read(make([]byte, 1))
	assert.ErrorIs(t, err, os.ErrClosed)
	_, err = b.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
	_, err = b.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, os.ErrClosed)
	_, err = b.Stat()
	assert.ErrorIs(t, err, os.ErrClosed)

	// Closing twice is fine.
	assert.NoError(t, b.Close())
}

func TestBufferBytesIsACopy(t *testing.T) {
	b := NewBufferBytes("r+", []byte("abc"))

	snapshot := b.Bytes()
	snapshot[0] = 'z'
	assert.Equal(t, []byte("abc"), b.Bytes())
}

func TestBufferStat(t *testing.T) {
	b := NewBufferBytes("r", []byte("abcd"))

	info, err := b.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size())
	assert.False(t, info.IsDir())
}
