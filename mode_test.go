package streamio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeClassification(t *testing.T) {
	tests := []struct {
		mode     string
		readable bool
		writable bool
	}{
		{"r", true, false},
		{"rb", true, false},
		{"rt", true, false},
		{"r+", true, true},
		{"r+b", true, true},
		{"rb+", true, true},
		{"w", false, true},
		{"wb", false, true},
		{"w+", true, true},
		{"w+b", true, true},
		{"a", false, true},
		{"ab", false, true},
		{"a+", true, true},
		{"x", false, true},
		{"x+", true, true},
		{"xb", false, true},
		{"c", false, true},
		{"c+", true, true},
		{"ce", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			s, err := New(NewBuffer(tt.mode))
			require.NoError(t, err)
			assert.Equal(t, tt.readable, s.IsReadable(), "readable for %q", tt.mode)
			assert.Equal(t, tt.writable, s.IsWritable(), "writable for %q", tt.mode)
			require.NoError(t, s.Close())
		})
	}
}

func TestModeInvalid(t *testing.T) {
	for _, mode := range []string{"z", "rw", "+r", "r+x", "br"} {
		t.Run(mode, func(t *testing.T) {
			_, err := New(NewBuffer(mode))
			assert.ErrorIs(t, err, ErrInvalidMode)
		})
	}
}

func TestModeInferredFromInterfaces(t *testing.T) {
	// A handle without a mode falls back to interface satisfaction.
	s, err := New(NewBuffer(""))
	require.NoError(t, err)
	assert.True(t, s.IsReadable())
	assert.True(t, s.IsWritable())
	assert.True(t, s.IsSeekable())
}

func TestModeOptionOverridesHandle(t *testing.T) {
	s, err := New(NewBuffer("w"), WithMode("r"))
	require.NoError(t, err)
	assert.True(t, s.IsReadable())
	assert.False(t, s.IsWritable())
	assert.Equal(t, "r", s.Mode())
}
