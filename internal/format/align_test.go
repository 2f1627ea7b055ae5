package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	w := WordSize
	cases := []struct {
		in, want int
	}{
		{1, w},
		{3, w},
		{w, w},
		{w + 1, 2 * w},
		{2 * w, 2 * w},
		{100, ((100 + w - 1) / w) * w},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Align(tc.in), "Align(%d)", tc.in)
	}
}

// A one-word payload lives entirely inside the header.
func TestFootprint_InlineWord(t *testing.T) {
	require.Equal(t, HeaderSize, Footprint(WordSize))
	require.Equal(t, HeaderSize+WordSize, Footprint(2*WordSize))
	require.Equal(t, Overhead+128, Footprint(128))
}

func TestIsAligned(t *testing.T) {
	require.True(t, IsAligned(0))
	require.True(t, IsAligned(WordSize))
	require.False(t, IsAligned(WordSize+1))
}
