package buffers_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/arrayipc-go/format/buffers"
	"github.com/eluv-io/arrayipc-go/util/byteutil"
)

func TestPaddingFor(t *testing.T) {
	tests := []struct {
		length    uint64
		alignment uint64
		want      uint16
	}{
		{length: 0, alignment: 8, want: 0},
		{length: 1, alignment: 8, want: 7},
		{length: 7, alignment: 8, want: 1},
		{length: 8, alignment: 8, want: 0},
		{length: 12, alignment: 8, want: 4},
		{length: 16, alignment: 8, want: 0},
		{length: 17, alignment: 8, want: 7},
		{length: 3, alignment: 4, want: 1},
		{length: 3, alignment: 1, want: 0},
		{length: 5, alignment: 64, want: 59},
		// padding at the largest supported alignment still fits 16 bits
		{length: 1, alignment: buffers.MaxAlignment, want: buffers.MaxAlignment - 1},
	}
	for _, test := range tests {
		require.Equal(t, test.want, buffers.PaddingFor(test.length, test.alignment),
			"length %d alignment %d", test.length, test.alignment)
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		off       uint64
		alignment uint64
		want      uint64
	}{
		{off: 0, alignment: 8, want: 0},
		{off: 1, alignment: 8, want: 8},
		{off: 8, alignment: 8, want: 8},
		{off: 9, alignment: 8, want: 16},
		{off: 42, alignment: 0, want: 42},
		{off: 42, alignment: 1, want: 42},
	}
	for _, test := range tests {
		require.Equal(t, test.want, buffers.AlignUp(test.off, test.alignment))
	}
}

func TestDescribe(t *testing.T) {
	require.Nil(t, buffers.Describe(nil, 8))

	payloads := [][]byte{
		byteutil.RandomBytes(12),
		byteutil.RandomBytes(7),
		{},
		byteutil.RandomBytes(8),
	}
	descs := buffers.Describe(payloads, 8)
	require.Equal(t, []buffers.Descriptor{
		{Length: 12, Padding: 4},
		{Length: 7, Padding: 1},
		{Length: 0, Padding: 0},
		{Length: 8, Padding: 0},
	}, descs)
	require.EqualValues(t, 32, buffers.TotalStride(descs))
}

func TestArena(t *testing.T) {
	descs := []buffers.Descriptor{
		{Length: 12, Padding: 4},
		{Length: 7, Padding: 1},
		{Length: 0, Padding: 0},
	}
	region := byteutil.RandomBytes(24)

	arena, err := buffers.NewArena(region, descs)
	require.NoError(t, err)
	require.Equal(t, 3, arena.Count())
	require.EqualValues(t, 24, arena.Size())

	v0, err := arena.View(0)
	require.NoError(t, err)
	require.Equal(t, region[:12], v0.Bytes())

	v1, err := arena.View(1)
	require.NoError(t, err)
	require.Equal(t, region[16:23], v1.Bytes())

	v2, err := arena.View(2)
	require.NoError(t, err)
	require.Equal(t, 0, v2.Len())

	views := arena.Views()
	require.Len(t, views, 3)
	require.Equal(t, v0.Bytes(), views[0].Bytes())

	_, err = arena.View(3)
	require.Error(t, err)
	_, err = arena.View(-1)
	require.Error(t, err)
}

func TestArenaZeroCopy(t *testing.T) {
	region := byteutil.RandomBytes(16)
	arena, err := buffers.NewArena(region, []buffers.Descriptor{{Length: 12, Padding: 4}})
	require.NoError(t, err)

	v, err := arena.View(0)
	require.NoError(t, err)

	// views alias the region; a clone does not
	clone := v.Clone()
	region[0]++
	require.Equal(t, region[0], v.Bytes()[0])
	require.NotEqual(t, region[0], clone[0])
}

func TestArenaTruncated(t *testing.T) {
	descs := []buffers.Descriptor{{Length: 12, Padding: 4}}
	_, err := buffers.NewArena(make([]byte, 15), descs)
	require.Error(t, err)
	require.True(t, errors.Is(err, buffers.ErrTruncatedStream))
}
