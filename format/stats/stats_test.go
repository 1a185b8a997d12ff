package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/arrayipc-go/format/stats"
)

func TestIsEmpty(t *testing.T) {
	var nilBlock *stats.Block
	require.True(t, nilBlock.IsEmpty())
	require.True(t, (&stats.Block{}).IsEmpty())

	tests := []stats.Block{
		{Min: stats.ScalarOf([]byte{0x01})},
		{IsSorted: stats.Bool(false)},
		{NullCount: stats.U64(0)},
		{BitWidthFreq: []uint64{}},
	}
	for _, test := range tests {
		b := test
		require.False(t, b.IsEmpty())
	}
}

func TestScalarClone(t *testing.T) {
	s := stats.Scalar{0x01, 0x02}
	c := s.Clone()
	s[0] = 0xff
	require.Equal(t, stats.Scalar{0x01, 0x02}, c)
}

func TestHelpers(t *testing.T) {
	require.Equal(t, uint64(7), *stats.U64(7))
	require.True(t, *stats.Bool(true))
	require.Equal(t, stats.Scalar{0x2a}, *stats.ScalarOf([]byte{0x2a}))
}
