// Package stats defines the sparse statistics block attached to array nodes.
//
// Every field is independently optional: an absent field means "unknown" and
// must never collapse to a zero value. Absent fields are therefore modeled as
// nil pointers (or nil slices) and are omitted from the encoded form entirely.
// The codec transports the block verbatim and performs no consistency checks
// between fields; those are the producer's responsibility.
package stats

// Scalar is an opaque scalar value in its encoded form, as produced by an
// external ScalarCodec. The wire codec never interprets it.
type Scalar []byte

// Clone returns an owned copy of the scalar's bytes.
func (s Scalar) Clone() Scalar {
	c := make(Scalar, len(s))
	copy(c, s)
	return c
}

// ScalarCodec is the external collaborator that encodes and decodes scalar
// values carried in the Min/Max fields of a statistics block. The dtype
// argument is the opaque type descriptor required to interpret the bytes.
type ScalarCodec interface {
	EncodeScalar(v interface{}) (Scalar, error)
	DecodeScalar(s Scalar, dtype []byte) (interface{}, error)
}

// Block is a sparse collection of precomputed facts about an array's values.
// Nil fields are unknown, not false or zero.
type Block struct {
	Min                     *Scalar  `codec:"min,omitempty" json:"min,omitempty"`
	Max                     *Scalar  `codec:"max,omitempty" json:"max,omitempty"`
	IsSorted                *bool    `codec:"is_sorted,omitempty" json:"is_sorted,omitempty"`
	IsStrictSorted          *bool    `codec:"is_strict_sorted,omitempty" json:"is_strict_sorted,omitempty"`
	IsConstant              *bool    `codec:"is_constant,omitempty" json:"is_constant,omitempty"`
	RunCount                *uint64  `codec:"run_count,omitempty" json:"run_count,omitempty"`
	TrueCount               *uint64  `codec:"true_count,omitempty" json:"true_count,omitempty"`
	NullCount               *uint64  `codec:"null_count,omitempty" json:"null_count,omitempty"`
	UncompressedSizeInBytes *uint64  `codec:"uncompressed_size_in_bytes,omitempty" json:"uncompressed_size_in_bytes,omitempty"`
	BitWidthFreq            []uint64 `codec:"bit_width_freq,omitempty" json:"bit_width_freq,omitempty"`
	TrailingZeroFreq        []uint64 `codec:"trailing_zero_freq,omitempty" json:"trailing_zero_freq,omitempty"`
}

// IsEmpty reports whether no field of the block is set.
func (b *Block) IsEmpty() bool {
	return b == nil ||
		b.Min == nil && b.Max == nil &&
			b.IsSorted == nil && b.IsStrictSorted == nil && b.IsConstant == nil &&
			b.RunCount == nil && b.TrueCount == nil && b.NullCount == nil &&
			b.UncompressedSizeInBytes == nil &&
			b.BitWidthFreq == nil && b.TrailingZeroFreq == nil
}

// U64 returns a pointer to the given value, for setting optional count fields.
func U64(v uint64) *uint64 {
	return &v
}

// Bool returns a pointer to the given value, for setting optional flag fields.
func Bool(v bool) *bool {
	return &v
}

// ScalarOf returns a pointer to a scalar holding the given encoded bytes.
func ScalarOf(b []byte) *Scalar {
	s := Scalar(b)
	return &s
}
