// Package buffers defines the buffer descriptors of the array interchange
// format and the layout rules for the raw buffer payloads that trail an
// encoded message.
//
// Payloads are written back-to-back after the message envelope, each followed
// by a small run of filler bytes so that the next payload starts at an offset
// (relative to the start of the stream) that is a multiple of the protocol
// alignment. The descriptors stored in the envelope are the only source of
// payload boundaries: offsets are never transmitted.
package buffers

import (
	goerrors "errors"
)

// DefaultAlignment is the protocol-wide payload alignment in bytes. It is
// large enough for the widest primitive type carried in array buffers. Writers
// and readers configured with a non-default alignment must agree on it.
const DefaultAlignment = 8

// MaxAlignment is the largest supported payload alignment. A descriptor
// stores its trailing padding in 16 bits, and the padding of an aligned
// payload is always smaller than the alignment.
const MaxAlignment = 1 << 16

// ErrTruncatedStream is the cause of errors reported when a stream ends before
// the bytes promised by a descriptor or envelope have been consumed. Use
// errors.Is to test for it.
var ErrTruncatedStream = goerrors.New("truncated stream")

// Descriptor describes one contiguous payload segment: the exact payload
// length and the number of filler bytes written immediately after it. The
// filler carries no data and exists only to satisfy alignment.
type Descriptor struct {
	Length  uint64 `codec:"length" json:"length"`
	Padding uint16 `codec:"padding" json:"padding"`
}

// Stride returns the total number of stream bytes occupied by the descriptor's
// payload including its trailing padding.
func (d Descriptor) Stride() uint64 {
	return d.Length + uint64(d.Padding)
}

// AlignUp rounds off up to the next multiple of alignment. An alignment of 0
// or 1 leaves off unchanged.
func AlignUp(off uint64, alignment uint64) uint64 {
	if alignment <= 1 {
		return off
	}
	rem := off % alignment
	if rem == 0 {
		return off
	}
	return off + alignment - rem
}

// PaddingFor returns the minimal number of filler bytes after a payload of the
// given length such that the next payload starts aligned, assuming the payload
// itself starts aligned. The alignment must not exceed MaxAlignment so the
// result fits the descriptor's 16-bit padding field.
func PaddingFor(length uint64, alignment uint64) uint16 {
	return uint16(AlignUp(length, alignment) - length)
}

// Describe computes the ordered descriptors for the given payloads using the
// given alignment. The resulting descriptors are in ascending stream-offset
// order, matching the order in which the payloads must be written.
func Describe(payloads [][]byte, alignment uint64) []Descriptor {
	if len(payloads) == 0 {
		return nil
	}
	descs := make([]Descriptor, len(payloads))
	for i, p := range payloads {
		length := uint64(len(p))
		descs[i] = Descriptor{
			Length:  length,
			Padding: PaddingFor(length, alignment),
		}
	}
	return descs
}

// TotalStride returns the total number of stream bytes occupied by all given
// descriptors' payloads and padding.
func TotalStride(descs []Descriptor) uint64 {
	var total uint64
	for _, d := range descs {
		total += d.Stride()
	}
	return total
}
