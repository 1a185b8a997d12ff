package byteutil

import (
	"math/rand"
)

// RandomBytes returns a slice of the given length filled with random bytes.
func RandomBytes(length int) []byte {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return b
}

// LenUvarInt returns the number of bytes needed to encode the given uint64 as
// varint.
func LenUvarInt(x uint64) int {
	i := 0
	for x >= 0x80 {
		x >>= 7
		i++
	}
	return i + 1
}

// Zeroes is a run of zero bytes used as a source for writing padding. Callers
// must not modify it.
var Zeroes = make([]byte, 256)
