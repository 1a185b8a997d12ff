package ioutil

import "io"

// NewByteReader adapts the given io.Reader to an io.ByteReader. If the reader
// already implements io.ByteReader it is returned as is.
func NewByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{r: r}
}

type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReader) ReadByte() (byte, error) {
	for {
		n, err := b.r.Read(b.buf[:])
		if n > 0 {
			return b.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
