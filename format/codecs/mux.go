package codecs

import (
	"errors"
	"fmt"
	"io"

	mc "github.com/multiformats/go-multicodec"
)

// ErrNoCodec is returned when decoding data whose multicodec header matches
// none of the mux's codecs.
var ErrNoCodec = errors.New("no suitable codec")

// NewMuxCodec creates a multicodec that muxes between the given codecs - see
// MuxCodec.
func NewMuxCodec(codecs ...MultiCodec) *MuxCodec {
	return &MuxCodec{codecs}
}

// MuxCodec muxes between multiple self-describing codecs. Encoding always
// uses the first codec in the list; decoding selects the codec whose
// multicodec header matches the data stream. This way the encoding side can
// migrate to a new codec while all previously written data remains readable.
//
// MuxCodec is NOT thread-safe - use from a single goroutine only or
// synchronize access.
type MuxCodec struct {
	Codecs []MultiCodec
}

var _ Codec = (*MuxCodec)(nil)

func (c *MuxCodec) Encoder(w io.Writer) Encoder {
	return &muxEncoder{writer: w, mux: c}
}

func (c *MuxCodec) Decoder(r io.Reader) Decoder {
	return &muxDecoder{reader: r, mux: c}
}

func (c *MuxCodec) codecForHeader(hdr []byte) MultiCodec {
	for _, codec := range c.Codecs {
		if string(codec.Header()) == string(hdr) {
			return codec
		}
	}
	return nil
}

type muxEncoder struct {
	writer io.Writer
	mux    *MuxCodec
	enc    Encoder
}

func (c *muxEncoder) Encode(v interface{}) error {
	if c.enc == nil {
		if len(c.mux.Codecs) == 0 {
			return ErrNoCodec
		}
		c.enc = c.mux.Codecs[0].Encoder(c.writer)
	}
	return c.enc.Encode(v)
}

type muxDecoder struct {
	reader io.Reader
	mux    *MuxCodec
	dec    Decoder
}

func (c *muxDecoder) Decode(v interface{}) error {
	if c.dec == nil {
		// read the next header to select the codec
		hdr, err := mc.ReadHeader(c.reader)
		if err != nil {
			return err
		}

		codec := c.mux.codecForHeader(hdr)
		if codec == nil {
			return fmt.Errorf("%w: %s", ErrNoCodec, mc.HeaderPath(hdr))
		}

		// "unwind" the read since the selected codec consumes the header
		c.dec = codec.Decoder(mc.WrapHeaderReader(hdr, c.reader))
	}
	return c.dec.Decode(v)
}
