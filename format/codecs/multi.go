package codecs

import (
	"io"

	mc "github.com/multiformats/go-multicodec"
)

// MultiCodec is a Codec that produces and consumes self-describing encodings.
// During encoding it writes a multicodec header as a prefix to the encoded
// data. On decoding it reads the header and ensures that it matches.
//
// The header is written only once, at the very beginning, even if the same
// encoder is used for encoding multiple objects:
//
//	HEADER|object1|object2|...
//
// Likewise, the decoder consumes a single header and decodes all subsequent
// objects with the same codec. Use a MuxCodec to support multiple codecs.
type MultiCodec interface {
	Codec

	// Header returns the multicodec header identifying this codec.
	Header() []byte
}

// NewMultiCodec wraps the given codec with the multicodec header built from
// the given path, e.g. "/cbor".
func NewMultiCodec(codec Codec, path string) MultiCodec {
	return &multiCodec{
		codec:  codec,
		header: mc.Header([]byte(path)),
	}
}

type multiCodec struct {
	codec  Codec
	header []byte
}

func (m *multiCodec) Header() []byte {
	return m.header
}

func (m *multiCodec) Encoder(w io.Writer) Encoder {
	return &multiEncoder{writer: w, encoder: m.codec.Encoder(w), header: m.header}
}

func (m *multiCodec) Decoder(r io.Reader) Decoder {
	return &multiDecoder{reader: r, codec: m.codec, header: m.header}
}

////////////////////////////////////////////////////////////////////////////////

type multiEncoder struct {
	writer        io.Writer
	encoder       Encoder
	header        []byte
	headerWritten bool
}

func (e *multiEncoder) Encode(obj interface{}) error {
	if !e.headerWritten {
		if _, err := e.writer.Write(e.header); err != nil {
			return err
		}
		e.headerWritten = true
	}
	return e.encoder.Encode(obj)
}

////////////////////////////////////////////////////////////////////////////////

type multiDecoder struct {
	reader io.Reader
	codec  Codec
	header []byte
	dec    Decoder
}

func (d *multiDecoder) Decode(obj interface{}) error {
	if d.dec == nil {
		if err := mc.ConsumeHeader(d.reader, d.header); err != nil {
			return err
		}
		d.dec = d.codec.Decoder(d.reader)
	}
	return d.dec.Decode(obj)
}
