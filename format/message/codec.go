package message

import (
	"io"

	"github.com/eluv-io/arrayipc-go/format/arrays"
	"github.com/eluv-io/arrayipc-go/format/codecs"
	"github.com/eluv-io/errors-go"
)

// Codec encodes and decodes messages using a self-describing serialization
// codec from the codecs package.
type Codec struct {
	codec codecs.Codec
}

// NewCodec creates a message codec on top of the given serialization codec.
// Passing nil uses codecs.Default().
func NewCodec(c codecs.Codec) *Codec {
	if c == nil {
		c = codecs.Default()
	}
	return &Codec{codec: c}
}

// Encode writes the message to w: version, header discriminant, header body.
func (c *Codec) Encode(w io.Writer, m *Message) error {
	e := errors.Template("encode message", errors.K.Invalid, "header", m.Header)
	if err := m.check(); err != nil {
		return e(err)
	}
	enc := c.codec.Encoder(w)
	if err := enc.Encode(uint8(m.Version)); err != nil {
		return e(err, "reason", "failed to write version")
	}
	if err := enc.Encode(uint8(m.Header)); err != nil {
		return e(err, "reason", "failed to write header type")
	}
	var err error
	switch m.Header {
	case HeaderArrayData:
		err = enc.Encode(m.ArrayData)
	case HeaderBuffer:
		err = enc.Encode(m.Buffer)
	case HeaderDType:
		err = enc.Encode(m.DType)
	}
	if err != nil {
		return e(err, "reason", "failed to write header body")
	}
	return nil
}

// Decode reads one message from r. It decodes the version first and rejects
// unsupported versions before interpreting anything else, then decodes the
// header discriminant and dispatches to the matching body. On any error the
// partially decoded message is discarded, never returned.
func (c *Codec) Decode(r io.Reader) (*Message, error) {
	e := errors.Template("decode message", errors.K.Invalid)
	dec := c.codec.Decoder(r)

	var version uint8
	if err := dec.Decode(&version); err != nil {
		return nil, e(ErrMalformedEnvelope, "error", err, "reason", "failed to read version")
	}
	if Version(version) != V0 {
		return nil, e(ErrUnsupportedVersion, "version", version)
	}

	var headerType uint8
	if err := dec.Decode(&headerType); err != nil {
		return nil, e(ErrMalformedEnvelope, "error", err, "reason", "failed to read header type")
	}

	m := &Message{Version: Version(version), Header: HeaderType(headerType)}
	switch m.Header {
	case HeaderArrayData:
		m.ArrayData = &arrays.Envelope{}
		if err := dec.Decode(m.ArrayData); err != nil {
			return nil, e(ErrMalformedEnvelope, "error", err, "header", m.Header)
		}
	case HeaderBuffer:
		m.Buffer = &BufferHeader{}
		if err := dec.Decode(m.Buffer); err != nil {
			return nil, e(ErrMalformedEnvelope, "error", err, "header", m.Header)
		}
	case HeaderDType:
		if err := dec.Decode(&m.DType); err != nil {
			return nil, e(ErrMalformedEnvelope, "error", err, "header", m.Header)
		}
	default:
		return nil, e(ErrUnknownHeaderType, "header_type", headerType)
	}
	return m, nil
}

// check verifies that the header discriminant matches the populated body.
func (m *Message) check() error {
	ok := false
	switch m.Header {
	case HeaderArrayData:
		ok = m.ArrayData != nil && m.Buffer == nil && m.DType == nil
	case HeaderBuffer:
		ok = m.Buffer != nil && m.ArrayData == nil && m.DType == nil
	case HeaderDType:
		ok = m.ArrayData == nil && m.Buffer == nil
	}
	if !ok {
		return errors.E("check message", errors.K.Invalid,
			"reason", "header type does not match populated body",
			"header", m.Header)
	}
	return nil
}
