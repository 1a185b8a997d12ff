// Package message defines the outermost framed unit of the array interchange
// format: a version tag and a discriminated header carrying either array
// data, a single standalone buffer or an opaque type descriptor.
//
// On the wire a message is a run of three consecutive items produced by the
// codecs package: the version, the header discriminant and the header body.
// The version is decoded first and unknown versions are rejected before any
// further bytes are interpreted; the discriminant is decoded second and
// selects the body type. This keeps the format append-only: new header types
// or versions extend the enums without disturbing existing readers.
package message

import (
	goerrors "errors"

	"github.com/eluv-io/arrayipc-go/format/arrays"
	"github.com/eluv-io/arrayipc-go/format/buffers"
)

// Version is the format version tag of a message.
type Version uint8

// V0 is the only version currently defined.
const V0 Version = 0

func (v Version) String() string {
	if v == V0 {
		return "V0"
	}
	return "unknown"
}

// HeaderType is the discriminant of a message's header union.
type HeaderType uint8

const (
	// HeaderNone is the reserved zero discriminant; it never appears on the
	// wire.
	HeaderNone HeaderType = iota
	// HeaderArrayData marks a message carrying an array envelope whose
	// buffer payloads immediately follow the message in the stream.
	HeaderArrayData
	// HeaderBuffer marks a message carrying a single standalone buffer with
	// no tree; exactly one payload follows the message.
	HeaderBuffer
	// HeaderDType marks a message carrying an opaque type descriptor with no
	// trailing payload.
	HeaderDType
)

func (h HeaderType) String() string {
	switch h {
	case HeaderNone:
		return "None"
	case HeaderArrayData:
		return "ArrayData"
	case HeaderBuffer:
		return "Buffer"
	case HeaderDType:
		return "DType"
	}
	return "unknown"
}

var (
	// ErrUnsupportedVersion is the cause of errors reported when a message
	// carries a version tag the reader does not support.
	ErrUnsupportedVersion = goerrors.New("unsupported message version")

	// ErrUnknownHeaderType is the cause of errors reported when a message
	// carries an unknown header discriminant.
	ErrUnknownHeaderType = goerrors.New("unknown message header type")

	// ErrMalformedEnvelope is the cause of errors reported when the
	// serialization layer cannot parse a message envelope's structure.
	ErrMalformedEnvelope = goerrors.New("malformed message envelope")
)

// BufferHeader is the body of a Buffer-headed message: one standalone buffer
// descriptor. Compression identifies the applied at-rest compression; it is
// opaque to the codec and passed through unchanged (0 means none).
type BufferHeader struct {
	Descriptor  buffers.Descriptor `codec:"descriptor" json:"descriptor"`
	Compression uint8              `codec:"compression,omitempty" json:"compression,omitempty"`
}

// Message is one framed unit of the stream. Exactly one of ArrayData, Buffer
// and DType is set, matching Header. A message is constructed fresh per
// transmitted unit and is immutable once serialized.
type Message struct {
	Version   Version
	Header    HeaderType
	ArrayData *arrays.Envelope
	Buffer    *BufferHeader
	DType     []byte
}

// NewArrayData returns an ArrayData-headed V0 message for the given envelope.
func NewArrayData(env *arrays.Envelope) *Message {
	return &Message{Version: V0, Header: HeaderArrayData, ArrayData: env}
}

// NewBuffer returns a Buffer-headed V0 message for the given descriptor.
func NewBuffer(desc buffers.Descriptor) *Message {
	return &Message{Version: V0, Header: HeaderBuffer, Buffer: &BufferHeader{Descriptor: desc}}
}

// NewDType returns a DType-headed V0 message for the given opaque type
// descriptor bytes.
func NewDType(dtype []byte) *Message {
	return &Message{Version: V0, Header: HeaderDType, DType: dtype}
}

// PayloadDescriptors returns the descriptors of the buffer payloads trailing
// this message in the stream, in stream order. DType messages have none.
func (m *Message) PayloadDescriptors() []buffers.Descriptor {
	switch m.Header {
	case HeaderArrayData:
		if m.ArrayData != nil {
			return m.ArrayData.Buffers
		}
	case HeaderBuffer:
		if m.Buffer != nil {
			return []buffers.Descriptor{m.Buffer.Descriptor}
		}
	}
	return nil
}
