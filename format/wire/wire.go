// Package wire implements the stream codec of the array interchange format:
// it frames message envelopes and their trailing raw buffer payloads
// back-to-back over a byte stream.
//
// Stream layout:
//
//	[filler] varint(len) envelope [filler] payload₀ pad₀ payload₁ pad₁ ...
//
// Every message envelope begins at a stream offset that is a multiple of the
// protocol alignment, and the payload region begins at the next aligned
// offset after the envelope. Each payload is followed by the filler bytes
// recorded in its descriptor so that the following payload starts aligned as
// well. Filler carries no data; a reader locates all boundaries from the
// varint length prefix and the descriptors alone.
//
// The reader is a forward-only cursor: once a message and its payloads have
// been consumed, the cursor is positioned exactly at the start of the next
// message. EOF exactly at a message boundary ends the sequence; EOF anywhere
// inside a message reports a truncated stream. After a decode error the
// cursor position is undefined; resynchronization, if desired, is the
// caller's policy.
package wire

import (
	"github.com/eluv-io/arrayipc-go/format/arrays"
	"github.com/eluv-io/arrayipc-go/format/buffers"
	"github.com/eluv-io/arrayipc-go/format/codecs"
	"github.com/eluv-io/arrayipc-go/format/message"
)

// DefaultMaxEnvelopeSize bounds the accepted envelope length prefix,
// guarding readers against adversarial or corrupt length prefixes.
const DefaultMaxEnvelopeSize = 16 << 20

// Error causes reported by this package and the layers below it, re-exported
// for callers' convenience. Test with errors.Is.
var (
	ErrTruncatedStream        = buffers.ErrTruncatedStream
	ErrUnsupportedVersion     = message.ErrUnsupportedVersion
	ErrUnknownHeaderType      = message.ErrUnknownHeaderType
	ErrMalformedEnvelope      = message.ErrMalformedEnvelope
	ErrInvalidBufferReference = arrays.ErrInvalidBufferReference
	ErrBufferCountMismatch    = arrays.ErrBufferCountMismatch
	ErrTreeTooDeep            = arrays.ErrTreeTooDeep
)

type options struct {
	alignment       uint64
	maxDepth        int
	maxEnvelopeSize uint64
	codec           codecs.Codec
}

func defaultOptions() options {
	return options{
		alignment:       buffers.DefaultAlignment,
		maxDepth:        arrays.DefaultMaxDepth,
		maxEnvelopeSize: DefaultMaxEnvelopeSize,
	}
}

// Option configures a Reader or Writer.
type Option func(*options)

// WithAlignment sets the payload alignment in bytes, up to
// buffers.MaxAlignment. Values outside that range keep the default. Writers
// and readers of the same stream must use the same alignment.
func WithAlignment(alignment uint64) Option {
	return func(o *options) {
		if alignment > 0 && alignment <= buffers.MaxAlignment {
			o.alignment = alignment
		}
	}
}

// WithMaxDepth sets the bound on array tree depth accepted during decode.
func WithMaxDepth(maxDepth int) Option {
	return func(o *options) {
		if maxDepth > 0 {
			o.maxDepth = maxDepth
		}
	}
}

// WithMaxEnvelopeSize sets the maximum accepted envelope size in bytes.
func WithMaxEnvelopeSize(size uint64) Option {
	return func(o *options) {
		if size > 0 {
			o.maxEnvelopeSize = size
		}
	}
}

// WithCodec sets the serialization codec used for message envelopes. The
// default produces the canonical "/cbor" format and decodes all known
// formats.
func WithCodec(c codecs.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}
