package wire

import (
	"bytes"

	"github.com/multiformats/go-varint"

	"github.com/eluv-io/arrayipc-go/format/buffers"
	"github.com/eluv-io/arrayipc-go/format/message"
	"github.com/eluv-io/errors-go"
)

// ReadMessage decodes one message from an already-resident byte slice and
// returns the remaining bytes after it. The payload views of the returned
// Decoded alias b directly (true zero copy): they stay valid exactly as long
// as b does.
//
// b must start at a message boundary of its stream, i.e. at an offset that is
// a multiple of the alignment; the remainder returned by a previous
// ReadMessage call satisfies this. An empty b reports (nil, nil, nil): end of
// stream.
func ReadMessage(b []byte, opt ...Option) (*Decoded, []byte, error) {
	opts := defaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	e := errors.Template("read message", errors.K.Invalid)

	if len(b) == 0 {
		return nil, nil, nil
	}

	size, n, err := varint.FromUvarint(b)
	if err != nil {
		if allZero(b) {
			// trailing filler only
			return nil, nil, nil
		}
		if err == varint.ErrUnderflow {
			return nil, nil, e(ErrTruncatedStream, "reason", "slice ends inside length prefix")
		}
		return nil, nil, e(ErrMalformedEnvelope, "error", err, "reason", "invalid length prefix")
	}
	if size == 0 {
		if allZero(b) {
			// trailing filler only
			return nil, nil, nil
		}
		return nil, nil, e(ErrMalformedEnvelope, "reason", "zero envelope size")
	}
	if size > opts.maxEnvelopeSize {
		return nil, nil, e(ErrMalformedEnvelope,
			"reason", "envelope size out of bounds",
			"size", size,
			"limit", opts.maxEnvelopeSize)
	}
	cursor := uint64(n)
	if uint64(len(b))-cursor < size {
		return nil, nil, e(ErrTruncatedStream, "reason", "slice ends inside envelope")
	}

	codec := message.NewCodec(opts.codec)
	msg, err := codec.Decode(bytes.NewReader(b[cursor : cursor+size]))
	if err != nil {
		return nil, nil, e(err)
	}
	cursor += size
	if msg.Header == message.HeaderArrayData {
		if err := msg.ArrayData.Validate(opts.maxDepth); err != nil {
			return nil, nil, e(err)
		}
	}

	var arena *buffers.Arena
	descs := msg.PayloadDescriptors()
	if total := buffers.TotalStride(descs); total > 0 {
		cursor = buffers.AlignUp(cursor, opts.alignment)
		if uint64(len(b)) < cursor || uint64(len(b))-cursor < total {
			return nil, nil, e(ErrTruncatedStream, "reason", "slice ends inside payloads")
		}
		arena, err = buffers.NewArena(b[cursor:cursor+total], descs)
		if err != nil {
			return nil, nil, e(err)
		}
		cursor += total
	} else if len(descs) > 0 {
		arena, err = buffers.NewArena(nil, descs)
		if err != nil {
			return nil, nil, e(err)
		}
	}

	// the next message starts at the next aligned offset; a shorter remainder
	// is trailing filler
	cursor = buffers.AlignUp(cursor, opts.alignment)
	if cursor >= uint64(len(b)) {
		return &Decoded{msg: msg, arena: arena}, nil, nil
	}
	return &Decoded{msg: msg, arena: arena}, b[cursor:], nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
