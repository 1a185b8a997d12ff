package wire

import (
	"bytes"
	"io"

	"github.com/multiformats/go-varint"

	"github.com/eluv-io/arrayipc-go/format/buffers"
	"github.com/eluv-io/arrayipc-go/format/message"
	"github.com/eluv-io/arrayipc-go/util/ioutil"
	"github.com/eluv-io/errors-go"
)

// Reader is a forward-only cursor over a stream of messages. The source
// reader must be positioned at the start of the stream (offset 0), since
// payload alignment is computed relative to it.
//
// Reader is not safe for concurrent use; the Decoded values it returns are.
type Reader struct {
	cr      *ioutil.BytesCountReader
	br      io.ByteReader
	opts    options
	codec   *message.Codec
	ordinal int
}

// NewReader creates a stream reader on top of r.
func NewReader(r io.Reader, opt ...Option) *Reader {
	opts := defaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	cr := &ioutil.BytesCountReader{Reader: r}
	return &Reader{
		cr:    cr,
		br:    ioutil.NewByteReader(cr),
		opts:  opts,
		codec: message.NewCodec(opts.codec),
	}
}

// Offset returns the number of bytes consumed from the stream so far.
func (r *Reader) Offset() int64 {
	return int64(r.cr.BytesCount)
}

// Next decodes the next message of the stream, including its trailing buffer
// payloads. It returns io.EOF when the stream ends exactly at a message
// boundary; a stream ending anywhere inside a message reports
// ErrTruncatedStream. A failed message is never partially exposed.
func (r *Reader) Next() (*Decoded, error) {
	e := errors.Template("read message", errors.K.Invalid, "ordinal", r.ordinal)

	// skip filler up to the next aligned message start; EOF here is a clean
	// end of the stream since filler carries no data
	off := r.cr.BytesCount
	if err := r.skip(buffers.AlignUp(off, r.opts.alignment) - off); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, e(errors.K.IO.Default(), err)
	}

	// envelope length prefix
	before := r.cr.BytesCount
	size, err := varint.ReadUvarint(r.br)
	if err != nil {
		switch {
		case errors.Is(err, io.EOF) && r.cr.BytesCount == before:
			return nil, io.EOF
		case errors.Is(err, io.EOF):
			return nil, e(ErrTruncatedStream, "reason", "stream ends inside length prefix")
		default:
			return nil, e(ErrMalformedEnvelope, "error", err, "reason", "invalid length prefix")
		}
	}
	if size == 0 || size > r.opts.maxEnvelopeSize {
		return nil, e(ErrMalformedEnvelope,
			"reason", "envelope size out of bounds",
			"size", size,
			"limit", r.opts.maxEnvelopeSize)
	}

	// envelope
	envelope := make([]byte, size)
	if _, err := io.ReadFull(r.cr, envelope); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, e(ErrTruncatedStream, "reason", "stream ends inside envelope")
		}
		return nil, e(errors.K.IO.Default(), err)
	}
	msg, err := r.codec.Decode(bytes.NewReader(envelope))
	if err != nil {
		return nil, e(err)
	}
	if msg.Header == message.HeaderArrayData {
		if err := msg.ArrayData.Validate(r.opts.maxDepth); err != nil {
			return nil, e(err)
		}
	}

	// payload region
	var arena *buffers.Arena
	descs := msg.PayloadDescriptors()
	if total := buffers.TotalStride(descs); total > 0 {
		off = r.cr.BytesCount
		if err := r.skip(buffers.AlignUp(off, r.opts.alignment) - off); err != nil {
			return nil, e(ErrTruncatedStream, "reason", "stream ends before payloads")
		}
		region := make([]byte, total)
		if _, err := io.ReadFull(r.cr, region); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, e(ErrTruncatedStream, "reason", "stream ends inside payloads")
			}
			return nil, e(errors.K.IO.Default(), err)
		}
		arena, err = buffers.NewArena(region, descs)
		if err != nil {
			return nil, e(err)
		}
	} else if len(descs) > 0 {
		// zero-length payloads only: an arena over an empty region
		arena, err = buffers.NewArena(nil, descs)
		if err != nil {
			return nil, e(err)
		}
	}

	d := &Decoded{msg: msg, arena: arena, ordinal: r.ordinal}
	r.ordinal++
	log.Debug("message read", "header", msg.Header, "ordinal", d.ordinal,
		"offset", r.cr.BytesCount, "payloads", len(descs))
	return d, nil
}

// skip discards n bytes from the stream.
func (r *Reader) skip(n uint64) error {
	if n == 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r.cr, int64(n))
	return err
}
