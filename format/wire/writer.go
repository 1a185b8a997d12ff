package wire

import (
	"bytes"
	"io"
	"sync"

	"github.com/multiformats/go-varint"
	"go.uber.org/atomic"

	"github.com/eluv-io/arrayipc-go/format/arrays"
	"github.com/eluv-io/arrayipc-go/format/buffers"
	"github.com/eluv-io/arrayipc-go/format/message"
	"github.com/eluv-io/arrayipc-go/util/byteutil"
	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
)

var log = elog.Get("/eluvio/arrayipc/wire")

// scratch buffers for envelope encoding
var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Writer emits messages and their trailing buffer payloads to a byte stream.
// The target writer must be positioned at the start of the stream (offset 0),
// since payload alignment is computed relative to it.
//
// Writer is not safe for concurrent use; Offset may be read concurrently.
type Writer struct {
	w      io.Writer
	opts   options
	codec  *message.Codec
	offset atomic.Int64
}

// NewWriter creates a stream writer on top of w.
func NewWriter(w io.Writer, opt ...Option) *Writer {
	opts := defaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	return &Writer{
		w:     w,
		opts:  opts,
		codec: message.NewCodec(opts.codec),
	}
}

// Offset returns the number of bytes written to the stream so far.
func (w *Writer) Offset() int64 {
	return w.offset.Load()
}

// WriteArrayData writes one ArrayData-headed message followed by the given
// buffer payloads. The payloads must be in the order referenced by the tree's
// buffer indices. If env.Buffers is empty it is filled with descriptors
// computed from the payloads; otherwise it must match them. The envelope is
// validated before anything is written.
func (w *Writer) WriteArrayData(env *arrays.Envelope, payloads [][]byte) (int64, error) {
	e := errors.Template("write array data", errors.K.Invalid)
	if env == nil {
		return 0, e("reason", "nil envelope")
	}
	out := *env
	if len(out.Buffers) == 0 && len(payloads) > 0 {
		out.Buffers = buffers.Describe(payloads, w.opts.alignment)
	}
	if err := out.Validate(w.opts.maxDepth); err != nil {
		return 0, e(err)
	}
	return w.WriteMessage(message.NewArrayData(&out), payloads)
}

// WriteBuffer writes one Buffer-headed message carrying a single standalone
// payload with no array tree.
func (w *Writer) WriteBuffer(payload []byte) (int64, error) {
	desc := buffers.Descriptor{
		Length:  uint64(len(payload)),
		Padding: buffers.PaddingFor(uint64(len(payload)), w.opts.alignment),
	}
	return w.WriteMessage(message.NewBuffer(desc), [][]byte{payload})
}

// WriteCompressedBuffer writes one Buffer-headed message whose payload was
// compressed with the given scheme. The scheme identifier is opaque to the
// codec and carried unchanged.
func (w *Writer) WriteCompressedBuffer(payload []byte, compression uint8) (int64, error) {
	m := message.NewBuffer(buffers.Descriptor{
		Length:  uint64(len(payload)),
		Padding: buffers.PaddingFor(uint64(len(payload)), w.opts.alignment),
	})
	m.Buffer.Compression = compression
	return w.WriteMessage(m, [][]byte{payload})
}

// WriteDType writes one DType-headed message carrying the given opaque type
// descriptor bytes. No payload follows.
func (w *Writer) WriteDType(dtype []byte) (int64, error) {
	return w.WriteMessage(message.NewDType(dtype), nil)
}

// WriteMessage writes the given message and its trailing payloads. The
// payloads must match the message's payload descriptors one-to-one.
func (w *Writer) WriteMessage(m *message.Message, payloads [][]byte) (int64, error) {
	e := errors.Template("write message", errors.K.Invalid, "header", m.Header)

	descs := m.PayloadDescriptors()
	if len(descs) != len(payloads) {
		return 0, e("reason", "payload count does not match descriptors",
			"descriptors", len(descs),
			"payloads", len(payloads))
	}
	for i, d := range descs {
		if d.Length != uint64(len(payloads[i])) {
			return 0, e("reason", "payload length does not match descriptor",
				"index", i,
				"descriptor_length", d.Length,
				"payload_length", len(payloads[i]))
		}
	}

	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)
	if err := w.codec.Encode(buf, m); err != nil {
		return 0, e(err)
	}
	if uint64(buf.Len()) > w.opts.maxEnvelopeSize {
		return 0, e("reason", "envelope exceeds size limit",
			"size", buf.Len(),
			"limit", w.opts.maxEnvelopeSize)
	}

	var written int64
	count := func(n int, err error) error {
		written += int64(n)
		return err
	}

	// align the start of the message
	start := uint64(w.offset.Load())
	if err := count(w.pad(buffers.AlignUp(start, w.opts.alignment) - start)); err != nil {
		return written, errors.E("write message", errors.K.IO, err)
	}

	eio := errors.Template("write message", errors.K.IO, "header", m.Header)
	if err := count(w.w.Write(varint.ToUvarint(uint64(buf.Len())))); err != nil {
		return written, eio(err)
	}
	if err := count(w.w.Write(buf.Bytes())); err != nil {
		return written, eio(err)
	}

	if buffers.TotalStride(descs) > 0 {
		// align the start of the payload region
		off := start + uint64(written)
		if err := count(w.pad(buffers.AlignUp(off, w.opts.alignment) - off)); err != nil {
			return written, eio(err)
		}
		for i, p := range payloads {
			if err := count(w.w.Write(p)); err != nil {
				return written, eio(err, "payload", i)
			}
			if err := count(w.pad(uint64(descs[i].Padding))); err != nil {
				return written, eio(err, "payload", i)
			}
		}
	}

	w.offset.Add(written)
	log.Debug("message written", "header", m.Header, "offset", start,
		"size", written, "payloads", len(payloads))
	return written, nil
}

// pad writes n filler bytes.
func (w *Writer) pad(n uint64) (int, error) {
	written := 0
	for n > 0 {
		chunk := n
		if chunk > uint64(len(byteutil.Zeroes)) {
			chunk = uint64(len(byteutil.Zeroes))
		}
		c, err := w.w.Write(byteutil.Zeroes[:chunk])
		written += c
		if err != nil {
			return written, err
		}
		n -= chunk
	}
	return written, nil
}
