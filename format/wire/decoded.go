package wire

import (
	"github.com/eluv-io/arrayipc-go/format/arrays"
	"github.com/eluv-io/arrayipc-go/format/buffers"
	"github.com/eluv-io/arrayipc-go/format/message"
	"github.com/eluv-io/errors-go"
)

// Decoded is one fully decoded message of a stream: the message envelope plus
// zero-copy views of its trailing buffer payloads.
//
// The views borrow from the message's backing buffer region; they stay valid
// as long as that region is alive and are never modified after decode, so a
// Decoded may be shared freely between concurrent readers. Callers that must
// outlive the region take owned copies via View.Clone or Node.Clone.
type Decoded struct {
	msg     *message.Message
	arena   *buffers.Arena
	ordinal int
}

// Ordinal returns the zero-based position of the message in its stream.
func (d *Decoded) Ordinal() int {
	return d.ordinal
}

// Header returns the message's header discriminant.
func (d *Decoded) Header() message.HeaderType {
	return d.msg.Header
}

// Message returns the decoded message envelope.
func (d *Decoded) Message() *message.Message {
	return d.msg
}

// ArrayData returns the decoded array envelope of an ArrayData-headed
// message, or nil for other messages.
func (d *Decoded) ArrayData() *arrays.Envelope {
	return d.msg.ArrayData
}

// DType returns the opaque type descriptor bytes of a DType-headed message,
// or nil for other messages.
func (d *Decoded) DType() []byte {
	return d.msg.DType
}

// Views returns the zero-copy payload views in descriptor order.
func (d *Decoded) Views() []buffers.View {
	if d.arena == nil {
		return nil
	}
	return d.arena.Views()
}

// View returns the zero-copy view of payload i.
func (d *Decoded) View(i int) (buffers.View, error) {
	if d.arena == nil {
		return buffers.View{}, errors.E("message view", errors.K.Invalid,
			"reason", "message has no payloads",
			"header", d.msg.Header)
	}
	return d.arena.View(i)
}

// BufferView returns the single payload view of a Buffer-headed message.
func (d *Decoded) BufferView() (buffers.View, error) {
	if d.msg.Header != message.HeaderBuffer {
		return buffers.View{}, errors.E("buffer view", errors.K.Invalid,
			"reason", "not a buffer message",
			"header", d.msg.Header)
	}
	return d.arena.View(0)
}
