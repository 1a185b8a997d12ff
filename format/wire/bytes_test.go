package wire_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/arrayipc-go/format/message"
	"github.com/eluv-io/arrayipc-go/format/wire"
	"github.com/eluv-io/arrayipc-go/util/byteutil"
)

func TestReadMessageSequence(t *testing.T) {
	dtype := byteutil.RandomBytes(5)
	payload := byteutil.RandomBytes(40)
	arrayPayloads := testPayloads()

	stream := new(bytes.Buffer)
	w := wire.NewWriter(stream)
	_, err := w.WriteDType(dtype)
	require.NoError(t, err)
	_, err = w.WriteBuffer(payload)
	require.NoError(t, err)
	_, err = w.WriteArrayData(testEnvelope(), arrayPayloads)
	require.NoError(t, err)

	b := stream.Bytes()

	d, rest, err := wire.ReadMessage(b)
	require.NoError(t, err)
	require.Equal(t, message.HeaderDType, d.Header())
	require.Equal(t, dtype, d.DType())

	d, rest, err = wire.ReadMessage(rest)
	require.NoError(t, err)
	require.Equal(t, message.HeaderBuffer, d.Header())
	v, err := d.BufferView()
	require.NoError(t, err)
	require.Equal(t, payload, v.Bytes())

	d, rest, err = wire.ReadMessage(rest)
	require.NoError(t, err)
	require.Equal(t, message.HeaderArrayData, d.Header())
	views := d.Views()
	require.Len(t, views, 2)
	require.Equal(t, arrayPayloads[0], views[0].Bytes())
	require.Equal(t, arrayPayloads[1], views[1].Bytes())

	d, rest, err = wire.ReadMessage(rest)
	require.NoError(t, err)
	require.Nil(t, d)
	require.Nil(t, rest)
}

// the views returned by ReadMessage alias the input slice directly
func TestReadMessageZeroCopy(t *testing.T) {
	payload := byteutil.RandomBytes(16)
	stream := new(bytes.Buffer)
	_, err := wire.NewWriter(stream).WriteBuffer(payload)
	require.NoError(t, err)
	b := stream.Bytes()

	d, _, err := wire.ReadMessage(b)
	require.NoError(t, err)
	v, err := d.BufferView()
	require.NoError(t, err)
	require.Equal(t, payload, v.Bytes())

	// mutating the stream bytes shows through the view
	idx := bytes.Index(b, payload)
	require.True(t, idx >= 0)
	b[idx] ^= 0xff
	require.NotEqual(t, payload, v.Bytes())
	require.Equal(t, b[idx], v.Bytes()[0])

	// a clone taken before the mutation would not have
	b[idx] ^= 0xff
	c := v.Clone()
	b[idx] ^= 0xff
	require.Equal(t, payload, c)
}

func TestReadMessageEdges(t *testing.T) {
	// empty slice: end of stream
	d, rest, err := wire.ReadMessage(nil)
	require.NoError(t, err)
	require.Nil(t, d)
	require.Nil(t, rest)

	// all-zero slice: trailing filler only
	d, rest, err = wire.ReadMessage(make([]byte, 7))
	require.NoError(t, err)
	require.Nil(t, d)
	require.Nil(t, rest)

	// a slice cut inside a message is truncated
	stream := new(bytes.Buffer)
	_, err = wire.NewWriter(stream).WriteArrayData(testEnvelope(), testPayloads())
	require.NoError(t, err)
	b := stream.Bytes()
	for cut := 1; cut < len(b); cut += 7 {
		_, _, err := wire.ReadMessage(b[:cut])
		require.Error(t, err, "cut at %d", cut)
		require.True(t, errors.Is(err, wire.ErrTruncatedStream),
			"cut at %d: %v", cut, err)
	}

	// oversized length prefix
	_, _, err = wire.ReadMessage([]byte{0x20, 0x01, 0x02},
		wire.WithMaxEnvelopeSize(16))
	require.Error(t, err)
	require.True(t, errors.Is(err, wire.ErrMalformedEnvelope), "got %v", err)
}
