package wire_test

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/arrayipc-go/format/message"
	"github.com/eluv-io/arrayipc-go/format/wire"
	"github.com/eluv-io/arrayipc-go/util/byteutil"
	"github.com/eluv-io/errors-go"
)

func TestFileRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	payloads := testPayloads()

	fw, err := wire.Create(fs, "/arrays/stream.bin")
	require.NoError(t, err)
	_, err = fw.WriteDType([]byte{0x01, 0x02})
	require.NoError(t, err)
	_, err = fw.WriteArrayData(testEnvelope(), payloads)
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	f, err := wire.Open(fs, "/arrays/stream.bin")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	d, err := f.Next()
	require.NoError(t, err)
	require.Equal(t, message.HeaderDType, d.Header())
	require.Equal(t, []byte{0x01, 0x02}, d.DType())

	d, err = f.Next()
	require.NoError(t, err)
	require.Equal(t, message.HeaderArrayData, d.Header())
	views := d.Views()
	require.Len(t, views, 2)
	require.Equal(t, payloads[0], views[0].Bytes())
	require.Equal(t, payloads[1], views[1].Bytes())

	_, err = f.Next()
	require.Equal(t, io.EOF, err)
}

func TestOpenMissing(t *testing.T) {
	_, err := wire.Open(afero.NewMemMapFs(), "/no/such/stream")
	require.Error(t, err)
	require.True(t, errors.IsNotExist(err), "got %v", err)
}

func TestCreateTruncates(t *testing.T) {
	fs := afero.NewMemMapFs()

	fw, err := wire.Create(fs, "/stream.bin")
	require.NoError(t, err)
	_, err = fw.WriteBuffer(byteutil.RandomBytes(100))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	// recreating replaces the previous stream entirely
	fw, err = wire.Create(fs, "/stream.bin")
	require.NoError(t, err)
	payload := byteutil.RandomBytes(4)
	_, err = fw.WriteBuffer(payload)
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	f, err := wire.Open(fs, "/stream.bin")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	d, err := f.Next()
	require.NoError(t, err)
	v, err := d.BufferView()
	require.NoError(t, err)
	require.Equal(t, payload, v.Bytes())

	_, err = f.Next()
	require.Equal(t, io.EOF, err)
}
