package framer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLink is an in-memory stand-in for serialport.Channel, driven by
// a scripted queue of bytes to return from reads.
type fakeLink struct {
	written   []byte
	readQueue [][]byte
	idle      [][]byte
	exactly   [][]byte
}

func (f *fakeLink) WriteByte(b byte) error {
	f.written = append(f.written, b)
	return nil
}

func (f *fakeLink) WriteBytes(data []byte) error {
	f.written = append(f.written, data...)
	return nil
}

func (f *fakeLink) ReadByte() (byte, error) {
	if len(f.readQueue) == 0 {
		return 0, errEOF
	}
	b := f.readQueue[0]
	f.readQueue = f.readQueue[1:]
	return b[0], nil
}

func (f *fakeLink) ReadExactly(n int) ([]byte, error) {
	if len(f.exactly) == 0 {
		return nil, errEOF
	}
	d := f.exactly[0]
	f.exactly = f.exactly[1:]
	return d, nil
}

func (f *fakeLink) ReadUntilIdle() ([]byte, error) {
	if len(f.idle) == 0 {
		return nil, errEOF
	}
	d := f.idle[0]
	f.idle = f.idle[1:]
	return d, nil
}

func (f *fakeLink) Reset() error { return nil }

type staticErr string

func (e staticErr) Error() string { return string(e) }

const errEOF = staticErr("fake link exhausted")

func TestPreambleThenCommandByte(t *testing.T) {
	fl := &fakeLink{readQueue: [][]byte{{0xCC}}}
	f := New(fl)
	require.NoError(t, f.SendCommand(Sync))
	assert.Equal(t, []byte{0x55, 0xAA, byte(Sync)}, fl.written)
}

func TestSendCommandWithPayloadOrdering(t *testing.T) {
	fl := &fakeLink{readQueue: [][]byte{{0xCC}}}
	f := New(fl)
	err := f.SendCommandWithPayload(WriteMem, Payload{
		HasAddress: true, Address: 0x000200,
		HasLength: true, Length: 2,
		Data: []byte{0xEA, 0xEA},
	})
	require.NoError(t, err)
	want := []byte{0x55, 0xAA, byte(WriteMem), 0x00, 0x02, 0x00, 0x02, 0x00, 0x00, 0xEA, 0xEA}
	assert.Equal(t, want, fl.written)
}

func TestFailingEchoDesyncs(t *testing.T) {
	fl := &fakeLink{readQueue: [][]byte{{0xBB}}}
	f := New(fl)
	err := f.SendCommand(Sync)
	var desync *ErrProtocolDesync
	require.ErrorAs(t, err, &desync)
	assert.Equal(t, byte(0xBB), desync.Got)
}

func TestReadBoardInfoExactLength(t *testing.T) {
	fl := &fakeLink{exactly: [][]byte{{0x4D, 0x59, 0x42, 0x36, 0x64, 0, 0, 0, 0xC8, 0, 0, 0}}}
	f := New(fl)
	data, err := f.ReadBoardInfo()
	require.NoError(t, err)
	assert.Len(t, data, 12)
}
