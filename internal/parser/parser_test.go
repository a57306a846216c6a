package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntelHexScenario(t *testing.T) {
	input := ":10010000214601360121470136007EFE09D2190140\n:00000001FF\n"
	prog, err := ParseIntelHex([]byte(input))
	require.NoError(t, err)
	require.Len(t, prog.Blocks, 1)

	b := prog.Blocks[0]
	assert.Equal(t, uint32(0x0100), b.Address)
	assert.Equal(t, 0x10, b.Length())
	assert.Equal(t,
		[]byte{0x21, 0x46, 0x01, 0x36, 0x01, 0x21, 0x47, 0x01, 0x36, 0x00, 0x7E, 0xFE, 0x09, 0xD2, 0x19, 0x01},
		b.Data)
	assert.True(t, prog.HasEntry)
	assert.Equal(t, uint32(0x0100), prog.Entry)
}

func TestParseIntelHexChecksumMismatch(t *testing.T) {
	input := ":10010000214601360121470136007EFE09D21901FF\n:00000001FF\n"
	_, err := ParseIntelHex([]byte(input))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestParseZRecord(t *testing.T) {
	var data []byte
	data = append(data, 0x5A)
	data = append(data, 0x00, 0x00, 0x20) // entry = 0x200000
	data = append(data, 0x00, 0x02, 0x00) // addr = 0x000200
	data = append(data, 0x02, 0x00, 0x00) // length = 2
	data = append(data, 0xEA, 0xEA)
	data = append(data, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00) // terminator

	prog, err := ParseZRecord(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x200000), prog.Entry)
	require.Len(t, prog.Blocks, 1)
	assert.Equal(t, uint32(0x000200), prog.Blocks[0].Address)
	assert.Equal(t, []byte{0xEA, 0xEA}, prog.Blocks[0].Data)
}

func TestParseZRecordNeverCoalesces(t *testing.T) {
	var data []byte
	data = append(data, 0x5A)
	data = append(data, 0x00, 0x00, 0x00)
	data = append(data, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0xAA, 0xBB) // addr=0, len=2
	data = append(data, 0x02, 0x00, 0x00, 0x01, 0x00, 0x00, 0xCC)       // addr=2, len=1, adjacent
	data = append(data, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)

	prog, err := ParseZRecord(data)
	require.NoError(t, err)
	assert.Len(t, prog.Blocks, 2)
}

func TestParseRawBlockSplit(t *testing.T) {
	data := make([]byte, 2000)
	for i := range data {
		data[i] = byte(i)
	}
	prog, err := ParseRaw(data, Options{HasAddress: true, Address: 0x1000})
	require.NoError(t, err)
	require.Len(t, prog.Blocks, 2)
	assert.Equal(t, 1023, prog.Blocks[0].Length())
	assert.Equal(t, uint32(0x1000+1023), prog.Blocks[1].Address)
	assert.Equal(t, uint32(0x1000), prog.Entry)
}

func TestParseDispatch(t *testing.T) {
	_, err := Parse("fw.out", []byte{0x01, 0x02}, Options{})
	require.NoError(t, err)

	zdata := append([]byte{0x5A, 0, 0, 0, 0, 0, 0}, 0, 0, 0, 0, 0, 0)
	_, err = Parse("fw.z", zdata, Options{})
	require.NoError(t, err)

	_, err = Parse("fw.unknown", []byte{0xFF}, Options{})
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}
