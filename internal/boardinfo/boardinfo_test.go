package boardinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMymenschB816(t *testing.T) {
	data := []byte{0x4D, 0x59, 0x42, 0x36, 0x64, 0x00, 0x00, 0x00, 0xC8, 0x00, 0x00, 0x00}
	info, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FamilyMymensch, info.Family)
	assert.Equal(t, VariantB, info.Variant)
	assert.Equal(t, CPUW65C816, info.CPU)
	assert.Equal(t, 1.00, info.HWVersion)
	assert.Equal(t, 2.00, info.SWVersion)
}

func TestDecodeWrongLength(t *testing.T) {
	_, err := Decode(make([]byte, 11))
	assert.ErrorIs(t, err, ErrWrongLength)
}

func TestDecodeUnknownFamilyAndCPU(t *testing.T) {
	data := make([]byte, 12)
	info, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FamilyUnknown, info.Family)
	assert.Equal(t, CPUUnknown, info.CPU)
}
