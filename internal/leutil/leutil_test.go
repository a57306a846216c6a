package leutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripLE(t *testing.T) {
	widths := []int{1, 2, 3, 4}
	for _, w := range widths {
		max := uint64(1) << (8 * uint(w))
		step := max / 257
		if step == 0 {
			step = 1
		}
		for n := uint64(0); n < max; n += step {
			bytes := UintToLEBytes(uint32(n), w)
			require.Len(t, bytes, w)
			got := LEBytesToUint(bytes)
			assert.Equal(t, n, uint64(got), "width %d, value %d", w, n)
		}
	}
}

func TestParseHexAddress(t *testing.T) {
	tuple, err := ParseHexAddress("00ABCD")
	require.NoError(t, err)
	assert.Equal(t, [3]byte{0xCD, 0xAB, 0x00}, tuple)

	_, err = ParseHexAddress("010000")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	for _, c := range []string{"", "ABCD", "ABCDEFG", "GGGGGG"} {
		_, err := ParseHexAddress(c)
		assert.Errorf(t, err, "input %q should fail", c)
	}
}

func TestUintToBEBytes(t *testing.T) {
	got := UintToBEBytes(0x00ABCD, 3)
	assert.Equal(t, []byte{0x00, 0xAB, 0xCD}, got)
}
