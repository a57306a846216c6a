package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecnxdev/wdcflash/internal/boardinfo"
)

func TestValidateUpdateImageRejectsZeroVector(t *testing.T) {
	shadow := make([]byte, updateShadowSize)
	err := validateUpdateImage(shadow, boardinfo.CPUW65C02)
	var invalid *InvalidUpdateImage
	assert.ErrorAs(t, err, &invalid)
}

func TestValidateUpdateImageRejectsLowMemoryData(t *testing.T) {
	shadow := make([]byte, updateShadowSize)
	shadow[0xFFFA] = 0x01
	shadow[0xFFFC] = 0x01
	shadow[0xFFFE] = 0x01
	shadow[0x0010] = 0x01 // stray data below 0xF000
	err := validateUpdateImage(shadow, boardinfo.CPUW65C02)
	var invalid *InvalidUpdateImage
	assert.ErrorAs(t, err, &invalid)
}

func TestValidateUpdateImageAcceptsValidW65C02(t *testing.T) {
	shadow := make([]byte, updateShadowSize)
	shadow[0xFFFA] = 0x01
	shadow[0xFFFC] = 0x01
	shadow[0xFFFE] = 0x01
	assert.NoError(t, validateUpdateImage(shadow, boardinfo.CPUW65C02))
}

func TestValidateUpdateImageRequiresExtraVectorsForW65C816(t *testing.T) {
	shadow := make([]byte, updateShadowSize)
	shadow[0xFFFA] = 0x01
	shadow[0xFFFC] = 0x01
	shadow[0xFFFE] = 0x01
	// missing FFF4/FFF6/FFF8 vectors
	err := validateUpdateImage(shadow, boardinfo.CPUW65C816)
	var invalid *InvalidUpdateImage
	assert.ErrorAs(t, err, &invalid)
}

func TestValidateUpdateImageUnknownCPU(t *testing.T) {
	shadow := make([]byte, updateShadowSize)
	err := validateUpdateImage(shadow, boardinfo.CPUUnknown)
	assert.ErrorIs(t, err, ErrUnknownBoard)
}

func TestBuildUpdateShadowPlacesData(t *testing.T) {
	var raw []byte
	raw = append(raw, 0x5A, 0, 0, 0)    // leading tag + entry
	raw = append(raw, 0x00, 0xF0, 0x00) // addr = 0xF000
	raw = append(raw, 0x02, 0x00, 0x00) // length = 2
	raw = append(raw, 0xAA, 0xBB)
	raw = append(raw, 0, 0, 0, 0, 0, 0) // terminator

	shadow, err := buildUpdateShadow(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), shadow[0xF000])
	assert.Equal(t, byte(0xBB), shadow[0xF001])
}
