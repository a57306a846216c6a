package orchestrator

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ecnxdev/wdcflash/internal/boardinfo"
	"github.com/ecnxdev/wdcflash/internal/framer"
)

const (
	updateShadowSize  = 65536
	updatePayloadBase = 0xF000
	updatePayloadLen  = 4096
)

// vectorPair is a (low, high) address pair of a 16-bit interrupt
// vector within the update shadow buffer.
type vectorPair struct{ lo, hi uint16 }

var w65c02Vectors = []vectorPair{
	{0xFFFA, 0xFFFB}, {0xFFFC, 0xFFFD}, {0xFFFE, 0xFFFF},
}

var w65c816ExtraVectors = []vectorPair{
	{0xFFF4, 0xFFF5}, {0xFFF6, 0xFFF7}, {0xFFF8, 0xFFF9},
}

// buildUpdateShadow parses the raw Z-record stream into a 64KiB
// shadow buffer spanning the full 0x0000-0xFFFF address space.
func buildUpdateShadow(raw []byte) ([]byte, error) {
	if len(raw) < 1 || raw[0] != 0x5A {
		return nil, errors.New("update: not a Z-record file")
	}
	data := raw[1:]
	if len(data) < 3 {
		return nil, errors.New("update: truncated z-record header")
	}
	data = data[3:]

	shadow := make([]byte, updateShadowSize)
	for {
		if len(data) < 6 {
			return nil, errors.New("update: truncated z-record")
		}
		addr := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
		length := uint32(data[3]) | uint32(data[4])<<8 | uint32(data[5])<<16
		data = data[6:]
		if length == 0 {
			break
		}
		if uint32(len(data)) < length {
			return nil, errors.New("update: truncated z-record data")
		}
		if addr >= updateShadowSize || addr+length > updateShadowSize {
			return nil, errors.New("update: record exceeds 64KiB shadow")
		}
		copy(shadow[addr:], data[:length])
		data = data[length:]
	}
	return shadow, nil
}

// validateUpdateImage enforces the pre-transmission checks: the
// CPU-dependent interrupt vectors must be nonzero, and nothing
// outside 0xF000..0xFFFF may be populated.
func validateUpdateImage(shadow []byte, cpu boardinfo.CPU) error {
	var vectors []vectorPair
	switch cpu {
	case boardinfo.CPUW65C02:
		vectors = w65c02Vectors
	case boardinfo.CPUW65C816:
		vectors = append(append([]vectorPair{}, w65c02Vectors...), w65c816ExtraVectors...)
	default:
		return ErrUnknownBoard
	}
	for _, v := range vectors {
		if shadow[v.lo] == 0 && shadow[v.hi] == 0 {
			return &InvalidUpdateImage{Reason: "interrupt vector is zero"}
		}
	}
	for i := 0; i <= 0xEFFF; i++ {
		if shadow[i] != 0 {
			return &InvalidUpdateImage{Reason: "data present below 0xF000"}
		}
	}
	return nil
}

// runUpdate carries out the firmware self-replacement handshake.
func (o *Orchestrator) runUpdate() error {
	if o.image == nil {
		return ErrMissingFile
	}

	shadow, err := buildUpdateShadow(o.rawFile)
	if err != nil {
		return err
	}
	if err := validateUpdateImage(shadow, o.Info.CPU); err != nil {
		return err
	}
	payload := shadow[updatePayloadBase : updatePayloadBase+updatePayloadLen]
	if 0xFFFF-len(payload)+1 != updatePayloadBase {
		return &InvalidUpdateImage{Reason: "payload length mismatch"}
	}

	status, err := o.sendStatusOnly(framer.Update)
	if err != nil {
		return errors.Wrap(err, "update: send")
	}
	if status != 0x00 {
		return &CannotUpdate{Status: status}
	}

	if err := o.f.WriteRaw([]byte{0x55, 0xAA, 0xCC}); err != nil {
		return errors.Wrap(err, "update: resync bytes")
	}
	if err := o.f.WriteRaw([]byte{0x00, 0xF0, 0x00}); err != nil {
		return errors.Wrap(err, "update: payload address")
	}
	if err := o.f.WriteRaw([]byte{0x00, 0x10, 0x00}); err != nil {
		return errors.Wrap(err, "update: payload length")
	}
	status, err = o.f.ReadStatus()
	if err != nil {
		return errors.Wrap(err, "update: phase 1 status")
	}
	if status != 0x01 {
		return &CannotUpdate{Status: status}
	}

	if err := o.f.WriteRaw(payload); err != nil {
		return errors.Wrap(err, "update: payload bytes")
	}
	status, err = o.f.ReadStatus()
	if err != nil {
		return errors.Wrap(err, "update: phase 2 status")
	}
	if status != 0x02 {
		return &CannotUpdate{Status: status}
	}

	o.log.Infof("Continue Y/n")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(answer) != "Y" {
		if err := o.f.WriteRaw([]byte{0x00, 0x00, 0x00}); err != nil {
			return errors.Wrap(err, "update: cancel bytes")
		}
		if _, err := o.f.ReadStatus(); err != nil {
			return errors.Wrap(err, "update: cancel status")
		}
		o.log.Infof("update cancelled")
		return ErrUserAborted
	}

	if err := o.f.WriteRaw([]byte{0x55, 0xAA, 0xCC}); err != nil {
		return errors.Wrap(err, "update: final resync")
	}
	time.Sleep(2 * time.Second)
	status, err = o.f.ReadStatus()
	if err != nil {
		return errors.Wrap(err, "update: final status")
	}
	if status != 0x03 {
		return &BadFlash{Status: status}
	}
	o.log.Infof("Flash was Updated Successfully")
	return nil
}
