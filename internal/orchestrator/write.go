package orchestrator

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ecnxdev/wdcflash/internal/framer"
	"github.com/ecnxdev/wdcflash/internal/image"
)

const (
	flashWindowBase = 0x8000
	flashWindowSize = 32768
)

// LoadImage attaches the parsed program image and the original file
// bytes to the orchestrator. The parsed image (coalesced only for
// Intel HEX input) drives RAM writes; flash and update modes re-walk
// the raw Z-record bytes themselves.
func (o *Orchestrator) LoadImage(prog *image.Program, raw []byte) {
	o.image = prog
	o.rawFile = raw
}

// runWrite writes the loaded image to RAM (default) or flash
// (--flash).
func (o *Orchestrator) runWrite() error {
	if o.image == nil {
		return ErrMissingFile
	}
	if o.cfg.Flash {
		return o.writeFlash()
	}
	return o.writeRAM()
}

func (o *Orchestrator) writeRAM() error {
	for _, block := range o.image.Blocks {
		err := o.f.SendCommandWithPayload(framer.WriteMem, framer.Payload{
			HasAddress: true, Address: block.Address,
			HasLength: true, Length: uint32(block.Length()),
			Data: block.Data,
		})
		if err != nil {
			return errors.Wrap(err, "write mem: send")
		}
		status, err := o.f.ReadStatus()
		if err != nil {
			return errors.Wrap(err, "write mem: status")
		}
		if status != 0x00 {
			return &WriteFailed{Status: status}
		}
		o.log.Debugf("wrote block at 0x%06X (%d bytes)", block.Address, block.Length())
	}
	if o.cfg.Execute {
		err := o.f.SendCommandWithPayload(framer.ExecuteMem, framer.Payload{
			HasAddress: true, Address: o.image.Entry,
		})
		if err != nil {
			return errors.Wrap(err, "execute mem: send")
		}
		o.log.Infof("executing at 0x%06X", o.image.Entry)
	}
	o.log.Infof("write complete")
	return nil
}

// buildFlashShadow iterates the raw Z-record stream directly,
// stopping at the first record whose address is below the flash
// window, and truncates the shadow at the end of the *last* record
// copied (its offset plus its length), not at the highest address
// written. This mirrors the original tool's accounting and silently
// mis-truncates out-of-order Z-records; that quirk is preserved
// rather than fixed.
func buildFlashShadow(raw []byte) ([]byte, error) {
	if len(raw) < 1 || raw[0] != 0x5A {
		return nil, errors.New("flash write: not a Z-record file")
	}
	data := raw[1:]
	if len(data) < 3 {
		return nil, errors.New("flash write: truncated z-record header")
	}
	data = data[3:] // discard execute address, unused by the flash path

	shadow := make([]byte, flashWindowSize)
	highest := -1
	lastLength := 0
	first := true
	for {
		if len(data) < 6 {
			return nil, errors.New("flash write: truncated z-record")
		}
		addr := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
		length := uint32(data[3]) | uint32(data[4])<<8 | uint32(data[5])<<16
		data = data[6:]
		if length == 0 {
			break
		}
		if uint32(len(data)) < length {
			return nil, errors.New("flash write: truncated z-record data")
		}
		if first {
			if addr != flashWindowBase {
				return nil, errors.Errorf("flash write: first record must start at 0x%06X, got 0x%06X", flashWindowBase, addr)
			}
			first = false
		}
		if addr < flashWindowBase {
			break
		}
		off := int(addr - flashWindowBase)
		if off < 0 || off >= flashWindowSize {
			return nil, errors.Errorf("flash write: record address 0x%06X outside flash window", addr)
		}
		copy(shadow[off:], data[:length])
		highest = off
		lastLength = int(length)
		data = data[length:]
	}
	if highest < 0 {
		return nil, errors.New("flash write: no records in flash window")
	}
	end := highest + lastLength
	if end > flashWindowSize {
		end = flashWindowSize
	}
	return shadow[:end], nil
}

func (o *Orchestrator) writeFlash() error {
	shadow, err := buildFlashShadow(o.rawFile)
	if err != nil {
		return err
	}

	status, err := o.sendStatusOnly(framer.ClearFlash)
	if err != nil {
		return errors.Wrap(err, "flash write: clear")
	}
	if status != 0x00 {
		return &WriteFailed{Status: status}
	}

	err = o.f.SendCommandWithPayload(framer.WriteFlash, framer.Payload{
		HasAddress: true, Address: flashWindowBase,
		HasLength: true, Length: uint32(len(shadow)),
		Data: shadow,
	})
	if err != nil {
		return errors.Wrap(err, "flash write: send")
	}
	time.Sleep(2 * time.Second)
	status, err = o.f.ReadStatus()
	if err != nil {
		return errors.Wrap(err, "flash write: status")
	}
	if status != 0x00 {
		return &WriteFailed{Status: status}
	}
	o.log.Infof("flash write complete (%d bytes)", len(shadow))

	if o.cfg.Execute {
		if err := o.f.SendCommand(framer.ExecuteFlash); err != nil {
			return errors.Wrap(err, "execute flash: send")
		}
		o.log.Infof("execute flash sent")
	}
	return nil
}
