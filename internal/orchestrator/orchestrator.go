// Package orchestrator implements the mode dispatch that drives the
// bootloader wire protocol end to end: opening the port, the
// reset/sync preamble, BOARD_INFO identification, and the
// mode-specific command sequences (raw, sync, clear, check, execute,
// read, write, update).
package orchestrator

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ecnxdev/wdcflash/internal/boardinfo"
	"github.com/ecnxdev/wdcflash/internal/framer"
	"github.com/ecnxdev/wdcflash/internal/image"
	"github.com/ecnxdev/wdcflash/internal/serialport"
	"github.com/ecnxdev/wdcflash/internal/session"
)

// Orchestrator binds an open command framer to the session
// configuration and logger for the duration of one mode's execution.
type Orchestrator struct {
	cfg     *session.Config
	log     *session.Logger
	ch      *serialport.Channel
	f       *framer.Framer
	Info    boardinfo.Info
	image   *image.Program
	rawFile []byte
}

// Open opens the serial channel, pulses reset unless --no-reset was
// given, and reads BOARD_INFO. The caller must call Close.
func Open(cfg *session.Config, log *session.Logger) (*Orchestrator, error) {
	ch, err := serialport.Open(cfg.Device, cfg.Baudrate)
	if err != nil {
		return nil, errors.Wrap(err, "open serial device")
	}
	o := &Orchestrator{cfg: cfg, log: log, ch: ch, f: framer.New(ch)}

	if !cfg.NoReset {
		log.Debugf("pulsing DTR reset")
		if err := ch.Reset(); err != nil {
			ch.Close()
			return nil, errors.Wrap(err, "reset pulse")
		}
	}

	if err := o.f.SendCommand(framer.BoardInfo); err != nil {
		ch.Close()
		return nil, errors.Wrap(err, "send BOARD_INFO")
	}
	raw, err := o.f.ReadBoardInfo()
	if err != nil {
		ch.Close()
		return nil, errors.Wrap(err, "read BOARD_INFO")
	}
	info, err := boardinfo.Decode(raw)
	if err != nil {
		log.Infof("warning: unable to decode board info: %v", err)
	} else {
		o.Info = info
		if info.Family == boardinfo.FamilyUnknown || info.CPU == boardinfo.CPUUnknown {
			log.Infof("warning: board reported unrecognised family/cpu: %s", info)
		} else {
			log.Infof("board: %s", info)
		}
	}
	return o, nil
}

// Close releases the serial port.
func (o *Orchestrator) Close() error {
	return o.ch.Close()
}

// Run dispatches to the mode named in the session configuration.
func (o *Orchestrator) Run() error {
	switch o.cfg.Mode {
	case session.ModeRaw:
		return o.runRaw()
	case session.ModeSync:
		return o.runSync()
	case session.ModeClear:
		return o.runClear()
	case session.ModeCheck:
		return o.runCheck()
	case session.ModeExecute:
		return o.runExecute()
	case session.ModeRead:
		return o.runRead()
	case session.ModeWrite:
		return o.runWrite()
	case session.ModeUpdate:
		return o.runUpdate()
	default:
		return fmt.Errorf("unrecognised mode %q", o.cfg.Mode)
	}
}

// runRaw splits --hex-string on whitespace, writes each byte, waits
// 1s, and prints the accumulated response as uppercase hex.
func (o *Orchestrator) runRaw() error {
	tokens := strings.Fields(o.cfg.HexString)
	for _, tok := range tokens {
		var b int
		if _, err := fmt.Sscanf(tok, "%x", &b); err != nil {
			return errors.Wrapf(err, "raw mode: invalid byte %q", tok)
		}
		o.log.Tracef("W|%02X", byte(b))
		if err := o.f.WriteRaw([]byte{byte(b)}); err != nil {
			return errors.Wrap(err, "raw mode: write")
		}
	}
	time.Sleep(1 * time.Second)
	resp, err := o.f.ReadUntilIdle()
	if err != nil {
		return errors.Wrap(err, "raw mode: read response")
	}
	o.log.Infof("%X", resp)
	return nil
}

// runSync prompts, sleeps the configured delay, sends SYNC, and
// reports success iff the status byte is 0x00.
func (o *Orchestrator) runSync() error {
	delay := o.cfg.SyncDelay
	if delay <= 0 {
		delay = 4
	}
	o.log.Infof("syncing in %ds, reset the board now if needed", delay)
	time.Sleep(time.Duration(delay) * time.Second)
	if err := o.f.SendCommand(framer.Sync); err != nil {
		return errors.Wrap(err, "sync: send")
	}
	status, err := o.f.ReadStatus()
	if err != nil {
		return errors.Wrap(err, "sync: read status")
	}
	if status != 0x00 {
		return &ReadFailed{Reason: fmt.Sprintf("sync failed, status 0x%02X", status)}
	}
	o.log.Infof("sync ok")
	return nil
}

func (o *Orchestrator) sendStatusOnly(cmd framer.Command) (byte, error) {
	if err := o.f.SendCommand(cmd); err != nil {
		return 0, err
	}
	return o.f.ReadStatus()
}

// runClear sends CLEAR_FLASH.
func (o *Orchestrator) runClear() error {
	status, err := o.sendStatusOnly(framer.ClearFlash)
	if err != nil {
		return errors.Wrap(err, "clear")
	}
	if status != 0x00 {
		return &WriteFailed{Status: status}
	}
	o.log.Infof("flash cleared")
	return nil
}

// runCheck sends CHECK_FLASH.
func (o *Orchestrator) runCheck() error {
	status, err := o.sendStatusOnly(framer.CheckFlash)
	if err != nil {
		return errors.Wrap(err, "check")
	}
	if status != 0x00 {
		return &WriteFailed{Status: status}
	}
	o.log.Infof("flash check ok")
	return nil
}

// runExecute sends EXECUTE_FLASH when --flash was given (which takes
// precedence over --address, per the original tool's check order),
// otherwise EXECUTE_MEM at --address.
func (o *Orchestrator) runExecute() error {
	if o.cfg.Flash {
		if o.cfg.HasAddress {
			o.log.Infof("warning: --address ignored, --flash takes precedence in execute mode")
		}
		if err := o.f.SendCommand(framer.ExecuteFlash); err != nil {
			return errors.Wrap(err, "execute flash: send")
		}
		o.log.Infof("execute flash sent")
		return nil
	}
	if !o.cfg.HasAddress {
		return ErrMissingAddress
	}
	err := o.f.SendCommandWithPayload(framer.ExecuteMem, framer.Payload{
		HasAddress: true, Address: o.cfg.Address,
	})
	if err != nil {
		return errors.Wrap(err, "execute mem: send")
	}
	o.log.Infof("execute mem sent at 0x%06X", o.cfg.Address)
	return nil
}

// runRead requires --address (RAM) or starts at 0 (flash), and
// --length, sends the READ command, and hex-dumps the response.
func (o *Orchestrator) runRead() error {
	if !o.cfg.HasLength {
		return ErrMissingLength
	}
	if o.cfg.Length < 1 {
		return ErrInvalidLength
	}
	addr := uint32(0)
	cmd := framer.ReadFlash
	if !o.cfg.Flash {
		if !o.cfg.HasAddress {
			return ErrMissingAddress
		}
		addr = o.cfg.Address
		cmd = framer.ReadMem
	}
	err := o.f.SendCommandWithPayload(cmd, framer.Payload{
		HasAddress: true, Address: addr,
		HasLength: true, Length: o.cfg.Length,
	})
	if err != nil {
		return errors.Wrap(err, "read: send")
	}
	data, err := o.f.ReadUntilIdle()
	if err != nil {
		return errors.Wrap(err, "read: response")
	}
	hexDump(os.Stderr, addr, data)
	return nil
}

// hexDump prints an address-prefixed hex dump, 16 bytes per row.
func hexDump(w *os.File, base uint32, data []byte) {
	out := bufio.NewWriter(w)
	defer out.Flush()
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]
		fmt.Fprintf(out, "%06X:", base+uint32(off))
		for _, b := range row {
			fmt.Fprintf(out, " %02X", b)
		}
		fmt.Fprintln(out)
	}
}
