// Package framer layers the bootloader's command protocol over a
// serialport.Channel: the two-byte preamble, echo handshake, command
// byte, payload encoding and response decoding described by the wire
// protocol.
package framer

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ecnxdev/wdcflash/internal/leutil"
)

// link is the subset of serialport.Channel the framer needs. Framer
// is built against this interface rather than the concrete type so
// tests can exercise the wire-level byte sequences without a real
// serial device.
type link interface {
	WriteByte(b byte) error
	WriteBytes(data []byte) error
	ReadByte() (byte, error)
	ReadExactly(n int) ([]byte, error)
	ReadUntilIdle() ([]byte, error)
	Reset() error
}

// Command is a one-byte bootloader command code.
type Command byte

const (
	Sync         Command = 0x00
	Echo         Command = 0x01
	WriteMem     Command = 0x02
	ReadMem      Command = 0x03
	GetInfo      Command = 0x04
	ExecuteDebug Command = 0x05
	ExecuteMem   Command = 0x06
	WriteFlash   Command = 0x07
	ReadFlash    Command = 0x08
	ClearFlash   Command = 0x09
	CheckFlash   Command = 0x0A
	ExecuteFlash Command = 0x0B
	BoardInfo    Command = 0x0C
	Update       Command = 0x0D
)

const (
	preambleLo = 0x55
	preambleHi = 0xAA
	echoByte   = 0xCC
)

// ErrProtocolDesync is returned when the board's echo byte after the
// preamble is not 0xCC.
type ErrProtocolDesync struct {
	Got byte
}

func (e *ErrProtocolDesync) Error() string {
	return fmt.Sprintf("protocol desync: expected echo 0xCC, got 0x%02X", e.Got)
}

// Framer drives the command/response exchange over a serial channel.
type Framer struct {
	ch link
}

// New wraps an already-opened channel.
func New(ch link) *Framer {
	return &Framer{ch: ch}
}

// sendPreamble transmits 0x55 0xAA and verifies the 0xCC echo.
func (f *Framer) sendPreamble() error {
	if err := f.ch.WriteBytes([]byte{preambleLo, preambleHi}); err != nil {
		return errors.Wrap(err, "framer: send preamble")
	}
	got, err := f.ch.ReadByte()
	if err != nil {
		return errors.Wrap(err, "framer: read echo")
	}
	if got != echoByte {
		return &ErrProtocolDesync{Got: got}
	}
	return nil
}

// SendCommand sends a no-payload command frame (preamble, echo, command byte).
func (f *Framer) SendCommand(cmd Command) error {
	if err := f.sendPreamble(); err != nil {
		return err
	}
	return f.ch.WriteByte(byte(cmd))
}

// Payload carries the optional address/length/data fields a command
// frame may append after its command byte.
type Payload struct {
	HasAddress bool
	Address    uint32
	HasLength  bool
	Length     uint32
	Data       []byte
}

// SendCommandWithPayload sends the frame's preamble/echo/command byte
// followed by the payload fields the caller populated, in
// address-then-length-then-data order.
func (f *Framer) SendCommandWithPayload(cmd Command, p Payload) error {
	if err := f.sendPreamble(); err != nil {
		return err
	}
	buf := []byte{byte(cmd)}
	if p.HasAddress {
		buf = append(buf, leutil.UintToLEBytes(p.Address, 3)...)
	}
	if p.HasLength {
		buf = append(buf, leutil.UintToLEBytes(p.Length, 3)...)
	}
	if len(p.Data) > 0 {
		buf = append(buf, p.Data...)
	}
	return f.ch.WriteBytes(buf)
}

// ReadStatus reads a single status byte (0x00 means success).
func (f *Framer) ReadStatus() (byte, error) {
	b, err := f.ch.ReadByte()
	if err != nil {
		return 0, errors.Wrap(err, "framer: read status")
	}
	return b, nil
}

// ReadUntilIdle reads the full response stream for READ_MEM/READ_FLASH.
func (f *Framer) ReadUntilIdle() ([]byte, error) {
	data, err := f.ch.ReadUntilIdle()
	if err != nil {
		return nil, errors.Wrap(err, "framer: read until idle")
	}
	return data, nil
}

// ReadBoardInfo reads exactly 12 bytes, the fixed BOARD_INFO response length.
func (f *Framer) ReadBoardInfo() ([]byte, error) {
	data, err := f.ch.ReadExactly(12)
	if err != nil {
		return nil, errors.Wrap(err, "framer: read board info")
	}
	return data, nil
}

// WriteRaw writes bytes directly to the underlying channel, bypassing
// the preamble/echo handshake. Used by the UPDATE sequence's
// mid-transaction re-sync bytes and payload transmission.
func (f *Framer) WriteRaw(data []byte) error {
	return f.ch.WriteBytes(data)
}

// ReadByte reads a single raw byte, bypassing the handshake.
func (f *Framer) ReadByte() (byte, error) {
	return f.ch.ReadByte()
}

// Reset pulses DTR per the serial channel's reset sequence.
func (f *Framer) Reset() error {
	return f.ch.Reset()
}
