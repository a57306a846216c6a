// Package serialport opens and drives the host side of the bootloader's
// physical link: a raw-mode duplex byte channel over a Linux tty device,
// with the baud rate, parity, flow control and read timeouts the
// bootloader protocol requires.
package serialport

import (
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"github.com/daedaluz/fdev/poll"
	ioctl "github.com/daedaluz/goioctl"
)

// ErrClosed is returned by any operation on a Port that has already
// been closed.
var ErrClosed = wrapErr("serial port", syscall.EBADF)

// Port is a single open tty device file descriptor, reconfigured into
// raw mode with an explicit read timeout.
type Port struct {
	closed atomic.Bool
	fd     int
}

// OpenPort opens the named device node for reading and writing
// without making it the controlling terminal of the calling process.
func OpenPort(name string) (*Port, error) {
	fd, err := syscall.Open(name, syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, wrapErr("open "+name, err)
	}
	return &Port{fd: fd}, nil
}

func (p *Port) Write(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	n, err := syscall.Write(p.fd, data)
	return n, wrapErr("write", err)
}

// Read blocks until timeout elapses with no byte available, returning
// whatever was read (possibly nothing) and any non-timeout error.
func (p *Port) Read(data []byte, timeout time.Duration) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	if err := poll.WaitInput(p.fd, timeout); err != nil {
		return 0, err
	}
	n, err := syscall.Read(p.fd, data)
	return n, wrapErr("read", err)
}

func (p *Port) Close() error {
	if !p.closed.Swap(true) {
		fd := p.fd
		p.fd = -1
		return wrapErr("close", syscall.Close(fd))
	}
	return ErrClosed
}

func (p *Port) getAttr() (*Termios2, error) {
	attrs := &Termios2{}
	if err := ioctl.Ioctl(uintptr(p.fd), tcgets2, uintptr(unsafe.Pointer(attrs))); err != nil {
		return nil, wrapErr("tcgets2", err)
	}
	return attrs, nil
}

func (p *Port) setAttr(attrs *Termios2) error {
	return wrapErr("tcsets2", ioctl.Ioctl(uintptr(p.fd), tcsets2, uintptr(unsafe.Pointer(attrs))))
}

// Configure puts the port into raw 8N1 mode at baud, enabling
// RTS/CTS hardware flow control when rtscts is set and disabling
// parity unconditionally (the bootloader link never uses it).
func (p *Port) Configure(baud int, rtscts bool) error {
	attrs, err := p.getAttr()
	if err != nil {
		return err
	}
	attrs.MakeRaw()
	attrs.SetCustomSpeed(uint32(baud))
	attrs.Cflag |= CREAD | CLOCAL
	if rtscts {
		attrs.Cflag |= CRTSCTS
	} else {
		attrs.Cflag &^= CRTSCTS
	}
	return p.setAttr(attrs)
}

// SetModemLine asserts or clears a single RS-232 control line (DTR,
// RTS, ...) without touching the others.
func (p *Port) SetModemLine(line ModemLine, assert bool) error {
	req := tiocmbic
	if assert {
		req = tiocmbis
	}
	return wrapErr("set modem line", ioctl.Ioctl(uintptr(p.fd), req, uintptr(unsafe.Pointer(&line))))
}
