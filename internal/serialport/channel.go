package serialport

import "time"

// ReadTimeout is how long a read waits for the first byte of a
// response before giving up.
const ReadTimeout = 1 * time.Second

// InterCharTimeout is how long Channel.ReadUntilIdle waits for a
// further byte before deciding a response is complete.
const InterCharTimeout = 500 * time.Millisecond

// resetHoldTime is how long each phase of the DTR reset pulse is held.
const resetHoldTime = 300 * time.Millisecond

// Channel is the synchronous byte-oriented duplex link to the board:
// a raw serial port configured for the bootloader's fixed framing
// (no parity, hardware flow control, 1s/0.5s timeouts).
type Channel struct {
	port *Port
}

// Open configures and returns a ready-to-use bootloader channel on
// device at the given baud rate.
func Open(device string, baud int) (*Channel, error) {
	port, err := OpenPort(device)
	if err != nil {
		return nil, err
	}
	if err := port.Configure(baud, true); err != nil {
		port.Close()
		return nil, err
	}
	return &Channel{port: port}, nil
}

func (c *Channel) Close() error {
	return c.port.Close()
}

// WriteByte sends a single octet.
func (c *Channel) WriteByte(b byte) error {
	_, err := c.port.Write([]byte{b})
	return err
}

// WriteBytes sends a sequence of octets in one write.
func (c *Channel) WriteBytes(data []byte) error {
	_, err := c.port.Write(data)
	return err
}

// ReadByte reads exactly one byte, waiting up to ReadTimeout.
func (c *Channel) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	n, err := c.port.Read(buf, ReadTimeout)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrReadTimeout
	}
	return buf[0], nil
}

// ReadExactly reads exactly n bytes, one read at a time, each bounded
// by ReadTimeout; used where the protocol guarantees a fixed-length
// response (e.g. BOARD_INFO's 12 bytes).
func (c *Channel) ReadExactly(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		b, err := c.ReadByte()
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ReadUntilIdle blocks for the first byte up to ReadTimeout, then
// keeps accumulating bytes as long as they keep arriving within
// InterCharTimeout of each other, returning once the link goes idle.
func (c *Channel) ReadUntilIdle() ([]byte, error) {
	buf := make([]byte, 1)
	n, err := c.port.Read(buf, ReadTimeout)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := append([]byte{}, buf[:n]...)
	for {
		n, err := c.port.Read(buf, InterCharTimeout)
		if err != nil || n == 0 {
			return out, nil
		}
		out = append(out, buf[:n]...)
	}
}

// Reset pulses DTR low/high/low, each phase held for 300ms, the
// sequence most WDC bootloader boards use to force a hardware reset
// without requiring the operator to press a physical button.
func (c *Channel) Reset() error {
	for _, assert := range []bool{false, true, false} {
		if err := c.port.SetModemLine(TIOCM_DTR, assert); err != nil {
			return err
		}
		time.Sleep(resetHoldTime)
	}
	return nil
}
