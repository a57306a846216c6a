package parser

import (
	"github.com/ecnxdev/wdcflash/internal/image"
	"github.com/ecnxdev/wdcflash/internal/leutil"
)

// ParseZRecord decodes the "Z"-prefixed record format: a leading
// 0x5A, a 3-byte LE execute address, then zero or more
// {address(3 LE), length(3 LE), data(length)} records terminated by
// a record whose length is zero. Blocks are appended in file order
// and never coalesced.
func ParseZRecord(data []byte) (*image.Program, error) {
	if len(data) < 1 || data[0] != 0x5A {
		return nil, ErrUnrecognizedFormat
	}
	data = data[1:]
	if len(data) < 3 {
		return nil, ErrTruncated
	}
	prog := &image.Program{
		Entry:    leutil.LEBytesToUint(data[:3]),
		HasEntry: true,
	}
	data = data[3:]
	for {
		if len(data) < 6 {
			return nil, ErrTruncated
		}
		addr := leutil.LEBytesToUint(data[:3])
		data = data[3:]
		length := leutil.LEBytesToUint(data[:3])
		data = data[3:]
		if length == 0 {
			break
		}
		if uint32(len(data)) < length {
			return nil, ErrTruncated
		}
		block := image.DataBlock{
			Address: addr,
			Data:    append([]byte{}, data[:length]...),
		}
		prog.Blocks = append(prog.Blocks, block)
		data = data[length:]
	}
	return prog, nil
}
