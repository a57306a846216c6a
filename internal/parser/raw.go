package parser

import "github.com/ecnxdev/wdcflash/internal/image"

// rawBlockSize is the maximum size of a single WRITE_MEM block the
// raw-binary parser will emit. The original tool slices the file
// into 1023-byte chunks, one short of a round 1024, and that exact
// cut point is preserved rather than "fixed".
const rawBlockSize = 1023

// ParseRaw treats the entire file as a flat byte array loaded at
// opts.Address (or zero, if unset — the file content itself never
// carries a load address).
func ParseRaw(data []byte, opts Options) (*image.Program, error) {
	addr := uint32(0)
	if opts.HasAddress {
		addr = opts.Address
	}
	prog := &image.Program{Entry: addr, HasEntry: true}
	for len(data) > 0 {
		n := rawBlockSize
		if n > len(data) {
			n = len(data)
		}
		chunk := append([]byte{}, data[:n]...)
		prog.Blocks = append(prog.Blocks, image.DataBlock{Address: addr, Data: chunk})
		addr += uint32(n)
		data = data[n:]
	}
	return prog, nil
}
