// Package image holds the uniform in-memory representation every
// parser produces: an ordered list of address-tagged data blocks plus
// an optional execution entry point.
package image

// DataBlock is a contiguous run of bytes destined for a fixed address.
// Its length is not stored separately: Length() is always len(Data).
type DataBlock struct {
	Address uint32
	Data    []byte
}

// Length returns the number of bytes in the block.
func (b DataBlock) Length() int {
	return len(b.Data)
}

// Program is a parsed object file: zero or more blocks in the order
// the parser emitted them, plus the address execution should jump to
// if the caller requests it.
type Program struct {
	Entry    uint32
	HasEntry bool
	Blocks   []DataBlock
}

// Coalesce merges adjacent blocks where the end of one exactly abuts
// the start of the next, walking from the last block to the second
// so that indices already processed stay valid as blocks are removed.
// It does not reorder blocks and will not merge two blocks that are
// contiguous but out of order in the slice.
func (p *Program) Coalesce() {
	for i := len(p.Blocks) - 1; i >= 1; i-- {
		prev := &p.Blocks[i-1]
		cur := p.Blocks[i]
		if uint32(prev.Address)+uint32(prev.Length()) == cur.Address {
			prev.Data = append(prev.Data, cur.Data...)
			p.Blocks = append(p.Blocks[:i], p.Blocks[i+1:]...)
		}
	}
}
