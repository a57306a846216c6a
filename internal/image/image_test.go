package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesceAdjacent(t *testing.T) {
	p := &Program{Blocks: []DataBlock{
		{Address: 0x100, Data: []byte{0x01, 0x02}},
		{Address: 0x102, Data: []byte{0x03}},
	}}
	p.Coalesce()
	require.Len(t, p.Blocks, 1)
	assert.Equal(t, uint32(0x100), p.Blocks[0].Address)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, p.Blocks[0].Data)
}

func TestCoalesceLeavesNonAdjacent(t *testing.T) {
	p := &Program{Blocks: []DataBlock{
		{Address: 0x100, Data: []byte{0x01}},
		{Address: 0x200, Data: []byte{0x02}},
	}}
	p.Coalesce()
	assert.Len(t, p.Blocks, 2)
}

func TestCoalesceLeavesOutOfOrder(t *testing.T) {
	p := &Program{Blocks: []DataBlock{
		{Address: 0x200, Data: []byte{0x02}},
		{Address: 0x100, Data: []byte{0x01}},
	}}
	p.Coalesce()
	assert.Len(t, p.Blocks, 2)
}

func TestCoalescePreservesConcatenation(t *testing.T) {
	before := []DataBlock{
		{Address: 0x10, Data: []byte{0xAA, 0xBB}},
		{Address: 0x12, Data: []byte{0xCC}},
		{Address: 0x13, Data: []byte{0xDD, 0xEE}},
	}
	var beforeData []byte
	for _, b := range before {
		beforeData = append(beforeData, b.Data...)
	}
	p := &Program{Blocks: append([]DataBlock{}, before...)}
	p.Coalesce()

	var afterData []byte
	for _, b := range p.Blocks {
		afterData = append(afterData, b.Data...)
		assert.Equal(t, b.Length(), len(b.Data))
	}
	assert.Equal(t, beforeData, afterData)

	for i := 1; i < len(p.Blocks); i++ {
		prev := p.Blocks[i-1]
		cur := p.Blocks[i]
		assert.NotEqual(t, cur.Address, prev.Address+uint32(prev.Length()),
			"adjacent blocks survived coalesce at index %d", i)
	}
}
