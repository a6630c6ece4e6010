package ton

import (
	"crypto/sha256"
	"math/big"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// Cell capacity limits fixed by the TVM cell model.
const (
	MaxCellBits = 1023
	MaxCellRefs = 4
)

// Cell is an immutable TVM cell: up to 1023 data bits and up to four
// references to other cells. Cells are built with a Builder and hashed
// with the standard cell representation.
type Cell struct {
	data   []byte
	bitLen int
	refs   []*Cell
}

// BitLen returns the number of data bits in the cell.
func (c *Cell) BitLen() int { return c.bitLen }

// Refs returns the cell's child references.
func (c *Cell) Refs() []*Cell { return c.refs }

// depth returns the cell tree depth: 0 for a leaf, 1+max(children)
// otherwise.
func (c *Cell) depth() uint16 {
	if len(c.refs) == 0 {
		return 0
	}
	var max uint16
	for _, ref := range c.refs {
		if d := ref.depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Hash computes the standard-representation SHA-256 hash of the cell.
// This is the value the wallet contract's signature covers.
func (c *Cell) Hash() [32]byte {
	fullBytes := c.bitLen / 8
	d1 := byte(len(c.refs))
	d2 := byte(fullBytes + (c.bitLen+7)/8)

	repr := make([]byte, 0, 2+len(c.data)+len(c.refs)*34)
	repr = append(repr, d1, d2)

	data := make([]byte, (c.bitLen+7)/8)
	copy(data, c.data[:len(data)])
	if c.bitLen%8 != 0 {
		// Completion tag: a single 1 bit after the data bits
		data[len(data)-1] |= 1 << (7 - uint(c.bitLen%8))
	}
	repr = append(repr, data...)

	for _, ref := range c.refs {
		d := ref.depth()
		repr = append(repr, byte(d>>8), byte(d))
	}
	for _, ref := range c.refs {
		h := ref.Hash()
		repr = append(repr, h[:]...)
	}

	return sha256.Sum256(repr)
}

// Builder assembles a cell bit by bit.
type Builder struct {
	data   []byte
	bitLen int
	refs   []*Cell
}

// NewBuilder creates an empty cell builder.
func NewBuilder() *Builder {
	return &Builder{data: make([]byte, 0, 128)}
}

// BitLen returns the number of bits written so far.
func (b *Builder) BitLen() int { return b.bitLen }

// WriteBit appends a single bit.
func (b *Builder) WriteBit(v bool) error {
	if b.bitLen >= MaxCellBits {
		return walleterr.ErrDataTooLarge
	}
	if b.bitLen%8 == 0 {
		b.data = append(b.data, 0)
	}
	if v {
		b.data[b.bitLen/8] |= 1 << (7 - uint(b.bitLen%8))
	}
	b.bitLen++
	return nil
}

// WriteUint appends the low `bits` bits of v, most significant first.
func (b *Builder) WriteUint(v uint64, bits int) error {
	for i := bits - 1; i >= 0; i-- {
		if err := b.WriteBit(v>>uint(i)&1 == 1); err != nil {
			return err
		}
	}
	return nil
}

// WriteBytes appends whole bytes.
func (b *Builder) WriteBytes(p []byte) error {
	for _, by := range p {
		if err := b.WriteUint(uint64(by), 8); err != nil {
			return err
		}
	}
	return nil
}

// WriteBigUint appends v as an unsigned big-endian integer of the given
// bit width.
func (b *Builder) WriteBigUint(v *big.Int, bits int) error {
	if v.Sign() < 0 || v.BitLen() > bits {
		return walleterr.ErrInvalidAmount
	}
	for i := bits - 1; i >= 0; i-- {
		if err := b.WriteBit(v.Bit(i) == 1); err != nil {
			return err
		}
	}
	return nil
}

// WriteCoins appends a variable-length coin amount: a 4-bit byte count
// followed by the amount itself.
func (b *Builder) WriteCoins(v *big.Int) error {
	if v == nil || v.Sign() == 0 {
		return b.WriteUint(0, 4)
	}
	if v.Sign() < 0 {
		return walleterr.ErrInvalidAmount
	}
	byteLen := (v.BitLen() + 7) / 8
	if byteLen > 15 {
		return walleterr.ErrInvalidAmount
	}
	if err := b.WriteUint(uint64(byteLen), 4); err != nil {
		return err
	}
	return b.WriteBigUint(v, byteLen*8)
}

// WriteAddress appends an address in MsgAddress form: addr_none for
// nil, addr_std otherwise.
func (b *Builder) WriteAddress(a *Address) error {
	if a == nil {
		// addr_none$00
		return b.WriteUint(0, 2)
	}
	// addr_std$10, no anycast
	if err := b.WriteUint(0b100, 3); err != nil {
		return err
	}
	if err := b.WriteUint(uint64(uint8(a.Workchain)), 8); err != nil {
		return err
	}
	return b.WriteBytes(a.Hash[:])
}

// WriteRef appends a reference to another cell.
func (b *Builder) WriteRef(c *Cell) error {
	if len(b.refs) >= MaxCellRefs {
		return walleterr.ErrDataTooLarge
	}
	b.refs = append(b.refs, c)
	return nil
}

// WriteCell appends another cell's data bits and references inline.
func (b *Builder) WriteCell(c *Cell) error {
	for i := 0; i < c.bitLen; i++ {
		bit := c.data[i/8]>>(7-uint(i%8))&1 == 1
		if err := b.WriteBit(bit); err != nil {
			return err
		}
	}
	for _, ref := range c.refs {
		if err := b.WriteRef(ref); err != nil {
			return err
		}
	}
	return nil
}

// Build finalizes the builder into a cell.
func (b *Builder) Build() *Cell {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	refs := make([]*Cell, len(b.refs))
	copy(refs, b.refs)
	return &Cell{data: data, bitLen: b.bitLen, refs: refs}
}
