package utils

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BufStack is a cursor over a big-endian record buffer.
// Reads past the end panic with the buffer chain as the error value,
// loaders convert that into an error with RecoverBufStack.
type BufStack struct {
	parent         *BufStack
	buf            []byte
	relativeOffset int
	absoluteOffset int
	size           int
	pos            int
	kind           string
	name           string
}

func NewBufStack(kind string, b []byte) *BufStack {
	return &BufStack{
		buf:  b,
		size: len(b),
		kind: kind,
	}
}

// SubBuf returns child buffer of size bytes starting at current position
// and moves current position over it
func (bs *BufStack) SubBuf(kind string, size int) *BufStack {
	if size < 0 || bs.pos+size > bs.size {
		panic(bs.errorf("sub buffer %q of size 0x%x overgrows parent", kind, size))
	}
	childBs := &BufStack{
		parent:         bs,
		relativeOffset: bs.pos,
		absoluteOffset: bs.absoluteOffset + bs.pos,
		kind:           kind,
		buf:            bs.buf[bs.pos : bs.pos+size],
		size:           size,
	}
	bs.pos += size
	return childBs
}

func (bs *BufStack) SetName(name string) *BufStack {
	bs.name = name
	return bs
}

func (bs *BufStack) Name() string      { return bs.name }
func (bs *BufStack) Size() int         { return bs.size }
func (bs *BufStack) Kind() string      { return bs.kind }
func (bs *BufStack) Parent() *BufStack { return bs.parent }
func (bs *BufStack) Pos() int          { return bs.pos }
func (bs *BufStack) Left() int         { return bs.size - bs.pos }

func (bs *BufStack) String() string {
	return fmt.Sprintf("buf<%v>(%v)[o:0x%x,s:0x%x,ao:0x%x,ae:0x%x]",
		bs.kind, bs.name, bs.relativeOffset, bs.size, bs.absoluteOffset, bs.absoluteOffset+bs.size)
}

func (bs *BufStack) StringChain() string {
	s := bs.String()
	if bs.parent != nil {
		s += fmt.Sprintf("::%s", bs.parent.StringChain())
	}
	return s
}

type BufStackError struct {
	Chain string
	Msg   string
}

func (e *BufStackError) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Chain)
}

func (bs *BufStack) errorf(format string, a ...interface{}) *BufStackError {
	return &BufStackError{Chain: bs.StringChain(), Msg: fmt.Sprintf(format, a...)}
}

// RecoverBufStack turns BufStack panic into error. Use with defer:
//
//	defer utils.RecoverBufStack(&err)
func RecoverBufStack(err *error) {
	if r := recover(); r != nil {
		if bsErr, ok := r.(*BufStackError); ok {
			*err = bsErr
		} else {
			panic(r)
		}
	}
}

func (bs *BufStack) Raw() []byte {
	return bs.buf[:bs.size]
}

func (bs *BufStack) Read(amount int) []byte {
	if amount < 0 || bs.pos+amount > bs.size {
		panic(bs.errorf("read of 0x%x bytes at 0x%x out of range", amount, bs.pos))
	}
	oldPos := bs.pos
	bs.pos += amount
	return bs.buf[oldPos:bs.pos]
}

// ReadCopy returns copy of next amount bytes, so result do not alias source buffer
func (bs *BufStack) ReadCopy(amount int) []byte {
	result := make([]byte, amount)
	copy(result, bs.Read(amount))
	return result
}

func (bs *BufStack) Skip(amount int) {
	bs.Read(amount)
}

func (bs *BufStack) Seek(pos int) {
	if pos < 0 || pos > bs.size {
		panic(bs.errorf("seek to 0x%x out of range", pos))
	}
	bs.pos = pos
}

func (bs *BufStack) ReadBU32() uint32 {
	return binary.BigEndian.Uint32(bs.Read(4))
}

func (bs *BufStack) ReadBU16() uint16 {
	return binary.BigEndian.Uint16(bs.Read(2))
}

func (bs *BufStack) ReadU8() uint8 {
	return bs.Read(1)[0]
}

func (bs *BufStack) ReadBool() bool {
	return bs.ReadU8() != 0
}

func (bs *BufStack) ReadBF() float32 {
	return math.Float32frombits(bs.ReadBU32())
}

func (bs *BufStack) ReadStringBuffer(size int) string {
	return BytesToString(bs.Read(size))
}

// ReadLString reads u32 length prefixed string
func (bs *BufStack) ReadLString() string {
	return BytesToString(bs.Read(int(bs.ReadBU32())))
}

// ReadZString reads null terminated string, terminator is consumed
func (bs *BufStack) ReadZString() string {
	for i := bs.pos; i < bs.size; i++ {
		if bs.buf[i] == 0 {
			s := BytesToString(bs.buf[bs.pos:i])
			bs.pos = i + 1
			return s
		}
	}
	panic(bs.errorf("unterminated string at 0x%x", bs.pos))
}

func (bs *BufStack) VerifySize(pos int) {
	if pos != bs.size {
		panic(bs.errorf("mismatch sizes: 0x%x != 0x%x", pos, bs.size))
	}
}

func (bs *BufStack) BU32(off int) uint32 {
	return binary.BigEndian.Uint32(bs.buf[off:])
}

func (bs *BufStack) BU16(off int) uint16 {
	return binary.BigEndian.Uint16(bs.buf[off:])
}
