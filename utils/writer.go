package utils

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer is big-endian counterpart of BufStack
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Write(data []byte) {
	w.buf.Write(data)
}

func (w *Writer) W8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) WBool(v bool) {
	if v {
		w.W8(1)
	} else {
		w.W8(0)
	}
}

func (w *Writer) W16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

func (w *Writer) W32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

func (w *Writer) WF(v float32) {
	w.W32(math.Float32bits(v))
}

// WLString writes u32 length prefixed string without terminator
func (w *Writer) WLString(s string) {
	b := StringToBytes(s, false)
	w.W32(uint32(len(b)))
	w.buf.Write(b)
}

func (w *Writer) WZString(s string) {
	w.buf.Write(StringToBytes(s, true))
}

// PutBU32 overwrites already written value, used for size fixups
func (w *Writer) PutBU32(pos int, v uint32) {
	binary.BigEndian.PutUint32(w.buf.Bytes()[pos:], v)
}

func (w *Writer) Pos() int {
	return w.buf.Len()
}

func (w *Writer) Skip(count int) {
	w.buf.Write(make([]byte, count))
}

// Align pads buffer with zeroes up to next multiple of alignment
func (w *Writer) Align(alignment int) {
	w.Skip(Align(w.Pos(), alignment) - w.Pos())
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func Align(v, alignment int) int {
	return ((v + alignment - 1) / alignment) * alignment
}
