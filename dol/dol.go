package dol

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	HEADER_SIZE   = 0x100
	TEXT_SECTIONS = 7
	DATA_SECTIONS = 11
)

type Section struct {
	Offset  uint32
	Address uint32
	Size    uint32
	Text    bool
}

func (s *Section) Contains(addr, size uint32) bool {
	return s.Size != 0 && addr >= s.Address && uint64(addr)+uint64(size) <= uint64(s.Address)+uint64(s.Size)
}

// File is executable with its section map. Data is whole file,
// patches are applied in place.
type File struct {
	Sections   []Section
	BssAddress uint32
	BssSize    uint32
	Entry      uint32
	Data       []byte
}

func Parse(b []byte) (*File, error) {
	if len(b) < HEADER_SIZE {
		return nil, errors.Errorf("[dol] File too small: 0x%x", len(b))
	}
	u32 := func(off int) uint32 { return binary.BigEndian.Uint32(b[off:]) }

	f := &File{
		Sections:   make([]Section, TEXT_SECTIONS+DATA_SECTIONS),
		BssAddress: u32(0xD8),
		BssSize:    u32(0xDC),
		Entry:      u32(0xE0),
		Data:       append([]byte(nil), b...),
	}
	for i := range f.Sections {
		f.Sections[i] = Section{
			Offset:  u32(i * 4),
			Address: u32(0x48 + i*4),
			Size:    u32(0x90 + i*4),
			Text:    i < TEXT_SECTIONS,
		}
		s := &f.Sections[i]
		if s.Size != 0 && uint64(s.Offset)+uint64(s.Size) > uint64(len(b)) {
			return nil, errors.Errorf("[dol] Section %d [0x%x:0x%x] out of file", i, s.Offset, s.Offset+s.Size)
		}
	}
	return f, nil
}

func (f *File) section(addr, size uint32) (*Section, error) {
	for i := range f.Sections {
		if f.Sections[i].Contains(addr, size) {
			return &f.Sections[i], nil
		}
	}
	return nil, errors.Errorf("[dol] Address 0x%.8x (size 0x%x) is not inside any section", addr, size)
}

func (f *File) AddressToOffset(addr uint32) (uint32, error) {
	s, err := f.section(addr, 1)
	if err != nil {
		return 0, err
	}
	return s.Offset + addr - s.Address, nil
}

func (f *File) Bytes() []byte {
	return f.Data
}

func (f *File) WriteAt(addr uint32, b []byte) error {
	s, err := f.section(addr, uint32(len(b)))
	if err != nil {
		return err
	}
	copy(f.Data[s.Offset+addr-s.Address:], b)
	return nil
}

func (f *File) ReadAt(addr uint32, size uint32) ([]byte, error) {
	s, err := f.section(addr, size)
	if err != nil {
		return nil, err
	}
	off := s.Offset + addr - s.Address
	return f.Data[off : off+size], nil
}
