package dol

import (
	"encoding/binary"
	"log"

	"github.com/pkg/errors"
)

const (
	OPCODE_ADDI = 14
	INSTR_NOP   = 0x60000000
)

// LoadImmediate encodes `li rD, simm` (addi rD, 0, simm)
func LoadImmediate(reg uint8, v int16) uint32 {
	return OPCODE_ADDI<<26 | uint32(reg&0x1F)<<21 | uint32(uint16(v))
}

// Patcher applies patches addressed by symbol names of detected game version
type Patcher struct {
	File    *File
	Symbols map[string]uint32
}

func NewPatcher(f *File, symbols map[string]uint32) *Patcher {
	return &Patcher{File: f, Symbols: symbols}
}

func (p *Patcher) symbol(name string) (uint32, error) {
	addr, ok := p.Symbols[name]
	if !ok {
		return 0, errors.Errorf("[dol] Unknown symbol %q", name)
	}
	return addr, nil
}

func (p *Patcher) PatchBytesAtSymbol(name string, b []byte) error {
	addr, err := p.symbol(name)
	if err != nil {
		return err
	}
	if err := p.File.WriteAt(addr, b); err != nil {
		return errors.Wrapf(err, "[dol] Symbol %q", name)
	}
	log.Printf("[dol] Patched %d bytes at %s (0x%.8x)", len(b), name, addr)
	return nil
}

func (p *Patcher) PatchInstructionsAtSymbol(name string, instrs []uint32) error {
	addr, err := p.symbol(name)
	if err != nil {
		return err
	}
	if addr%4 != 0 {
		return errors.Errorf("[dol] Symbol %q (0x%.8x) is not instruction aligned", name, addr)
	}
	if s, err := p.File.section(addr, uint32(len(instrs)*4)); err != nil {
		return errors.Wrapf(err, "[dol] Symbol %q", name)
	} else if !s.Text {
		return errors.Errorf("[dol] Symbol %q (0x%.8x) is not in text section", name, addr)
	}

	b := make([]byte, len(instrs)*4)
	for i, instr := range instrs {
		binary.BigEndian.PutUint32(b[i*4:], instr)
	}
	return p.PatchBytesAtSymbol(name, b)
}
