package resource

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// FourCC is big-endian four character resource type tag
type FourCC uint32

func NewFourCC(s string) FourCC {
	if len(s) != 4 {
		panic(fmt.Sprintf("fourcc %q must be 4 bytes long", s))
	}
	return FourCC(binary.BigEndian.Uint32([]byte(s)))
}

func (f FourCC) String() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(f))
	return string(b[:])
}

func (f FourCC) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FourCC) UnmarshalText(text []byte) error {
	if len(text) != 4 {
		return errors.Errorf("[resource] Invalid fourcc %q", text)
	}
	*f = FourCC(binary.BigEndian.Uint32(text))
	return nil
}

var (
	CMDL = NewFourCC("CMDL")
	TXTR = NewFourCC("TXTR")
	STRG = NewFourCC("STRG")
	SCAN = NewFourCC("SCAN")
	ANCS = NewFourCC("ANCS")
	MREA = NewFourCC("MREA")
	FRME = NewFourCC("FRME")
	SAVW = NewFourCC("SAVW")
	MLVL = NewFourCC("MLVL")
)

// Kind markers bind Id to resource type at compile time
type Kind interface {
	FourCC() FourCC
}

type Model struct{}
type Texture struct{}
type StringTable struct{}
type ScanEntry struct{}
type Animation struct{}
type Room struct{}
type Frame struct{}
type WorldSave struct{}

func (Model) FourCC() FourCC       { return CMDL }
func (Texture) FourCC() FourCC     { return TXTR }
func (StringTable) FourCC() FourCC { return STRG }
func (ScanEntry) FourCC() FourCC   { return SCAN }
func (Animation) FourCC() FourCC   { return ANCS }
func (Room) FourCC() FourCC        { return MREA }
func (Frame) FourCC() FourCC       { return FRME }
func (WorldSave) FourCC() FourCC   { return SAVW }
