package strg

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const STRG_MAGIC = 0x87654321

var ENGL = resource.NewFourCC("ENGL")

type Language struct {
	Code    resource.FourCC
	Strings []string
}

type StringTable struct {
	Languages []Language
}

// New builds english only table
func New(strings ...string) *StringTable {
	return &StringTable{Languages: []Language{{Code: ENGL, Strings: strings}}}
}

func NewFromData(bs *utils.BufStack) (t *StringTable, err error) {
	defer utils.RecoverBufStack(&err)

	if magic := bs.ReadBU32(); magic != STRG_MAGIC {
		return nil, errors.Errorf("[strg] Invalid magic 0x%.8x", magic)
	}
	bs.Skip(4)

	t = &StringTable{Languages: make([]Language, bs.ReadBU32())}
	for i := range t.Languages {
		lang := &t.Languages[i]
		lang.Code = resource.FourCC(bs.ReadBU32())
		lang.Strings = make([]string, bs.ReadBU32())
		for j := range lang.Strings {
			lang.Strings[j] = bs.ReadLString()
		}
	}
	bs.VerifySize(bs.Pos())
	return t, nil
}

func (t *StringTable) FourCC() resource.FourCC { return resource.STRG }

func (t *StringTable) Dependencies() []resource.Key { return nil }

func (t *StringTable) Marshal() ([]byte, error) {
	w := utils.NewWriter()
	w.W32(STRG_MAGIC)
	w.W32(0)
	w.W32(uint32(len(t.Languages)))
	for _, lang := range t.Languages {
		w.W32(uint32(lang.Code))
		w.W32(uint32(len(lang.Strings)))
		for _, s := range lang.Strings {
			w.WLString(s)
		}
	}
	return w.Bytes(), nil
}

func (t *StringTable) Clone() resource.Record {
	c := &StringTable{Languages: make([]Language, len(t.Languages))}
	for i, lang := range t.Languages {
		c.Languages[i] = Language{Code: lang.Code, Strings: append([]string(nil), lang.Strings...)}
	}
	return c
}

// Strings returns strings of language or nil
func (t *StringTable) Strings(code resource.FourCC) []string {
	for _, lang := range t.Languages {
		if lang.Code == code {
			return lang.Strings
		}
	}
	return nil
}

func init() {
	resource.SetHandler(resource.STRG, func(data []byte) (resource.Record, error) {
		return NewFromData(utils.NewBufStack("strg", data))
	})
}
