package cmdl

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const (
	CMDL_MAGIC   = 0xDEADBABE
	CMDL_VERSION = 2
)

// Model keeps texture slots decoded, geometry stays opaque
type Model struct {
	Flags    uint32
	Textures []resource.Id[resource.Texture]
	Body     []byte
}

func NewFromData(bs *utils.BufStack) (m *Model, err error) {
	defer utils.RecoverBufStack(&err)

	if magic := bs.ReadBU32(); magic != CMDL_MAGIC {
		return nil, errors.Errorf("[cmdl] Invalid magic 0x%.8x", magic)
	}
	if version := bs.ReadBU32(); version != CMDL_VERSION {
		return nil, errors.Errorf("[cmdl] Unsupported version %d", version)
	}

	m = &Model{Flags: bs.ReadBU32()}
	m.Textures = make([]resource.Id[resource.Texture], bs.ReadBU32())
	for i := range m.Textures {
		m.Textures[i] = resource.New[resource.Texture](bs.ReadBU32())
	}
	m.Body = bs.ReadCopy(int(bs.ReadBU32()))
	bs.VerifySize(bs.Pos())
	return m, nil
}

func (m *Model) FourCC() resource.FourCC { return resource.CMDL }

func (m *Model) Dependencies() []resource.Key {
	deps := make([]resource.Key, 0, len(m.Textures))
	seen := make(resource.KeySet)
	for _, tex := range m.Textures {
		if tex.IsValid() && !seen.Has(tex.Key()) {
			seen.Add(tex.Key())
			deps = append(deps, tex.Key())
		}
	}
	return deps
}

func (m *Model) Marshal() ([]byte, error) {
	w := utils.NewWriter()
	w.W32(CMDL_MAGIC)
	w.W32(CMDL_VERSION)
	w.W32(m.Flags)
	w.W32(uint32(len(m.Textures)))
	for _, tex := range m.Textures {
		w.W32(tex.U32())
	}
	w.W32(uint32(len(m.Body)))
	w.Write(m.Body)
	return w.Bytes(), nil
}

func (m *Model) Clone() resource.Record {
	return &Model{
		Flags:    m.Flags,
		Textures: append([]resource.Id[resource.Texture](nil), m.Textures...),
		Body:     append([]byte(nil), m.Body...),
	}
}

// Retexture replaces texture slots, slot out of range is an error
func (m *Model) Retexture(slots map[int]resource.Id[resource.Texture]) error {
	for slot, tex := range slots {
		if slot < 0 || slot >= len(m.Textures) {
			return errors.Errorf("[cmdl] Texture slot %d out of range [0:%d)", slot, len(m.Textures))
		}
		m.Textures[slot] = tex
	}
	return nil
}

func init() {
	resource.SetHandler(resource.CMDL, func(data []byte) (resource.Record, error) {
		return NewFromData(utils.NewBufStack("cmdl", data))
	})
}
