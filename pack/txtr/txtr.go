package txtr

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const (
	FORMAT_I4     = 0x0
	FORMAT_I8     = 0x1
	FORMAT_IA4    = 0x2
	FORMAT_IA8    = 0x3
	FORMAT_C4     = 0x4
	FORMAT_C8     = 0x5
	FORMAT_C14X2  = 0x6
	FORMAT_RGB565 = 0x7
	FORMAT_RGB5A3 = 0x8
	FORMAT_RGBA8  = 0x9
	FORMAT_CMPR   = 0xA
)

type Texture struct {
	Format   uint32
	Width    uint16
	Height   uint16
	MipCount uint32
	Data     []byte
}

func NewFromData(bs *utils.BufStack) (t *Texture, err error) {
	defer utils.RecoverBufStack(&err)

	t = &Texture{
		Format:   bs.ReadBU32(),
		Width:    bs.ReadBU16(),
		Height:   bs.ReadBU16(),
		MipCount: bs.ReadBU32(),
	}
	if t.Format > FORMAT_CMPR {
		return nil, errors.Errorf("[txtr] Unknown format 0x%x", t.Format)
	}
	t.Data = bs.ReadCopy(bs.Left())
	return t, nil
}

func (t *Texture) FourCC() resource.FourCC { return resource.TXTR }

func (t *Texture) Dependencies() []resource.Key { return nil }

func (t *Texture) Marshal() ([]byte, error) {
	w := utils.NewWriter()
	w.W32(t.Format)
	w.W16(t.Width)
	w.W16(t.Height)
	w.W32(t.MipCount)
	w.Write(t.Data)
	return w.Bytes(), nil
}

func (t *Texture) Clone() resource.Record {
	c := *t
	c.Data = append([]byte(nil), t.Data...)
	return &c
}

func init() {
	resource.SetHandler(resource.TXTR, func(data []byte) (resource.Record, error) {
		return NewFromData(utils.NewBufStack("txtr", data))
	})
}
