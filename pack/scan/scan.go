package scan

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const (
	SCAN_VERSION = 5
	SCAN_MAGIC   = 0x0BADBEEF
	IMAGES_COUNT = 4
)

type ScanImage struct {
	Texture      resource.Id[resource.Texture]
	Appearance   float32
	Pane         uint32
	AnimCell     [2]uint32
	Interval     float32
	FadeDuration float32
}

type Scan struct {
	Frame       resource.Id[resource.Frame]
	Strg        resource.Id[resource.StringTable]
	IsImportant bool
	Category    uint32
	Images      [IMAGES_COUNT]ScanImage
}

func New(frame resource.Id[resource.Frame], strg resource.Id[resource.StringTable], category uint32, important bool) *Scan {
	s := &Scan{
		Frame:       frame,
		Strg:        strg,
		IsImportant: important,
		Category:    category,
	}
	for i := range s.Images {
		s.Images[i].Texture = resource.Invalid[resource.Texture]()
		s.Images[i].Pane = 0xFFFFFFFF
	}
	return s
}

func NewFromData(bs *utils.BufStack) (s *Scan, err error) {
	defer utils.RecoverBufStack(&err)

	if version := bs.ReadBU32(); version != SCAN_VERSION {
		return nil, errors.Errorf("[scan] Unsupported version %d", version)
	}
	if magic := bs.ReadBU32(); magic != SCAN_MAGIC {
		return nil, errors.Errorf("[scan] Invalid magic 0x%.8x", magic)
	}

	s = &Scan{
		Frame:       resource.New[resource.Frame](bs.ReadBU32()),
		Strg:        resource.New[resource.StringTable](bs.ReadBU32()),
		IsImportant: bs.ReadBU32() != 0,
		Category:    bs.ReadBU32(),
	}
	bs.Skip(1)
	for i := range s.Images {
		img := &s.Images[i]
		img.Texture = resource.New[resource.Texture](bs.ReadBU32())
		img.Appearance = bs.ReadBF()
		img.Pane = bs.ReadBU32()
		img.AnimCell[0] = bs.ReadBU32()
		img.AnimCell[1] = bs.ReadBU32()
		img.Interval = bs.ReadBF()
		img.FadeDuration = bs.ReadBF()
	}
	bs.VerifySize(bs.Pos())
	return s, nil
}

func (s *Scan) FourCC() resource.FourCC { return resource.SCAN }

func (s *Scan) Dependencies() []resource.Key {
	deps := []resource.Key{s.Frame.Key(), s.Strg.Key()}
	for _, img := range s.Images {
		if img.Texture.IsValid() {
			deps = append(deps, img.Texture.Key())
		}
	}
	return deps
}

func (s *Scan) Marshal() ([]byte, error) {
	w := utils.NewWriter()
	w.W32(SCAN_VERSION)
	w.W32(SCAN_MAGIC)
	w.W32(s.Frame.U32())
	w.W32(s.Strg.U32())
	if s.IsImportant {
		w.W32(1)
	} else {
		w.W32(0)
	}
	w.W32(s.Category)
	w.W8(1)
	for _, img := range s.Images {
		w.W32(img.Texture.U32())
		w.WF(img.Appearance)
		w.W32(img.Pane)
		w.W32(img.AnimCell[0])
		w.W32(img.AnimCell[1])
		w.WF(img.Interval)
		w.WF(img.FadeDuration)
	}
	return w.Bytes(), nil
}

func (s *Scan) Clone() resource.Record {
	c := *s
	return &c
}

func init() {
	resource.SetHandler(resource.SCAN, func(data []byte) (resource.Record, error) {
		return NewFromData(utils.NewBufStack("scan", data))
	})
}
