package savw

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const (
	SAVW_MAGIC   = 0xC001D00D
	SAVW_VERSION = 3
)

// ScanEntry is logbook record of world save
type ScanEntry struct {
	Scan     resource.Id[resource.ScanEntry]
	Category uint32
}

// WorldSave keeps scan list decoded, the rest of save layout is opaque
type WorldSave struct {
	Scans []ScanEntry
	Tail  []byte
}

func NewFromData(bs *utils.BufStack) (s *WorldSave, err error) {
	defer utils.RecoverBufStack(&err)

	if magic := bs.ReadBU32(); magic != SAVW_MAGIC {
		return nil, errors.Errorf("[savw] Invalid magic 0x%.8x", magic)
	}
	if version := bs.ReadBU32(); version != SAVW_VERSION {
		return nil, errors.Errorf("[savw] Unsupported version %d", version)
	}

	s = &WorldSave{Scans: make([]ScanEntry, bs.ReadBU32())}
	for i := range s.Scans {
		s.Scans[i].Scan = resource.New[resource.ScanEntry](bs.ReadBU32())
		s.Scans[i].Category = bs.ReadBU32()
	}
	s.Tail = bs.ReadCopy(bs.Left())
	return s, nil
}

func (s *WorldSave) FourCC() resource.FourCC { return resource.SAVW }

func (s *WorldSave) Dependencies() []resource.Key { return nil }

func (s *WorldSave) Marshal() ([]byte, error) {
	w := utils.NewWriter()
	w.W32(SAVW_MAGIC)
	w.W32(SAVW_VERSION)
	w.W32(uint32(len(s.Scans)))
	for _, e := range s.Scans {
		w.W32(e.Scan.U32())
		w.W32(e.Category)
	}
	w.Write(s.Tail)
	return w.Bytes(), nil
}

func (s *WorldSave) Clone() resource.Record {
	return &WorldSave{
		Scans: append([]ScanEntry(nil), s.Scans...),
		Tail:  append([]byte(nil), s.Tail...),
	}
}

// AddScan appends scan unless it is already listed
func (s *WorldSave) AddScan(scan resource.Id[resource.ScanEntry], category uint32) bool {
	for _, e := range s.Scans {
		if e.Scan == scan {
			return false
		}
	}
	s.Scans = append(s.Scans, ScanEntry{Scan: scan, Category: category})
	return true
}

func init() {
	resource.SetHandler(resource.SAVW, func(data []byte) (resource.Record, error) {
		return NewFromData(utils.NewBufStack("savw", data))
	})
}
