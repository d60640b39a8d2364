package pack

import (
	"io"
	"io/ioutil"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const (
	PAK_MAGIC     = 0x00030005
	PAK_ALIGNMENT = 32
)

type NamedResource struct {
	Name string
	Key  resource.Key
}

// Archive is one .pak file: named table plus pool of resources.
// Resources keep archive order, it is preserved on write.
type Archive struct {
	Name      string
	Named     []NamedResource
	Resources []*resource.Resource
}

func ReadArchive(name string, data []byte) (a *Archive, err error) {
	defer utils.RecoverBufStack(&err)

	bs := utils.NewBufStack("pak", data).SetName(name)
	if magic := bs.ReadBU32(); magic != PAK_MAGIC {
		return nil, errors.Errorf("[pack] %s: invalid magic 0x%.8x", name, magic)
	}
	bs.Skip(4)

	a = &Archive{Name: name}

	namedCount := int(bs.ReadBU32())
	a.Named = make([]NamedResource, namedCount)
	for i := range a.Named {
		a.Named[i].Key.Type = resource.FourCC(bs.ReadBU32())
		a.Named[i].Key.Id = bs.ReadBU32()
		a.Named[i].Name = bs.ReadLString()
	}

	names := make(map[resource.Key]string, namedCount)
	for _, n := range a.Named {
		names[n.Key] = n.Name
	}

	resCount := int(bs.ReadBU32())
	a.Resources = make([]*resource.Resource, resCount)
	for i := range a.Resources {
		compressed := bs.ReadBU32() != 0
		key := resource.Key{Type: resource.FourCC(bs.ReadBU32()), Id: bs.ReadBU32()}
		size := int(bs.ReadBU32())
		offset := int(bs.ReadBU32())

		if offset+size > bs.Size() {
			return nil, errors.Errorf("[pack] %s: %s body [0x%x:0x%x] out of file", name, key, offset, offset+size)
		}
		body := data[offset : offset+size]
		if compressed {
			if body, err = Decompress(body); err != nil {
				return nil, errors.Wrapf(err, "[pack] %s: %s", name, key)
			}
		} else {
			body = append([]byte(nil), body...)
		}

		res := resource.NewRaw(key, body)
		res.Compressed = compressed
		res.Name = names[key]
		a.Resources[i] = res
	}
	return a, nil
}

func (a *Archive) Marshal() ([]byte, error) {
	bodies := make([][]byte, len(a.Resources))
	for i, res := range a.Resources {
		data, err := res.Bytes()
		if err != nil {
			return nil, errors.Wrapf(err, "[pack] %s", a.Name)
		}
		if res.Compressed {
			if data, err = Compress(data); err != nil {
				return nil, errors.Wrapf(err, "[pack] %s: %s", a.Name, res.Key())
			}
		}
		bodies[i] = data
	}

	w := utils.NewWriter()
	w.W32(PAK_MAGIC)
	w.W32(0)

	w.W32(uint32(len(a.Named)))
	for _, n := range a.Named {
		w.W32(uint32(n.Key.Type))
		w.W32(n.Key.Id)
		w.WLString(n.Name)
	}

	w.W32(uint32(len(a.Resources)))
	tablePos := w.Pos()
	for range a.Resources {
		w.Skip(5 * 4)
	}
	w.Align(PAK_ALIGNMENT)

	for i, res := range a.Resources {
		entry := tablePos + i*5*4
		if res.Compressed {
			w.PutBU32(entry, 1)
		}
		w.PutBU32(entry+4, uint32(res.Type))
		w.PutBU32(entry+8, res.Id)
		w.PutBU32(entry+12, uint32(len(bodies[i])))
		w.PutBU32(entry+16, uint32(w.Pos()))
		w.Write(bodies[i])
		w.Align(PAK_ALIGNMENT)
	}
	return w.Bytes(), nil
}

func (a *Archive) Index(key resource.Key) int {
	for i, res := range a.Resources {
		if res.Key() == key {
			return i
		}
	}
	return -1
}

func (a *Archive) Find(key resource.Key) (*resource.Resource, bool) {
	if i := a.Index(key); i >= 0 {
		return a.Resources[i], true
	}
	return nil, false
}

// Add appends resource if archive do not carry it yet
func (a *Archive) Add(res *resource.Resource) bool {
	if a.Index(res.Key()) >= 0 {
		return false
	}
	a.Resources = append(a.Resources, res)
	return true
}

func (a *Archive) Remove(key resource.Key) bool {
	i := a.Index(key)
	if i < 0 {
		return false
	}
	a.Resources = append(a.Resources[:i], a.Resources[i+1:]...)
	for j := 0; j < len(a.Named); j++ {
		if a.Named[j].Key == key {
			a.Named = append(a.Named[:j], a.Named[j+1:]...)
			j--
		}
	}
	return true
}

func (a *Archive) Rooms() []*resource.Resource {
	rooms := make([]*resource.Resource, 0)
	for _, res := range a.Resources {
		if res.Type == resource.MREA {
			rooms = append(rooms, res)
		}
	}
	return rooms
}

func (a *Archive) FindNamed(name string) (*resource.Resource, bool) {
	for _, n := range a.Named {
		if strings.EqualFold(n.Name, name) {
			return a.Find(n.Key)
		}
	}
	return nil, false
}

func init() {
	SetHandler(".PAK", func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "[pack] Cannot read '%s'", src.Name())
		}
		a, err := ReadArchive(src.Name(), data)
		if err != nil {
			return nil, err
		}
		log.Printf("[pack] Loaded '%s': %d resources, %d named", src.Name(), len(a.Resources), len(a.Named))
		return a, nil
	})
}
