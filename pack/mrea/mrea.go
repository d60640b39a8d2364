package mrea

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const (
	MREA_MAGIC   = 0xDEADBEEF
	MREA_VERSION = 0xF

	// MaxLayers is ceiling of layers per room the game can toggle
	MaxLayers = 64
)

type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b Bounds) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

type Layer struct {
	Name    string
	Enabled bool
	Objects []*SceneObject
}

// Room is one area: script layers, per layer dependency lists and opaque geometry.
// DependencyLists always has same length as Layers.
type Room struct {
	Version         uint32
	AreaIndex       uint32
	Bounds          Bounds
	Layers          []*Layer
	DependencyLists [][]resource.Key
	Geometry        []byte
}

func NewFromData(bs *utils.BufStack) (r *Room, err error) {
	defer utils.RecoverBufStack(&err)

	if magic := bs.ReadBU32(); magic != MREA_MAGIC {
		return nil, errors.Errorf("[mrea] Invalid magic 0x%.8x", magic)
	}
	r = &Room{Version: bs.ReadBU32()}
	if r.Version != MREA_VERSION {
		return nil, errors.Errorf("[mrea] Unsupported version 0x%x", r.Version)
	}
	r.AreaIndex = bs.ReadBU32()
	r.Bounds.Min = readVec3(bs)
	r.Bounds.Max = readVec3(bs)

	layersCount := int(bs.ReadBU32())
	if layersCount > MaxLayers {
		return nil, errors.Errorf("[mrea] Too many layers: %d", layersCount)
	}
	r.Layers = make([]*Layer, layersCount)
	for i := range r.Layers {
		l := &Layer{Name: bs.ReadLString(), Enabled: bs.ReadBool()}
		l.Objects = make([]*SceneObject, bs.ReadBU32())
		for j := range l.Objects {
			l.Objects[j] = readObject(bs)
		}
		r.Layers[i] = l
	}

	r.DependencyLists = make([][]resource.Key, layersCount)
	for i := range r.DependencyLists {
		deps := make([]resource.Key, bs.ReadBU32())
		for j := range deps {
			deps[j].Type = resource.FourCC(bs.ReadBU32())
			deps[j].Id = bs.ReadBU32()
		}
		r.DependencyLists[i] = deps
	}

	r.Geometry = bs.ReadCopy(int(bs.ReadBU32()))
	bs.VerifySize(bs.Pos())
	return r, nil
}

func (r *Room) FourCC() resource.FourCC { return resource.MREA }

func (r *Room) Marshal() ([]byte, error) {
	if len(r.Layers) > MaxLayers {
		return nil, errors.Errorf("[mrea] Too many layers: %d", len(r.Layers))
	}
	if len(r.DependencyLists) != len(r.Layers) {
		return nil, errors.Errorf("[mrea] %d dependency lists for %d layers", len(r.DependencyLists), len(r.Layers))
	}

	w := utils.NewWriter()
	w.W32(MREA_MAGIC)
	w.W32(r.Version)
	w.W32(r.AreaIndex)
	writeVec3(w, r.Bounds.Min)
	writeVec3(w, r.Bounds.Max)

	w.W32(uint32(len(r.Layers)))
	for _, l := range r.Layers {
		w.WLString(l.Name)
		w.WBool(l.Enabled)
		w.W32(uint32(len(l.Objects)))
		for _, o := range l.Objects {
			o.marshal(w)
		}
	}
	for _, deps := range r.DependencyLists {
		w.W32(uint32(len(deps)))
		for _, d := range deps {
			w.W32(uint32(d.Type))
			w.W32(d.Id)
		}
	}
	w.W32(uint32(len(r.Geometry)))
	w.Write(r.Geometry)
	return w.Bytes(), nil
}

func (r *Room) Clone() resource.Record {
	c := &Room{
		Version:         r.Version,
		AreaIndex:       r.AreaIndex,
		Bounds:          r.Bounds,
		Layers:          make([]*Layer, len(r.Layers)),
		DependencyLists: make([][]resource.Key, len(r.DependencyLists)),
		Geometry:        append([]byte(nil), r.Geometry...),
	}
	for i, l := range r.Layers {
		cl := &Layer{Name: l.Name, Enabled: l.Enabled, Objects: make([]*SceneObject, len(l.Objects))}
		for j, o := range l.Objects {
			cl.Objects[j] = o.Clone()
		}
		c.Layers[i] = cl
	}
	for i, deps := range r.DependencyLists {
		c.DependencyLists[i] = append([]resource.Key(nil), deps...)
	}
	return c
}

// Dependencies lists resources referenced by object properties, in object order
func (r *Room) Dependencies() []resource.Key {
	seen := make(resource.KeySet)
	deps := make([]resource.Key, 0)
	r.Objects(func(_ int, o *SceneObject) bool {
		for _, d := range o.Property.Dependencies() {
			if !seen.Has(d) {
				seen.Add(d)
				deps = append(deps, d)
			}
		}
		return true
	})
	return deps
}

// Objects iterates every object with its layer index
func (r *Room) Objects(cb func(layer int, o *SceneObject) bool) {
	for i, l := range r.Layers {
		for _, o := range l.Objects {
			if !cb(i, o) {
				return
			}
		}
	}
}

// FindObject returns layer index and object, or -1
func (r *Room) FindObject(id uint32) (int, *SceneObject) {
	for i, l := range r.Layers {
		for _, o := range l.Objects {
			if o.InstanceId == id {
				return i, o
			}
		}
	}
	return -1, nil
}

func (r *Room) HasDependency(layer int, key resource.Key) bool {
	for _, d := range r.DependencyLists[layer] {
		if d == key {
			return true
		}
	}
	return false
}

// MaxInstanceIndex is highest object index of non synthetic object
func (r *Room) MaxInstanceIndex() uint32 {
	var max uint32
	r.Objects(func(_ int, o *SceneObject) bool {
		if !IsSyntheticInstanceId(o.InstanceId) && InstanceIdIndex(o.InstanceId) > max {
			max = InstanceIdIndex(o.InstanceId)
		}
		return true
	})
	return max
}

func init() {
	resource.SetHandler(resource.MREA, func(data []byte) (resource.Record, error) {
		return NewFromData(utils.NewBufStack("mrea", data))
	})
}
