package patcher

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/utils"
)

// OverflowPolicy decides what happens to layer added over mrea.MaxLayers
type OverflowPolicy int

const (
	// OverflowRedirect puts new objects into layer 0
	OverflowRedirect OverflowPolicy = iota
	OverflowReject
)

func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(s) {
	case "", config.LayerOverflowRedirect:
		return OverflowRedirect, nil
	case config.LayerOverflowReject:
		return OverflowReject, nil
	default:
		return OverflowRedirect, errors.Errorf("[patcher] Unknown layer overflow policy %q", s)
	}
}

// Graph edits scene objects of one room
type Graph struct {
	Room     *mrea.Room
	Overflow OverflowPolicy

	names utils.NameGenerator
}

func NewGraph(room *mrea.Room, overflow OverflowPolicy) *Graph {
	g := &Graph{Room: room, Overflow: overflow}
	for _, l := range room.Layers {
		g.names.Reserve(l.Name)
	}
	return g
}

func (g *Graph) Find(layer int, id uint32) *mrea.SceneObject {
	if layer >= 0 && layer < len(g.Room.Layers) {
		for _, o := range g.Room.Layers[layer].Objects {
			if o.InstanceId == id {
				return o
			}
		}
	}
	panic(fmt.Sprintf("[patcher] Object 0x%.8x not found in layer %d", id, layer))
}

// FindAny searches every layer and returns layer index too
func (g *Graph) FindAny(id uint32) (int, *mrea.SceneObject) {
	layer, o := g.Room.FindObject(id)
	if o == nil {
		panic(fmt.Sprintf("[patcher] Object 0x%.8x not found", id))
	}
	return layer, o
}

func (g *Graph) FindBy(pred func(*mrea.SceneObject) bool) (*mrea.SceneObject, bool) {
	var found *mrea.SceneObject
	g.Room.Objects(func(_ int, o *mrea.SceneObject) bool {
		if pred(o) {
			found = o
			return false
		}
		return true
	})
	return found, found != nil
}

// Retain keeps objects of layer matching pred, returns count of removed
func (g *Graph) Retain(layer int, pred func(*mrea.SceneObject) bool) int {
	l := g.Room.Layers[layer]
	kept := l.Objects[:0]
	for _, o := range l.Objects {
		if pred(o) {
			kept = append(kept, o)
		}
	}
	removed := len(l.Objects) - len(kept)
	for i := len(kept); i < len(l.Objects); i++ {
		l.Objects[i] = nil
	}
	l.Objects = kept
	return removed
}

func (g *Graph) LayerByName(name string) (int, bool) {
	for i, l := range g.Room.Layers {
		if strings.EqualFold(l.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// AddLayer appends enabled empty layer. Layer without name gets
// generated one. Over layer limit result depends on Overflow policy.
func (g *Graph) AddLayer(name string) (int, error) {
	if len(g.Room.Layers) >= mrea.MaxLayers {
		if g.Overflow == OverflowReject {
			return -1, errors.Errorf("[patcher] Room already has %d layers, cannot add '%s'", len(g.Room.Layers), name)
		}
		log.Printf("[WARNING] [patcher] Room has %d layers, layer '%s' redirected to layer 0", len(g.Room.Layers), name)
		return 0, nil
	}
	if name == "" {
		name = g.names.RandomName()
	} else {
		g.names.Reserve(name)
	}
	g.Room.Layers = append(g.Room.Layers, &mrea.Layer{Name: name, Enabled: true})
	g.Room.DependencyLists = append(g.Room.DependencyLists, nil)
	return len(g.Room.Layers) - 1, nil
}

// Push adds object to layer, instance id must be unused in room
func (g *Graph) Push(layer int, o *mrea.SceneObject) {
	if _, existing := g.Room.FindObject(o.InstanceId); existing != nil {
		panic(fmt.Sprintf("[patcher] Object 0x%.8x already present", o.InstanceId))
	}
	l := g.Room.Layers[layer]
	l.Objects = append(l.Objects, o)
}

// Rewire appends connection to every object matching pred, returns count of changed objects
func (g *Graph) Rewire(pred func(*mrea.SceneObject) bool, c mrea.Connection) int {
	count := 0
	g.Room.Objects(func(_ int, o *mrea.SceneObject) bool {
		if pred(o) && !o.HasConnection(c) {
			o.Connections = append(o.Connections, c)
			count++
		}
		return true
	})
	return count
}

// RemoveConnections drops connections matching pred, returns count of removed
func (g *Graph) RemoveConnections(pred func(src *mrea.SceneObject, c mrea.Connection) bool) int {
	count := 0
	g.Room.Objects(func(_ int, o *mrea.SceneObject) bool {
		kept := o.Connections[:0]
		for _, c := range o.Connections {
			if pred(o, c) {
				count++
			} else {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			o.Connections = nil
		} else {
			o.Connections = kept
		}
		return true
	})
	return count
}

// MoveObject transfers object into layer together with dependencies
// it declared in old layer
func (g *Graph) MoveObject(id uint32, layer int) {
	from, o := g.FindAny(id)
	if from == layer {
		return
	}
	src := g.Room.Layers[from]
	for i, so := range src.Objects {
		if so == o {
			src.Objects = append(src.Objects[:i], src.Objects[i+1:]...)
			break
		}
	}
	dst := g.Room.Layers[layer]
	dst.Objects = append(dst.Objects, o)

	for _, dep := range o.Property.Dependencies() {
		if g.Room.HasDependency(from, dep) && !g.Room.HasDependency(layer, dep) {
			g.Room.DependencyLists[layer] = append(g.Room.DependencyLists[layer], dep)
		}
	}
}

// SpliceLayerToggle hides layer behind event of source object. Layer is
// created disabled unless it already exists, controller object is added
// to layer 0 and source is wired to it with trigger/msg connection.
func (g *Graph) SpliceLayerToggle(state *State, source uint32, layerName string,
	trigger mrea.State, msg mrea.Message) (int, uint32, error) {
	_, src := g.FindAny(source)

	layer, exists := g.LayerByName(layerName)
	if !exists {
		var err error
		if layer, err = g.AddLayer(layerName); err != nil {
			return -1, 0, err
		}
		if layer != 0 {
			g.Room.Layers[layer].Enabled = false
		}
	}

	fnId := state.NextInstanceId()
	g.Push(0, mrea.NewObject(fnId, &mrea.SpecialFunction{
		Name:       fmt.Sprintf("Layer controller %s", g.Room.Layers[layer].Name),
		Function:   mrea.FunctionScriptLayerController,
		LayerRoom:  g.Room.AreaIndex,
		LayerIndex: uint32(layer),
		Active:     true,
	}))

	c := mrea.Connection{State: trigger, Message: msg, Target: fnId}
	if !src.HasConnection(c) {
		src.Connections = append(src.Connections, c)
	}
	return layer, fnId, nil
}
