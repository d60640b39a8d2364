package patcher

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/status"
)

// Phase orders registrations. Inside phase registration order is kept.
type Phase int

const (
	PhaseStructural Phase = iota
	PhaseCosmetic
	PhaseExecutable
	PhaseFiles
)

func (p Phase) String() string {
	switch p {
	case PhaseStructural:
		return "structural"
	case PhaseCosmetic:
		return "cosmetic"
	case PhaseExecutable:
		return "executable"
	case PhaseFiles:
		return "files"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type RoomPatch func(*State, *RoomContext) error
type ResourcePatch func(*State, *resource.Resource) error
type FilePatch func(*State, *DiscFile) error

type registration struct {
	phase Phase
	name  string

	// room selector
	pak  string
	room resource.Key
	// resource selector
	paks []string
	key  resource.Key
	// file selector
	file string

	roomFn RoomPatch
	resFn  ResourcePatch
	fileFn FilePatch
}

func (r *registration) String() string {
	switch {
	case r.roomFn != nil:
		return fmt.Sprintf("%s [%s %s]", r.name, r.pak, r.room)
	case r.resFn != nil:
		return fmt.Sprintf("%s [%s]", r.name, r.key)
	default:
		return fmt.Sprintf("%s [%s]", r.name, r.file)
	}
}

// Engine applies registered patches to disc. Every registration runs
// exactly once and sees changes made by registrations before it.
type Engine struct {
	State    *State
	Table    resource.Table
	Overflow OverflowPolicy

	regs []*registration
}

func NewEngine(state *State, table resource.Table) *Engine {
	return &Engine{State: state, Table: table}
}

func (e *Engine) Len() int {
	return len(e.regs)
}

func (e *Engine) AddRoomPatch(phase Phase, name string, pak string, room resource.Key, fn RoomPatch) {
	e.regs = append(e.regs, &registration{phase: phase, name: name, pak: pak, room: room, roomFn: fn})
}

// AddResourcePatch runs fn over copy of key in every listed archive carrying it
func (e *Engine) AddResourcePatch(phase Phase, name string, paks []string, key resource.Key, fn ResourcePatch) {
	e.regs = append(e.regs, &registration{phase: phase, name: name, paks: paks, key: key, resFn: fn})
}

func (e *Engine) AddFilePatch(phase Phase, name string, file string, fn FilePatch) {
	e.regs = append(e.regs, &registration{phase: phase, name: name, file: file, fileFn: fn})
}

func (e *Engine) ordered() []*registration {
	regs := append([]*registration(nil), e.regs...)
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].phase < regs[j].phase
	})
	return regs
}

// Run stops at first failing patch, already applied patches stay applied
func (e *Engine) Run(disc *Disc) error {
	regs := e.ordered()
	for i, reg := range regs {
		e.State.Phase = reg.phase
		e.State.Registration = i
		status.Progress(float32(i)/float32(len(regs)), "[%s] %s", reg.phase, reg)

		var err error
		switch {
		case reg.roomFn != nil:
			err = e.runRoom(disc, reg)
		case reg.resFn != nil:
			err = e.runResource(disc, reg)
		case reg.fileFn != nil:
			err = e.runFile(disc, reg)
		}
		if err != nil {
			return errors.Wrapf(err, "[patcher] %s failed", reg)
		}
	}
	status.Progress(1, "Applied %d patches", len(regs))
	return nil
}

func (e *Engine) runRoom(disc *Disc, reg *registration) error {
	a, err := disc.Archive(reg.pak)
	if err != nil {
		return err
	}
	res, ok := a.Find(reg.room)
	if !ok {
		return errors.Errorf("[patcher] Room %s not found in '%s'", reg.room, reg.pak)
	}
	room, err := resource.DecodeAs[*mrea.Room](res)
	if err != nil {
		return err
	}
	return reg.roomFn(e.State, &RoomContext{
		Archive:  a,
		Resource: res,
		Room:     room,
		Table:    e.Table,
		Graph:    NewGraph(room, e.Overflow),
	})
}

func (e *Engine) runResource(disc *Disc, reg *registration) error {
	found := false
	for _, pak := range reg.paks {
		a, err := disc.Archive(pak)
		if err != nil {
			return err
		}
		res, ok := a.Find(reg.key)
		if !ok {
			continue
		}
		found = true
		if _, err := res.Decode(); err != nil {
			return err
		}
		if err := reg.resFn(e.State, res); err != nil {
			return err
		}
	}
	if !found {
		return errors.Errorf("[patcher] Resource %s not found in %v", reg.key, reg.paks)
	}
	return nil
}

func (e *Engine) runFile(disc *Disc, reg *registration) error {
	f, err := disc.File(reg.file)
	if err != nil {
		return err
	}
	return reg.fileFn(e.State, f)
}
