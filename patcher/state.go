package patcher

import (
	"fmt"

	"github.com/mogaika/disc_patcher/pack/mrea"
)

const instanceCounterMask = 0x00FFFFFF

// State is shared by every patch of one run
type State struct {
	counter uint32

	// Phase and Registration of callback being executed
	Phase        Phase
	Registration int

	// Counters is scratch space for patches that count things across rooms
	Counters map[string]int
}

// NewState starts instance id allocation at floor. Floor must be above
// every instance index already used on disc, see SafeInstanceIdFloor.
func NewState(floor uint32) *State {
	if floor > instanceCounterMask {
		panic(fmt.Sprintf("[patcher] Instance id floor 0x%x does not fit 24 bits", floor))
	}
	return &State{
		counter:  floor,
		Counters: make(map[string]int),
	}
}

// NextInstanceId returns fresh object id tagged as synthetic
func (s *State) NextInstanceId() uint32 {
	if s.counter > instanceCounterMask {
		panic("[patcher] Synthetic instance ids exhausted")
	}
	id := uint32(mrea.SYNTHETIC_ID_TAG)<<24 | s.counter
	s.counter++
	return id
}

// SafeInstanceIdFloor is first counter value no original object index can reach
func SafeInstanceIdFloor(rooms []*mrea.Room) uint32 {
	var floor uint32
	for _, r := range rooms {
		if idx := r.MaxInstanceIndex() + 1; idx > floor {
			floor = idx
		}
	}
	return floor
}
