package mrea

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// State is condition of source object that fires connection
type State uint32

const (
	StateActive     State = 0x0
	StateArrived    State = 0x1
	StateClosed     State = 0x2
	StateEntered    State = 0x3
	StateExited     State = 0x4
	StateInactive   State = 0x5
	StateInside     State = 0x6
	StateMaxReached State = 0x7
	StateOpen       State = 0x8
	StateZero       State = 0x9
	StateAttack     State = 0xA
	StateDead       State = 0xE
	StatePlay       State = 0x17
	StateDeactivate State = 0x25
	StateAny        State = 0xFFFFFFFF
)

var stateNames = map[State]string{
	StateActive:     "Active",
	StateArrived:    "Arrived",
	StateClosed:     "Closed",
	StateEntered:    "Entered",
	StateExited:     "Exited",
	StateInactive:   "Inactive",
	StateInside:     "Inside",
	StateMaxReached: "MaxReached",
	StateOpen:       "Open",
	StateZero:       "Zero",
	StateAttack:     "Attack",
	StateDead:       "Dead",
	StatePlay:       "Play",
	StateDeactivate: "Deactivate",
	StateAny:        "Any",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(0x%x)", uint32(s))
}

func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, errors.Errorf("[mrea] Unknown state %q", name)
}

// Message is action delivered to connection target
type Message uint32

const (
	MessageNone          Message = 0x0
	MessageAction        Message = 0x1
	MessageActivate      Message = 0x2
	MessageArrived       Message = 0x3
	MessageClose         Message = 0x4
	MessageDeactivate    Message = 0x5
	MessageDecrement     Message = 0x6
	MessageFollow        Message = 0x7
	MessageIncrement     Message = 0x8
	MessageNext          Message = 0x9
	MessageOpen          Message = 0xA
	MessageReset         Message = 0xB
	MessageResetAndStart Message = 0xC
	MessageSetToMax      Message = 0xD
	MessageSetToZero     Message = 0xE
	MessageStart         Message = 0xF
	MessageStop          Message = 0x10
	MessageStopAndReset  Message = 0x11
	MessageToggleActive  Message = 0x12
)

var messageNames = map[Message]string{
	MessageNone:          "None",
	MessageAction:        "Action",
	MessageActivate:      "Activate",
	MessageArrived:       "Arrived",
	MessageClose:         "Close",
	MessageDeactivate:    "Deactivate",
	MessageDecrement:     "Decrement",
	MessageFollow:        "Follow",
	MessageIncrement:     "Increment",
	MessageNext:          "Next",
	MessageOpen:          "Open",
	MessageReset:         "Reset",
	MessageResetAndStart: "ResetAndStart",
	MessageSetToMax:      "SetToMax",
	MessageSetToZero:     "SetToZero",
	MessageStart:         "Start",
	MessageStop:          "Stop",
	MessageStopAndReset:  "StopAndReset",
	MessageToggleActive:  "ToggleActive",
}

func (m Message) String() string {
	if name, ok := messageNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Message(0x%x)", uint32(m))
}

func ParseMessage(name string) (Message, error) {
	for m, n := range messageNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return 0, errors.Errorf("[mrea] Unknown message %q", name)
}
