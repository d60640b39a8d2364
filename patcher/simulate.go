package patcher

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/pack/mrea"
)

type delivery struct {
	source uint32
	state  mrea.State
}

// Simulate fires state of source object and delivers messages inside
// room. Layer controllers switch layers, relays pass SetToZero on as
// Zero state. Returns ids of objects that received messages.
func Simulate(room *mrea.Room, source uint32, state mrea.State) ([]uint32, error) {
	if _, o := room.FindObject(source); o == nil {
		return nil, errors.Errorf("[patcher] Simulation source 0x%.8x not found", source)
	}

	received := make([]uint32, 0)
	fired := make(map[delivery]bool)
	queue := []delivery{{source: source, state: state}}
	for len(queue) != 0 {
		d := queue[0]
		queue = queue[1:]
		if fired[d] {
			continue
		}
		fired[d] = true

		_, src := room.FindObject(d.source)
		for _, c := range src.Connections {
			if c.State != d.state && c.State != mrea.StateAny {
				continue
			}
			_, target := room.FindObject(c.Target)
			if target == nil {
				continue
			}
			received = append(received, target.InstanceId)

			switch p := target.Property.(type) {
			case *mrea.SpecialFunction:
				if p.Function != mrea.FunctionScriptLayerController || p.LayerRoom != room.AreaIndex {
					break
				}
				if int(p.LayerIndex) >= len(room.Layers) {
					return received, errors.Errorf("[patcher] %s controls missing layer %d", target, p.LayerIndex)
				}
				switch c.Message {
				case mrea.MessageIncrement, mrea.MessageActivate:
					room.Layers[p.LayerIndex].Enabled = true
				case mrea.MessageDecrement, mrea.MessageDeactivate:
					room.Layers[p.LayerIndex].Enabled = false
				}
			case *mrea.Relay:
				if c.Message == mrea.MessageSetToZero {
					queue = append(queue, delivery{source: target.InstanceId, state: mrea.StateZero})
				}
			}
		}
	}
	return received, nil
}
