package patches

import (
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/assets"
	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/patcher"
)

// RemoveObjectsPatch drops objects and connections leading to them
func RemoveObjectsPatch(ids []uint32) patcher.RoomPatch {
	return func(state *patcher.State, ctx *patcher.RoomContext) error {
		remove := make(map[uint32]bool, len(ids))
		for _, id := range ids {
			ctx.FindAny(id)
			remove[id] = true
		}
		removed := 0
		for layer := range ctx.Room.Layers {
			removed += ctx.Retain(layer, func(o *mrea.SceneObject) bool { return !remove[o.InstanceId] })
		}
		ctx.RemoveConnections(func(_ *mrea.SceneObject, c mrea.Connection) bool { return remove[c.Target] })
		log.Printf("[patches] Removed %d objects", removed)
		return nil
	}
}

// LayerTogglePatch moves objects into disabled layer which is enabled
// when source object reaches configured state
func LayerTogglePatch(lt config.LayerToggleConfig) patcher.RoomPatch {
	return func(state *patcher.State, ctx *patcher.RoomContext) error {
		trigger := mrea.StateEntered
		if lt.State != "" {
			var err error
			if trigger, err = mrea.ParseState(lt.State); err != nil {
				return errors.Wrapf(err, "[patches] Layer toggle '%s'", lt.Layer)
			}
		}
		layer, _, err := ctx.SpliceLayerToggle(state, lt.Source, lt.Layer, trigger, mrea.MessageIncrement)
		if err != nil {
			return err
		}
		for _, id := range lt.Objects {
			ctx.MoveObject(id, layer)
		}
		return nil
	}
}

const startingMemoTime = 5.0

// StartingMemoPatch shows message box shortly after game starts
func StartingMemoPatch(gr *assets.GameResources) patcher.RoomPatch {
	return func(state *patcher.State, ctx *patcher.RoomContext) error {
		memoId := state.NextInstanceId()
		ctx.Push(0, mrea.NewObject(memoId, &mrea.HudMemo{
			Name:        "Starting memo",
			DisplayTime: startingMemoTime,
			MessageType: mrea.HUD_MEMO_MESSAGE_BOX,
			Strg:        gr.StartingMemo,
			Active:      true,
		}))

		timer := mrea.NewObject(state.NextInstanceId(), &mrea.Timer{
			Name:      "Starting memo timer",
			Time:      0.5,
			AutoStart: true,
			Active:    true,
		})
		timer.Connections = []mrea.Connection{{State: mrea.StateZero, Message: mrea.MessageSetToZero, Target: memoId}}
		ctx.Push(0, timer)

		ctx.AddDependencies(0, gr.StartingMemo.Key())
		return nil
	}
}
