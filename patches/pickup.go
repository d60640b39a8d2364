package patches

import (
	"fmt"
	"log"

	"github.com/mogaika/disc_patcher/assets"
	"github.com/mogaika/disc_patcher/catalog"
	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/patcher"
	"github.com/mogaika/disc_patcher/resource"
)

const pickupMemoTime = 3.0

// PickupPatch turns pickup at loc into configured type. "Nothing" becomes
// health refill that gives nothing. Pickup shows its hudmemo on pick up.
func PickupPatch(gr *assets.GameResources, cat *catalog.Catalog, key assets.PickupHashKey,
	loc catalog.PickupLocation, pc config.PickupConfig) patcher.RoomPatch {
	pt := cat.PickupType(pc.Type)

	return func(state *patcher.State, ctx *patcher.RoomContext) error {
		layer, obj := ctx.FindAny(loc.Object)
		p, ok := obj.Pickup()
		if !ok {
			panic(fmt.Sprintf("[patches] %s is not a pickup", obj))
		}

		deps := make([]resource.Key, 0, 8)

		p.Kind = pt.Kind
		p.CurrIncrease = pt.CurrIncrease
		p.MaxIncrease = pt.MaxIncrease
		p.Model = pt.ModelId()
		p.Ancs = pt.AncsId()
		if catalog.IsNothing(pc.Type) {
			p.Kind = catalog.KindHealthRefill
			p.CurrIncrease = 0
			p.MaxIncrease = 0
			p.Model = gr.NothingModel
		}
		if pc.CurrIncrease != nil {
			p.CurrIncrease = int32(*pc.CurrIncrease)
		}
		if pc.MaxIncrease != nil {
			p.MaxIncrease = int32(*pc.MaxIncrease)
		}
		if pc.Model != "" {
			em, ok := gr.ExternModels[pc.Model]
			if !ok {
				panic(fmt.Sprintf("[patches] Unknown extern model %q", pc.Model))
			}
			p.Model = em.Cmdl
			p.Ancs = resource.Invalid[resource.Animation]()
			deps = append(deps, em.Dependencies...)
		}

		scan, ok := gr.PickupScans[key]
		if !ok {
			panic(fmt.Sprintf("[patches] No scan for pickup %+v", key))
		}
		p.Scan = scan.Scan
		deps = append(deps, p.Model.Key(), p.Ancs.Key(), scan.Scan.Key(), scan.Strg.Key())

		if strg := gr.PickupHudmemos[key]; strg.IsValid() {
			deps = append(deps, retargetHudmemo(state, ctx, layer, obj, loc.Hudmemo, strg, pt.Name))
		}

		ctx.AddDependencies(layer, deps...)
		log.Printf("[patches] Pickup 0x%.8x is now %s", loc.Object, pt.Name)
		return nil
	}
}

// retargetHudmemo points existing hudmemo to strg or creates new one,
// pickup shows it on arrival
func retargetHudmemo(state *patcher.State, ctx *patcher.RoomContext, layer int, pickup *mrea.SceneObject,
	memoId uint32, strg resource.Id[resource.StringTable], name string) resource.Key {
	if _, memoObj := ctx.Room.FindObject(memoId); memoObj != nil {
		memo, ok := memoObj.HudMemo()
		if !ok {
			panic(fmt.Sprintf("[patches] %s is not a hudmemo", memoObj))
		}
		memo.Strg = strg
	} else {
		memoId = state.NextInstanceId()
		ctx.Push(layer, mrea.NewObject(memoId, &mrea.HudMemo{
			Name:        fmt.Sprintf("%s hudmemo", name),
			DisplayTime: pickupMemoTime,
			MessageType: mrea.HUD_MEMO_STATUS_MESSAGE,
			Strg:        strg,
			Active:      true,
		}))
	}
	c := mrea.Connection{State: mrea.StateArrived, Message: mrea.MessageSetToZero, Target: memoId}
	if !pickup.HasConnection(c) {
		pickup.Connections = append(pickup.Connections, c)
	}
	return strg.Key()
}

// DoorPatch puts recolored shield on door
func DoorPatch(gr *assets.GameResources, cat *catalog.Catalog, door uint32, shield string) patcher.RoomPatch {
	cat.DoorShield(shield)

	return func(state *patcher.State, ctx *patcher.RoomContext) error {
		model, ok := gr.DoorShields[shield]
		if !ok {
			panic(fmt.Sprintf("[patches] Shield %q was not synthesized", shield))
		}
		layer, obj := ctx.FindAny(door)
		d, ok := obj.Door()
		if !ok {
			panic(fmt.Sprintf("[patches] %s is not a door", obj))
		}
		d.ShieldModel = model
		ctx.AddDependencies(layer, model.Key())
		return nil
	}
}

// ExtraScanPatch places scannable point with synthesized text
func ExtraScanPatch(gr *assets.GameResources, key assets.PickupHashKey, sc config.ScanConfig) patcher.RoomPatch {
	return func(state *patcher.State, ctx *patcher.RoomContext) error {
		ids, ok := gr.ExtraScans[key]
		if !ok {
			panic(fmt.Sprintf("[patches] No extra scan %+v", key))
		}
		poi := &mrea.PointOfInterest{
			Name:      "Extra scan",
			Scan:      ids.Scan,
			PointSize: 1,
			Active:    true,
		}
		poi.Transform.Position = sc.Position
		poi.Transform.Scale = [3]float32{1, 1, 1}
		ctx.Push(0, mrea.NewObject(state.NextInstanceId(), poi))
		ctx.AddDependencies(0, ids.Keys()...)
		return nil
	}
}
