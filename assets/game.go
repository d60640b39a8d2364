package assets

import (
	"log"
	"path"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/catalog"
	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/pack/cmdl"
	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
	"github.com/mogaika/disc_patcher/vfs"
)

// PickupHashKey ties configured placement to resources generated for it.
// PickupIdx is ordinal of pickup, door or scan inside room.
type PickupHashKey struct {
	LevelId   uint32
	RoomId    uint32
	PickupIdx uint32
}

func NewPickupHashKey(level *catalog.Level, room *catalog.Room, idx int) PickupHashKey {
	return PickupHashKey{LevelId: level.WorldId, RoomId: room.Mrea, PickupIdx: uint32(idx)}
}

type ExternModel struct {
	Cmdl         resource.Id[resource.Model]
	Dependencies []resource.Key
}

type GameResources struct {
	Table          resource.Table
	PickupHudmemos map[PickupHashKey]resource.Id[resource.StringTable]
	PickupScans    map[PickupHashKey]ScanIds
	ExtraScans     map[PickupHashKey]ScanIds
	// GlobalScans lists every synthesized scan in creation order
	GlobalScans []ScanIds
	// WorldScans groups synthesized scans by world id for logbook
	WorldScans     map[uint32][]ScanIds
	ScanCategories map[resource.Id[resource.ScanEntry]]uint32
	ExternModels   map[string]ExternModel
	Synthesized    []resource.Key

	NothingModel resource.Id[resource.Model]
	DoorShields  map[string]resource.Id[resource.Model]
	StartingMemo resource.Id[resource.StringTable]
}

func newGameResources() *GameResources {
	return &GameResources{
		PickupHudmemos: make(map[PickupHashKey]resource.Id[resource.StringTable]),
		PickupScans:    make(map[PickupHashKey]ScanIds),
		ExtraScans:     make(map[PickupHashKey]ScanIds),
		WorldScans:     make(map[uint32][]ScanIds),
		ScanCategories: make(map[resource.Id[resource.ScanEntry]]uint32),
		ExternModels:   make(map[string]ExternModel),
		DoorShields:    make(map[string]resource.Id[resource.Model]),
		NothingModel:   resource.Invalid[resource.Model](),
		StartingMemo:   resource.Invalid[resource.StringTable](),
	}
}

func (gr *GameResources) addScan(worldId uint32, ids ScanIds, category uint32) {
	if _, ok := gr.ScanCategories[ids.Scan]; ok {
		return
	}
	gr.ScanCategories[ids.Scan] = category
	gr.GlobalScans = append(gr.GlobalScans, ids)
	gr.WorldScans[worldId] = append(gr.WorldScans[worldId], ids)
}

func usesNothing(cfg *config.PatchConfig) bool {
	for _, l := range cfg.Levels {
		for _, r := range l.Rooms {
			for _, p := range r.Pickups {
				if catalog.IsNothing(p.Type) {
					return true
				}
			}
		}
	}
	return false
}

func shieldColors(cfg *config.PatchConfig) []string {
	seen := make(map[string]bool)
	colors := make([]string, 0)
	for _, l := range cfg.Levels {
		for _, r := range l.Rooms {
			for _, d := range r.Doors {
				if !seen[d.Shield] {
					seen[d.Shield] = true
					colors = append(colors, d.Shield)
				}
			}
		}
	}
	return colors
}

// pickupWants lists shipped resources pickup keeps after customization
func pickupWants(cat *catalog.Catalog, pc config.PickupConfig) []resource.Key {
	pt := cat.PickupType(pc.Type)
	keys := []resource.Key{pt.AncsId().Key()}
	if pc.Model == "" && !catalog.IsNothing(pc.Type) {
		keys = append(keys, pt.ModelId().Key())
	}
	if pc.ScanText == "" {
		keys = append(keys, pt.ScanId().Key())
	}
	if pc.HudmemoText == "" {
		keys = append(keys, pt.HudmemoId().Key())
	}
	valid := keys[:0]
	for _, k := range keys {
		if k.IsValid() {
			valid = append(valid, k)
		}
	}
	return valid
}

// catalogWants lists resources patches take straight from shipped archives
func catalogWants(cat *catalog.Catalog, cfg *config.PatchConfig) resource.KeySet {
	want := make(resource.KeySet)
	for _, l := range cfg.Levels {
		for _, r := range l.Rooms {
			for _, p := range r.Pickups {
				want.Add(pickupWants(cat, p)...)
			}
		}
	}
	want.Add(cat.ScanFrameId().Key())
	if usesNothing(cfg) {
		want.Add(cat.Nothing.ModelId().Key(), cat.Nothing.TextureId().Key())
	}
	if len(shieldColors(cfg)) != 0 {
		want.Add(cat.DoorTemplate.ModelId().Key(), cat.DoorTemplate.TextureId().Key())
	}
	return want
}

func readExtern(dir vfs.Directory, name string) ([]byte, error) {
	if dir == nil {
		return nil, errors.Errorf("[assets] No extern assets directory for '%s'", name)
	}
	return vfs.ReadFile(dir, name)
}

func synthesizeExternModel(s *Synthesizer, dir vfs.Directory, m config.ExternModelConfig) (ExternModel, error) {
	data, err := readExtern(dir, m.Model)
	if err != nil {
		return ExternModel{}, err
	}
	model, err := cmdl.NewFromData(utils.NewBufStack("cmdl", data).SetName(path.Base(m.Model)))
	if err != nil {
		return ExternModel{}, errors.Wrapf(err, "[assets] Extern model '%s'", m.Name)
	}

	slots := make(map[int]resource.Id[resource.Texture], len(m.Textures))
	for i, texName := range m.Textures {
		texData, err := readExtern(dir, texName)
		if err != nil {
			return ExternModel{}, err
		}
		slots[i] = resource.New[resource.Texture](s.Raw(resource.TXTR, texData).Id)
	}
	if err := model.Retexture(slots); err != nil {
		return ExternModel{}, errors.Wrapf(err, "[assets] Extern model '%s'", m.Name)
	}

	id := resource.New[resource.Model](s.NextId(1))
	s.register(resource.Build(id, model))
	return ExternModel{
		Cmdl:         id,
		Dependencies: append([]resource.Key{id.Key()}, model.Dependencies()...),
	}, nil
}

// synthesize creates custom resources in fixed order: templates,
// then level by level room by room pickups, doors and extra scans,
// then starting memo and extern models
func synthesize(s *Synthesizer, gr *GameResources, cat *catalog.Catalog, cfg *config.PatchConfig, startingMemo string, externDir vfs.Directory) error {
	var err error
	if usesNothing(cfg) {
		t := cat.Nothing
		if gr.NothingModel, err = s.RecolorSkin(t.ModelId(), t.Slot, t.TextureId(), t.HueShift); err != nil {
			return err
		}
	}
	for _, color := range shieldColors(cfg) {
		shield := cat.DoorShield(color)
		t := cat.DoorTemplate
		if gr.DoorShields[color], err = s.RecolorSkin(t.ModelId(), t.Slot, t.TextureId(), shield.HueShift); err != nil {
			return err
		}
	}

	for _, lc := range cfg.Levels {
		for _, rc := range lc.Rooms {
			level, room, ok := cat.Room(lc.Name, rc.Name)
			if !ok {
				return errors.Errorf("[assets] Unknown room %s/%s", lc.Name, rc.Name)
			}
			if len(rc.Pickups) > len(room.Pickups) {
				return errors.Errorf("[assets] %s/%s: %d pickups configured, room has %d", lc.Name, rc.Name, len(rc.Pickups), len(room.Pickups))
			}

			for i, pc := range rc.Pickups {
				key := NewPickupHashKey(level, room, i)
				pt := cat.PickupType(pc.Type)

				if pc.HudmemoText != "" {
					gr.PickupHudmemos[key] = s.String(terminate(pc.HudmemoText))
				} else {
					gr.PickupHudmemos[key] = pt.HudmemoId()
				}

				if pc.ScanText != "" {
					ids := s.ScanStringPair(pc.ScanText, "", 0, false)
					gr.PickupScans[key] = ids
					gr.addScan(level.WorldId, ids, 0)
				} else {
					gr.PickupScans[key] = ScanIds{Scan: pt.ScanId(), Strg: resource.Invalid[resource.StringTable]()}
				}
			}

			if len(rc.Doors) > len(room.Doors) {
				return errors.Errorf("[assets] %s/%s: %d doors configured, room has %d", lc.Name, rc.Name, len(rc.Doors), len(room.Doors))
			}

			for i, sc := range rc.ExtraScans {
				ids := s.ScanStringPair(sc.Text, sc.Title, sc.Category, sc.Important)
				gr.ExtraScans[NewPickupHashKey(level, room, i)] = ids
				gr.addScan(level.WorldId, ids, sc.Category)
			}
		}
	}

	if startingMemo != "" {
		gr.StartingMemo = s.String(terminate(startingMemo))
	}

	for _, m := range cfg.ExternModels {
		em, err := synthesizeExternModel(s, externDir, m)
		if err != nil {
			return err
		}
		gr.ExternModels[m.Name] = em
	}
	return nil
}

// CollectGameResources gathers every resource patches may place into rooms.
// Missing resource fails whole run with list of everything missing.
func CollectGameResources(archives []*pack.Archive, externDir vfs.Directory, startingMemo string,
	cfg *config.PatchConfig, cat *catalog.Catalog) (*GameResources, error) {
	want := catalogWants(cat, cfg)

	source, err := CollectClosure(archives, want)
	if err != nil {
		return nil, err
	}

	gr := newGameResources()
	s := NewSynthesizer(cat.SyntheticBase, source, cat.ScanFrameId())
	s.ReserveArchives(archives)
	if err := synthesize(s, gr, cat, cfg, startingMemo, externDir); err != nil {
		return nil, err
	}

	for _, key := range s.Order {
		rec, err := s.Table[key].Decode()
		if err != nil {
			return nil, errors.Wrapf(err, "[assets] Synthesized %s", key)
		}
		for _, dep := range rec.Dependencies() {
			if !s.Table.Has(dep) {
				want.Add(dep)
			}
		}
	}
	for key := range source {
		want.Add(key)
	}

	gr.Table, err = CollectOrFail(archives, want, s.Table)
	if err != nil {
		return nil, err
	}
	gr.Synthesized = s.Order

	log.Printf("[assets] Collected %d resources, %d synthesized (ids 0x%.8x..0x%.8x)",
		len(gr.Table), len(s.Order), cat.SyntheticBase, cat.SyntheticBase+s.Offset())
	return gr, nil
}
