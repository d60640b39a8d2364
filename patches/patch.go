package patches

import (
	"fmt"
	"log"
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/assets"
	"github.com/mogaika/disc_patcher/catalog"
	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/patcher"
	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/status"
	"github.com/mogaika/disc_patcher/utils"
	"github.com/mogaika/disc_patcher/vfs"
)

// Patch applies cfg to disc tree in and writes patched tree into out
func Patch(cfg *config.PatchConfig, in vfs.Directory, out vfs.Directory) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	var extern vfs.Directory
	if cfg.ExternAssetsDir != "" {
		extern = vfs.NewDirectoryDriver(cfg.ExternAssetsDir)
	}
	return PatchWithCatalog(cfg, cat, in, out, extern)
}

// PatchWithCatalog runs every stage in memory, out is written only when all of them succeeded
func PatchWithCatalog(cfg *config.PatchConfig, cat *catalog.Catalog, in, out, extern vfs.Directory) error {
	status.Info("Checking disc")
	ver, err := DetectVersion(in, cat)
	if err != nil {
		return err
	}
	status.Info("Detected %s", ver.Name)

	overflow, err := patcher.ParseOverflowPolicy(cfg.LayerOverflow)
	if err != nil {
		return err
	}

	disc := patcher.NewDisc(in)
	archives := make([]*pack.Archive, 0)
	for _, name := range cat.Paks() {
		a, err := disc.Archive(name)
		if err != nil {
			return err
		}
		archives = append(archives, a)
	}

	status.Info("Collecting resources")
	gr, err := assets.CollectGameResources(archives, extern, cfg.StartingMemo, cfg, cat)
	if err != nil {
		return err
	}

	floor, err := instanceIdFloor(disc, cfg, cat)
	if err != nil {
		return err
	}
	engine := patcher.NewEngine(patcher.NewState(floor), gr.Table)
	engine.Overflow = overflow
	register(engine, cfg, cat, ver, gr, extern)

	status.Info("Applying %d patches", engine.Len())
	if err := engine.Run(disc); err != nil {
		return err
	}

	status.Info("Validating")
	if err := gr.Table.Validate(); err != nil {
		return err
	}
	if err := validateRooms(disc, gr.Table); err != nil {
		return err
	}

	status.Info("Serializing")
	patched, err := disc.Serialize()
	if err != nil {
		return err
	}

	status.Info("Writing %d patched files", len(patched))
	if err := writeDisc(in, out, patched); err != nil {
		return err
	}
	marker := fmt.Sprintf("disc_patcher\n%s\n", ver.Name)
	if err := vfs.WriteFile(out, cat.PatchedMarker, []byte(marker)); err != nil {
		return errors.Wrapf(err, "[patches] Cannot write marker")
	}
	status.Info("Done")
	return nil
}

func configuredRooms(cfg *config.PatchConfig, cat *catalog.Catalog, cb func(*catalog.Level, *catalog.Room, config.RoomConfig)) {
	for _, lc := range cfg.Levels {
		for _, rc := range lc.Rooms {
			level, room, ok := cat.Room(lc.Name, rc.Name)
			if !ok {
				panic(fmt.Sprintf("[patches] Unknown room %s/%s", lc.Name, rc.Name))
			}
			cb(level, room, rc)
		}
	}
}

// instanceIdFloor decodes every room patches may touch
func instanceIdFloor(disc *patcher.Disc, cfg *config.PatchConfig, cat *catalog.Catalog) (uint32, error) {
	rooms := make([]*mrea.Room, 0)
	var err error
	collect := func(pak string, key resource.Key) {
		if err != nil {
			return
		}
		var a *pack.Archive
		if a, err = disc.Archive(pak); err != nil {
			return
		}
		res, ok := a.Find(key)
		if !ok {
			err = errors.Errorf("[patches] Room %s not found in '%s'", key, pak)
			return
		}
		var room *mrea.Room
		if room, err = resource.DecodeAs[*mrea.Room](res); err == nil {
			rooms = append(rooms, room)
		}
	}
	configuredRooms(cfg, cat, func(level *catalog.Level, room *catalog.Room, _ config.RoomConfig) {
		collect(level.Pak, room.Key())
	})
	if cfg.StartingMemo != "" {
		level, room, _ := cat.Room(cat.StartingRoom.Level, cat.StartingRoom.Room)
		collect(level.Pak, room.Key())
	}
	if err != nil {
		return 0, err
	}
	return patcher.SafeInstanceIdFloor(rooms), nil
}

func register(e *patcher.Engine, cfg *config.PatchConfig, cat *catalog.Catalog, ver *catalog.Version,
	gr *assets.GameResources, extern vfs.Directory) {
	configuredRooms(cfg, cat, func(level *catalog.Level, room *catalog.Room, rc config.RoomConfig) {
		name := func(what string, i int) string {
			return fmt.Sprintf("%s %d in %s", what, i, room.Name)
		}
		for i, pc := range rc.Pickups {
			key := assets.NewPickupHashKey(level, room, i)
			e.AddRoomPatch(patcher.PhaseStructural, name("pickup", i), level.Pak, room.Key(),
				PickupPatch(gr, cat, key, room.Pickups[i], pc))
		}
		for i, dc := range rc.Doors {
			e.AddRoomPatch(patcher.PhaseCosmetic, name("door", i), level.Pak, room.Key(),
				DoorPatch(gr, cat, room.Doors[i], dc.Shield))
		}
		for i, sc := range rc.ExtraScans {
			key := assets.NewPickupHashKey(level, room, i)
			e.AddRoomPatch(patcher.PhaseStructural, name("scan", i), level.Pak, room.Key(),
				ExtraScanPatch(gr, key, sc))
		}
		if len(rc.RemoveObjects) != 0 {
			e.AddRoomPatch(patcher.PhaseStructural, name("removal", 0), level.Pak, room.Key(),
				RemoveObjectsPatch(rc.RemoveObjects))
		}
		for i, lt := range rc.LayerToggles {
			e.AddRoomPatch(patcher.PhaseStructural, name("layer toggle", i), level.Pak, room.Key(),
				LayerTogglePatch(lt))
		}
	})

	if cfg.StartingMemo != "" {
		level, room, _ := cat.Room(cat.StartingRoom.Level, cat.StartingRoom.Room)
		e.AddRoomPatch(patcher.PhaseStructural, "starting memo", level.Pak, room.Key(), StartingMemoPatch(gr))
	}

	for i := range cat.Levels {
		level := &cat.Levels[i]
		if scans := gr.WorldScans[level.WorldId]; len(scans) != 0 {
			e.AddResourcePatch(patcher.PhaseCosmetic, "logbook of "+level.Name, []string{level.Pak},
				resource.Key{Id: level.SaveWorld, Type: resource.SAVW}, WorldScanListPatch(gr, scans))
		}
	}

	if cfg.StartingVisor != "" || cfg.StartingMissiles != nil {
		e.AddFilePatch(patcher.PhaseExecutable, "executable", cat.Executable, DolPatches(cat, ver, cfg))
	}
	if !cfg.Banner.IsEmpty() {
		e.AddFilePatch(patcher.PhaseFiles, "banner", cat.Banner, BannerPatch(cfg.Banner))
	}
	for _, fs := range cfg.FileSubstitutions {
		e.AddFilePatch(patcher.PhaseFiles, "substitute "+fs.Disc, fs.Disc, FileSubstitutionPatch(extern, fs.Source))
	}
}

// validateRooms checks every room decoded during run
func validateRooms(disc *patcher.Disc, table resource.Table) error {
	for _, name := range disc.ArchiveNames() {
		a, err := disc.Archive(name)
		if err != nil {
			return err
		}
		for _, res := range a.Rooms() {
			room, ok := res.Kind.(*mrea.Room)
			if !ok {
				continue
			}
			if err := patcher.ValidateRoom(res.Key(), room, table); err != nil {
				if verr, ok := err.(*patcher.RoomValidationError); ok {
					log.Printf("[patches] Validation failed in '%s':\n%s", name, utils.SDump(verr.Problems))
				}
				return err
			}
		}
	}
	return nil
}

// writeDisc copies in to out, replacing patched files
func writeDisc(in, out vfs.Directory, patched map[string][]byte) error {
	files, err := vfs.Walk(in)
	if err != nil {
		return errors.Wrapf(err, "[patches] Cannot list disc")
	}
	for _, name := range files {
		if _, ok := patched[name]; ok {
			continue
		}
		data, err := vfs.ReadFile(in, name)
		if err != nil {
			return err
		}
		if err := vfs.WriteFile(out, name, data); err != nil {
			return errors.Wrapf(err, "[patches] Cannot write '%s'", name)
		}
	}
	names := make([]string, 0, len(patched))
	for name := range patched {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := vfs.WriteFile(out, name, patched[name]); err != nil {
			return errors.Wrapf(err, "[patches] Cannot write '%s'", name)
		}
	}
	return nil
}
