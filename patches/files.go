package patches

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/banner"
	"github.com/mogaika/disc_patcher/catalog"
	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/dol"
	"github.com/mogaika/disc_patcher/patcher"
	"github.com/mogaika/disc_patcher/vfs"
)

const (
	SYMBOL_STARTING_VISOR    = "startingVisor"
	SYMBOL_STARTING_MISSILES = "startingMissiles"
	VISOR_REGISTER           = 0
)

// DolPatches changes starting visor and missiles in executable
func DolPatches(cat *catalog.Catalog, ver *catalog.Version, cfg *config.PatchConfig) patcher.FilePatch {
	return func(state *patcher.State, f *patcher.DiscFile) error {
		exe, err := dol.Parse(f.Data)
		if err != nil {
			return err
		}
		p := dol.NewPatcher(exe, ver.Symbols)

		if cfg.StartingVisor != "" {
			visor, ok := cat.Visors[cfg.StartingVisor]
			if !ok {
				return errors.Errorf("[patches] Unknown visor %q", cfg.StartingVisor)
			}
			if err := p.PatchInstructionsAtSymbol(SYMBOL_STARTING_VISOR,
				[]uint32{dol.LoadImmediate(VISOR_REGISTER, int16(visor))}); err != nil {
				return err
			}
		}
		if m := cfg.StartingMissiles; m != nil {
			if *m < 0 || *m > 0xFF {
				return errors.Errorf("[patches] Starting missiles %d out of range", *m)
			}
			if err := p.PatchBytesAtSymbol(SYMBOL_STARTING_MISSILES, []byte{byte(*m)}); err != nil {
				return err
			}
		}
		f.Data = exe.Bytes()
		return nil
	}
}

func BannerPatch(bc config.BannerConfig) patcher.FilePatch {
	return func(state *patcher.State, f *patcher.DiscFile) error {
		bnr, err := banner.Parse(f.Data)
		if err != nil {
			return err
		}
		bnr.SetText(bc.GameName, bc.Maker, bc.FullGameName, bc.FullMaker, bc.Description)
		f.Data = bnr.Marshal()
		return nil
	}
}

// FileSubstitutionPatch replaces disc file with file from extern directory
func FileSubstitutionPatch(extern vfs.Directory, source string) patcher.FilePatch {
	return func(state *patcher.State, f *patcher.DiscFile) error {
		if extern == nil {
			return errors.Errorf("[patches] No extern assets directory for '%s'", source)
		}
		data, err := vfs.ReadFile(extern, source)
		if err != nil {
			return errors.Wrapf(err, "[patches] Substitute for '%s'", f.Path)
		}
		f.Data = data
		return nil
	}
}
