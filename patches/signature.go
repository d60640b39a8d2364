package patches

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/catalog"
	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/vfs"
)

const (
	BOOT_GAME_ID_SIZE    = 6
	BOOT_REVISION_OFFSET = 7
)

var gameVersions = []config.GameVersion{
	config.VersionNtsc0_00, config.VersionNtsc0_01, config.VersionNtsc0_02, config.VersionPal,
}

// DetectVersion reads game id and revision from boot info and finds
// matching catalog version. Disc patched before is rejected.
func DetectVersion(disc vfs.Directory, cat *catalog.Catalog) (*catalog.Version, error) {
	if _, err := vfs.Lookup(disc, cat.PatchedMarker); err == nil {
		return nil, errors.Errorf("[patches] Disc is already patched ('%s' present)", cat.PatchedMarker)
	}

	boot, err := vfs.ReadFile(disc, cat.BootInfo)
	if err != nil {
		return nil, errors.Wrapf(err, "[patches] Cannot read boot info")
	}
	if len(boot) <= BOOT_REVISION_OFFSET {
		return nil, errors.Errorf("[patches] Boot info too small: %d bytes", len(boot))
	}

	ver, err := cat.Version(string(boot[:BOOT_GAME_ID_SIZE]), boot[BOOT_REVISION_OFFSET])
	if err != nil {
		return nil, err
	}

	config.SetGameVersion(config.VersionUnknown)
	for _, v := range gameVersions {
		if strings.EqualFold(v.String(), ver.Name) {
			config.SetGameVersion(v)
		}
	}
	return ver, nil
}
