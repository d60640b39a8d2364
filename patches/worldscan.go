package patches

import (
	"github.com/mogaika/disc_patcher/assets"
	"github.com/mogaika/disc_patcher/pack/savw"
	"github.com/mogaika/disc_patcher/patcher"
	"github.com/mogaika/disc_patcher/resource"
)

// WorldScanListPatch registers synthesized scans in world logbook
func WorldScanListPatch(gr *assets.GameResources, scans []assets.ScanIds) patcher.ResourcePatch {
	return func(state *patcher.State, r *resource.Resource) error {
		ws, err := resource.DecodeAs[*savw.WorldSave](r)
		if err != nil {
			return err
		}
		for _, ids := range scans {
			ws.AddScan(ids.Scan, gr.ScanCategories[ids.Scan])
		}
		return nil
	}
}
