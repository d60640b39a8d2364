package assets

import (
	"fmt"
	"strings"

	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/resource"
)

// Collect copies every wanted resource out of archives, first archive wins.
// Synthesized resources are added afterwards. Returns what is still missing.
func Collect(archives []*pack.Archive, want resource.KeySet, synthesized resource.Table) (resource.Table, resource.KeySet) {
	remaining := make(resource.KeySet, len(want))
	for k := range want {
		remaining.Add(k)
	}

	table := make(resource.Table, len(want))
	for _, a := range archives {
		for _, r := range a.Resources {
			if remaining.Has(r.Key()) {
				remaining.Remove(r.Key())
				table.Add(r.Clone())
			}
		}
	}
	for _, key := range synthesized.Keys() {
		table.Add(synthesized[key])
		remaining.Remove(key)
	}
	return table, remaining
}

type MissingResourcesError struct {
	Missing []resource.Key
}

func (e *MissingResourcesError) Error() string {
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = k.String()
	}
	return fmt.Sprintf("[assets] %d resources not found: %s", len(e.Missing), strings.Join(names, ", "))
}

func CollectOrFail(archives []*pack.Archive, want resource.KeySet, synthesized resource.Table) (resource.Table, error) {
	table, remaining := Collect(archives, want, synthesized)
	if len(remaining) != 0 {
		return nil, &MissingResourcesError{Missing: remaining.Sorted()}
	}
	return table, nil
}

// CollectClosure collects want and everything collected records depend on
func CollectClosure(archives []*pack.Archive, want resource.KeySet) (resource.Table, error) {
	all := make(resource.KeySet, len(want))
	all.Add(want.Sorted()...)

	for {
		table, err := CollectOrFail(archives, all, nil)
		if err != nil {
			return nil, err
		}
		grown := false
		for _, key := range table.Keys() {
			if !resource.HasHandler(key.Type) {
				continue
			}
			rec, err := table[key].Decode()
			if err != nil {
				return nil, err
			}
			for _, dep := range rec.Dependencies() {
				if !all.Has(dep) {
					all.Add(dep)
					grown = true
				}
			}
		}
		if !grown {
			return table, nil
		}
	}
}
