package patcher

import (
	"fmt"
	"strings"

	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/resource"
)

type RoomValidationError struct {
	Room     resource.Key
	Problems []string
}

func (e *RoomValidationError) Error() string {
	return fmt.Sprintf("[patcher] Room %s invalid: %s", e.Room, strings.Join(e.Problems, "; "))
}

// ValidateRoom checks that every resource referenced by objects is
// declared in room dependency lists and every connection target
// resolves. Target outside of room area is forward reference to other
// room and is allowed, synthetic objects always live in same room.
func ValidateRoom(key resource.Key, room *mrea.Room, table resource.Table) error {
	declared := make(resource.KeySet)
	for _, deps := range room.DependencyLists {
		declared.Add(deps...)
	}

	problems := make([]string, 0)
	for layer, deps := range DeriveDependencies(room, table) {
		for _, dep := range deps {
			if !declared.Has(dep) {
				problems = append(problems, fmt.Sprintf("layer %d: %s is not declared", layer, dep))
			}
		}
	}

	room.Objects(func(_ int, o *mrea.SceneObject) bool {
		for _, c := range o.Connections {
			if _, target := room.FindObject(c.Target); target != nil {
				continue
			}
			if !mrea.IsSyntheticInstanceId(c.Target) && mrea.InstanceIdArea(c.Target) != room.AreaIndex {
				continue
			}
			problems = append(problems, fmt.Sprintf("%s: connection %s is dangling", o, c))
		}
		return true
	})

	if len(problems) != 0 {
		return &RoomValidationError{Room: key, Problems: problems}
	}
	return nil
}
