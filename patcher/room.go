package patcher

import (
	"fmt"

	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/resource"
)

// RoomContext is target of room patch
type RoomContext struct {
	Archive  *pack.Archive
	Resource *resource.Resource
	Room     *mrea.Room
	Table    resource.Table
	*Graph
}

// closure returns key followed by everything its record refers to.
// Keys absent from table are returned without expansion.
func closure(table resource.Table, keys []resource.Key) []resource.Key {
	seen := make(resource.KeySet)
	result := make([]resource.Key, 0, len(keys))
	var walk func(k resource.Key)
	walk = func(k resource.Key) {
		if seen.Has(k) {
			return
		}
		seen.Add(k)
		result = append(result, k)
		if !resource.HasHandler(k.Type) {
			return
		}
		rec, err := table.Record(k)
		if err != nil {
			return
		}
		for _, dep := range rec.Dependencies() {
			walk(dep)
		}
	}
	for _, k := range keys {
		walk(k)
	}
	return result
}

// AddDependencies declares keys and resources they refer to in layer
// dependency list. Resources archive do not carry are copied from table.
// Calling it again with same keys changes nothing.
func (ctx *RoomContext) AddDependencies(layer int, keys ...resource.Key) {
	if layer < 0 || layer >= len(ctx.Room.DependencyLists) {
		panic(fmt.Sprintf("[patcher] Layer %d out of range", layer))
	}
	for _, key := range closure(ctx.Table, keys) {
		if !key.IsValid() {
			continue
		}
		if _, ok := ctx.Archive.Find(key); !ok {
			ctx.Archive.Add(ctx.Table.MustGet(key).Clone())
		}
		if !ctx.Room.HasDependency(layer, key) {
			ctx.Room.DependencyLists[layer] = append(ctx.Room.DependencyLists[layer], key)
		}
	}
}

// DeriveDependencies computes per layer dependency lists from object
// properties, expanding resources known to table
func DeriveDependencies(room *mrea.Room, table resource.Table) [][]resource.Key {
	result := make([][]resource.Key, len(room.Layers))
	for i, l := range room.Layers {
		keys := make([]resource.Key, 0)
		for _, o := range l.Objects {
			keys = append(keys, o.Property.Dependencies()...)
		}
		result[i] = closure(table, keys)
	}
	return result
}
