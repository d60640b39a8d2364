package resource

import (
	"fmt"
	"sort"
)

const InvalidId uint32 = 0xFFFFFFFF

// Id is resource id typed by kind. Comparison ignores kind, use Equal
// to compare ids of different kinds.
type Id[K Kind] uint32

func New[K Kind](v uint32) Id[K] {
	return Id[K](v)
}

func Invalid[K Kind]() Id[K] {
	return Id[K](InvalidId)
}

func (id Id[K]) U32() uint32 {
	return uint32(id)
}

func (id Id[K]) IsValid() bool {
	return uint32(id) != InvalidId
}

func (id Id[K]) Type() FourCC {
	var k K
	return k.FourCC()
}

func (id Id[K]) Key() Key {
	return Key{Id: uint32(id), Type: id.Type()}
}

func (id Id[K]) Equal(other interface{ U32() uint32 }) bool {
	return uint32(id) == other.U32()
}

// Offset derives id relative to base, like n-th scan of world
func (id Id[K]) Offset(n uint32) Id[K] {
	return Id[K](uint32(id) + n)
}

func (id Id[K]) String() string {
	return fmt.Sprintf("%s:%08X", id.Type(), uint32(id))
}

// Key identifies resource in table and in dependency lists
type Key struct {
	Id   uint32
	Type FourCC
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%08X", k.Type, k.Id)
}

func (k Key) IsValid() bool {
	return k.Id != InvalidId
}

func (k Key) Less(o Key) bool {
	if k.Id != o.Id {
		return k.Id < o.Id
	}
	return k.Type < o.Type
}

func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

type KeySet map[Key]struct{}

func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	s.Add(keys...)
	return s
}

func (s KeySet) Add(keys ...Key) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

func (s KeySet) Remove(k Key) {
	delete(s, k)
}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

func (s KeySet) Sorted() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}
