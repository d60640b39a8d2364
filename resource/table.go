package resource

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Table holds at most one canonical copy of every collected or synthesized resource
type Table map[Key]*Resource

func (t Table) Get(key Key) (*Resource, bool) {
	r, ok := t[key]
	return r, ok
}

func (t Table) Has(key Key) bool {
	_, ok := t[key]
	return ok
}

// MustGet panics if table lacks key
func (t Table) MustGet(key Key) *Resource {
	r, ok := t[key]
	if !ok {
		panic(fmt.Sprintf("[resource] Table lacks %s", key))
	}
	return r
}

// Add panics on collision, ids are never overwritten silently
func (t Table) Add(r *Resource) {
	if old, ok := t[r.Key()]; ok {
		panic(fmt.Sprintf("[resource] %s collides with %s", r, old))
	}
	t[r.Key()] = r
}

func (t Table) Insert(r *Resource) {
	t[r.Key()] = r
}

func (t Table) Keys() []Key {
	keys := make([]Key, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[resource] %d invalid resources:\n  %s", len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Validate checks that every entry payload matches the type of its key
func (t Table) Validate() error {
	problems := make([]string, 0)
	for _, key := range t.Keys() {
		r := t[key]
		switch {
		case key.Id == InvalidId:
			problems = append(problems, fmt.Sprintf("%s: invalid id", key))
		case r.Key() != key:
			problems = append(problems, fmt.Sprintf("%s: stored under key %s", r.Key(), key))
		case r.Kind == nil:
			problems = append(problems, fmt.Sprintf("%s: no payload", key))
		case r.Kind.FourCC() != key.Type:
			problems = append(problems, fmt.Sprintf("%s: payload is %s", key, r.Kind.FourCC()))
		}
	}
	if len(problems) != 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Record decodes resource at key
func (t Table) Record(key Key) (Record, error) {
	r, ok := t[key]
	if !ok {
		return nil, errors.Errorf("[resource] Table lacks %s", key)
	}
	return r.Decode()
}
