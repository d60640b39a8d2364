package resource

import (
	"fmt"

	"github.com/pkg/errors"
)

// ResourceKind is payload of resource: *Raw bytes or decoded Record
type ResourceKind interface {
	FourCC() FourCC
}

type Raw struct {
	Type FourCC
	Data []byte
}

func (r *Raw) FourCC() FourCC { return r.Type }

type Record interface {
	ResourceKind
	Marshal() ([]byte, error)
	Clone() Record
	// Dependencies lists resources record refers to
	Dependencies() []Key
}

type Loader func(data []byte) (Record, error)

var gHandlers = make(map[FourCC]Loader)

func SetHandler(fourcc FourCC, ldr Loader) {
	gHandlers[fourcc] = ldr
}

func HasHandler(fourcc FourCC) bool {
	_, ok := gHandlers[fourcc]
	return ok
}

type Resource struct {
	Id         uint32
	Type       FourCC
	Compressed bool
	Kind       ResourceKind
	// Name is set for resources listed in archive named table
	Name string
}

func NewRaw(key Key, data []byte) *Resource {
	return &Resource{
		Id:   key.Id,
		Type: key.Type,
		Kind: &Raw{Type: key.Type, Data: data},
	}
}

// Build wraps synthesized record into resource under id
func Build[K Kind](id Id[K], rec Record) *Resource {
	return &Resource{
		Id:         id.U32(),
		Type:       id.Type(),
		Compressed: true,
		Kind:       rec,
	}
}

func (r *Resource) Key() Key {
	return Key{Id: r.Id, Type: r.Type}
}

func (r *Resource) String() string {
	return fmt.Sprintf("res<%s>", r.Key())
}

// Decode turns raw payload into record using registered handler.
// Already decoded resource returns its record.
func (r *Resource) Decode() (Record, error) {
	switch kind := r.Kind.(type) {
	case Record:
		return kind, nil
	case *Raw:
		ldr, ok := gHandlers[r.Type]
		if !ok {
			return nil, errors.Errorf("[resource] No handler for %s", r.Type)
		}
		rec, err := ldr(kind.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "[resource] Failed to decode %s", r.Key())
		}
		r.Kind = rec
		return rec, nil
	default:
		return nil, errors.Errorf("[resource] %s has no payload", r.Key())
	}
}

// Bytes returns encoded (uncompressed) payload
func (r *Resource) Bytes() ([]byte, error) {
	switch kind := r.Kind.(type) {
	case *Raw:
		return kind.Data, nil
	case Record:
		data, err := kind.Marshal()
		if err != nil {
			return nil, errors.Wrapf(err, "[resource] Failed to encode %s", r.Key())
		}
		return data, nil
	default:
		return nil, errors.Errorf("[resource] %s has no payload", r.Key())
	}
}

// Clone returns deep copy, so copies owned by different archives never share state
func (r *Resource) Clone() *Resource {
	c := *r
	switch kind := r.Kind.(type) {
	case *Raw:
		c.Kind = &Raw{Type: kind.Type, Data: append([]byte(nil), kind.Data...)}
	case Record:
		c.Kind = kind.Clone()
	}
	return &c
}

// DecodeAs decodes resource and asserts record type
func DecodeAs[R Record](r *Resource) (R, error) {
	var zero R
	rec, err := r.Decode()
	if err != nil {
		return zero, err
	}
	typed, ok := rec.(R)
	if !ok {
		return zero, errors.Errorf("[resource] %s decoded as %T, not %T", r.Key(), rec, zero)
	}
	return typed, nil
}
