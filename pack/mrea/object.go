package mrea

import (
	"fmt"

	"github.com/mogaika/disc_patcher/utils"
)

// Instance id layout: layer:6 area:10 index:16.
// Ids created by patcher carry 0xDE in high byte instead.
const SYNTHETIC_ID_TAG = 0xDE

func MakeInstanceId(layer, area, index uint32) uint32 {
	return (layer&0x3F)<<26 | (area&0x3FF)<<16 | index&0xFFFF
}

func InstanceIdLayer(id uint32) uint32 { return (id >> 26) & 0x3F }
func InstanceIdArea(id uint32) uint32  { return (id >> 16) & 0x3FF }
func InstanceIdIndex(id uint32) uint32 { return id & 0xFFFF }

func IsSyntheticInstanceId(id uint32) bool {
	return id>>24 == SYNTHETIC_ID_TAG
}

type Connection struct {
	State   State
	Message Message
	Target  uint32
}

func (c Connection) String() string {
	return fmt.Sprintf("%s->%s->0x%.8x", c.State, c.Message, c.Target)
}

type SceneObject struct {
	InstanceId  uint32
	Connections []Connection
	Property    Property
}

func NewObject(id uint32, p Property) *SceneObject {
	return &SceneObject{InstanceId: id, Property: p}
}

func (o *SceneObject) Clone() *SceneObject {
	return &SceneObject{
		InstanceId:  o.InstanceId,
		Connections: append([]Connection(nil), o.Connections...),
		Property:    o.Property.clone(),
	}
}

func (o *SceneObject) String() string {
	return fmt.Sprintf("obj<0x%.2x>(0x%.8x)", o.Property.ObjectType(), o.InstanceId)
}

// HasConnection reports exact duplicate
func (o *SceneObject) HasConnection(c Connection) bool {
	for _, existing := range o.Connections {
		if existing == c {
			return true
		}
	}
	return false
}

func (o *SceneObject) Actor() (*Actor, bool) {
	p, ok := o.Property.(*Actor)
	return p, ok
}

func (o *SceneObject) Trigger() (*Trigger, bool) {
	p, ok := o.Property.(*Trigger)
	return p, ok
}

func (o *SceneObject) Door() (*Door, bool) {
	p, ok := o.Property.(*Door)
	return p, ok
}

func (o *SceneObject) Relay() (*Relay, bool) {
	p, ok := o.Property.(*Relay)
	return p, ok
}

func (o *SceneObject) Pickup() (*Pickup, bool) {
	p, ok := o.Property.(*Pickup)
	return p, ok
}

func (o *SceneObject) SpecialFunction() (*SpecialFunction, bool) {
	p, ok := o.Property.(*SpecialFunction)
	return p, ok
}

func (o *SceneObject) HudMemo() (*HudMemo, bool) {
	p, ok := o.Property.(*HudMemo)
	return p, ok
}

func (o *SceneObject) PointOfInterest() (*PointOfInterest, bool) {
	p, ok := o.Property.(*PointOfInterest)
	return p, ok
}

func (o *SceneObject) Timer() (*Timer, bool) {
	p, ok := o.Property.(*Timer)
	return p, ok
}

func readObject(bs *utils.BufStack) *SceneObject {
	objType := bs.ReadU8()
	body := bs.SubBuf("object", int(bs.ReadBU32()))

	o := &SceneObject{InstanceId: body.ReadBU32()}
	body.SetName(fmt.Sprintf("0x%.8x", o.InstanceId))
	if count := body.ReadBU32(); count != 0 {
		o.Connections = make([]Connection, count)
	}
	for i := range o.Connections {
		o.Connections[i] = Connection{
			State:   State(body.ReadBU32()),
			Message: Message(body.ReadBU32()),
			Target:  body.ReadBU32(),
		}
	}
	o.Property = decodeProperty(objType, body.SubBuf("property", body.Left()))
	return o
}

func (o *SceneObject) marshal(w *utils.Writer) {
	w.W8(o.Property.ObjectType())
	sizePos := w.Pos()
	w.W32(0)
	start := w.Pos()

	w.W32(o.InstanceId)
	w.W32(uint32(len(o.Connections)))
	for _, c := range o.Connections {
		w.W32(uint32(c.State))
		w.W32(uint32(c.Message))
		w.W32(c.Target)
	}
	o.Property.marshal(w)
	w.PutBU32(sizePos, uint32(w.Pos()-start))
}
