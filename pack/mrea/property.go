package mrea

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

const (
	OBJECT_ACTOR             = 0x00
	OBJECT_DOOR              = 0x03
	OBJECT_TRIGGER           = 0x04
	OBJECT_TIMER             = 0x05
	OBJECT_PICKUP            = 0x11
	OBJECT_RELAY             = 0x15
	OBJECT_HUD_MEMO          = 0x17
	OBJECT_SPECIAL_FUNCTION  = 0x3A
	OBJECT_POINT_OF_INTEREST = 0x42
)

// Property is payload of scene object. Set of variants is closed,
// every variant is handled in decodeProperty.
type Property interface {
	ObjectType() uint8
	// Dependencies lists resources property refers to
	Dependencies() []resource.Key
	clone() Property
	marshal(w *utils.Writer)
}

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func readVec3(bs *utils.BufStack) mgl32.Vec3 {
	return mgl32.Vec3{bs.ReadBF(), bs.ReadBF(), bs.ReadBF()}
}

func writeVec3(w *utils.Writer, v mgl32.Vec3) {
	w.WF(v[0])
	w.WF(v[1])
	w.WF(v[2])
}

func readTransform(bs *utils.BufStack) Transform {
	return Transform{Position: readVec3(bs), Rotation: readVec3(bs), Scale: readVec3(bs)}
}

func writeTransform(w *utils.Writer, t Transform) {
	writeVec3(w, t.Position)
	writeVec3(w, t.Rotation)
	writeVec3(w, t.Scale)
}

type depList []resource.Key

func (d depList) add(id interface {
	IsValid() bool
	Key() resource.Key
}) depList {
	if id.IsValid() {
		return append(d, id.Key())
	}
	return d
}

type Actor struct {
	Name      string
	Transform Transform
	Model     resource.Id[resource.Model]
	Ancs      resource.Id[resource.Animation]
	Scan      resource.Id[resource.ScanEntry]
	Active    bool
}

func (p *Actor) ObjectType() uint8 { return OBJECT_ACTOR }
func (p *Actor) Dependencies() []resource.Key {
	return depList{}.add(p.Model).add(p.Ancs).add(p.Scan)
}
func (p *Actor) clone() Property { c := *p; return &c }
func (p *Actor) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	writeTransform(w, p.Transform)
	w.W32(p.Model.U32())
	w.W32(p.Ancs.U32())
	w.W32(p.Scan.U32())
	w.WBool(p.Active)
}
func readActor(bs *utils.BufStack) *Actor {
	return &Actor{
		Name:      bs.ReadLString(),
		Transform: readTransform(bs),
		Model:     resource.New[resource.Model](bs.ReadBU32()),
		Ancs:      resource.New[resource.Animation](bs.ReadBU32()),
		Scan:      resource.New[resource.ScanEntry](bs.ReadBU32()),
		Active:    bs.ReadBool(),
	}
}

type Trigger struct {
	Name     string
	Position mgl32.Vec3
	Extent   mgl32.Vec3
	Flags    uint32
	Active   bool
}

func (p *Trigger) ObjectType() uint8            { return OBJECT_TRIGGER }
func (p *Trigger) Dependencies() []resource.Key { return nil }
func (p *Trigger) clone() Property              { c := *p; return &c }
func (p *Trigger) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	writeVec3(w, p.Position)
	writeVec3(w, p.Extent)
	w.W32(p.Flags)
	w.WBool(p.Active)
}
func readTrigger(bs *utils.BufStack) *Trigger {
	return &Trigger{
		Name:     bs.ReadLString(),
		Position: readVec3(bs),
		Extent:   readVec3(bs),
		Flags:    bs.ReadBU32(),
		Active:   bs.ReadBool(),
	}
}

type Door struct {
	Name        string
	Transform   Transform
	Model       resource.Id[resource.Model]
	ShieldModel resource.Id[resource.Model]
	Scan        resource.Id[resource.ScanEntry]
	Open        bool
	Active      bool
}

func (p *Door) ObjectType() uint8 { return OBJECT_DOOR }
func (p *Door) Dependencies() []resource.Key {
	return depList{}.add(p.Model).add(p.ShieldModel).add(p.Scan)
}
func (p *Door) clone() Property { c := *p; return &c }
func (p *Door) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	writeTransform(w, p.Transform)
	w.W32(p.Model.U32())
	w.W32(p.ShieldModel.U32())
	w.W32(p.Scan.U32())
	w.WBool(p.Open)
	w.WBool(p.Active)
}
func readDoor(bs *utils.BufStack) *Door {
	return &Door{
		Name:        bs.ReadLString(),
		Transform:   readTransform(bs),
		Model:       resource.New[resource.Model](bs.ReadBU32()),
		ShieldModel: resource.New[resource.Model](bs.ReadBU32()),
		Scan:        resource.New[resource.ScanEntry](bs.ReadBU32()),
		Open:        bs.ReadBool(),
		Active:      bs.ReadBool(),
	}
}

type Relay struct {
	Name   string
	Active bool
}

func (p *Relay) ObjectType() uint8            { return OBJECT_RELAY }
func (p *Relay) Dependencies() []resource.Key { return nil }
func (p *Relay) clone() Property              { c := *p; return &c }
func (p *Relay) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	w.WBool(p.Active)
}
func readRelay(bs *utils.BufStack) *Relay {
	return &Relay{Name: bs.ReadLString(), Active: bs.ReadBool()}
}

type Pickup struct {
	Name         string
	Transform    Transform
	Kind         uint32
	CurrIncrease int32
	MaxIncrease  int32
	Model        resource.Id[resource.Model]
	Ancs         resource.Id[resource.Animation]
	Scan         resource.Id[resource.ScanEntry]
	Active       bool
}

func (p *Pickup) ObjectType() uint8 { return OBJECT_PICKUP }
func (p *Pickup) Dependencies() []resource.Key {
	return depList{}.add(p.Model).add(p.Ancs).add(p.Scan)
}
func (p *Pickup) clone() Property { c := *p; return &c }
func (p *Pickup) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	writeTransform(w, p.Transform)
	w.W32(p.Kind)
	w.W32(uint32(p.CurrIncrease))
	w.W32(uint32(p.MaxIncrease))
	w.W32(p.Model.U32())
	w.W32(p.Ancs.U32())
	w.W32(p.Scan.U32())
	w.WBool(p.Active)
}
func readPickup(bs *utils.BufStack) *Pickup {
	return &Pickup{
		Name:         bs.ReadLString(),
		Transform:    readTransform(bs),
		Kind:         bs.ReadBU32(),
		CurrIncrease: int32(bs.ReadBU32()),
		MaxIncrease:  int32(bs.ReadBU32()),
		Model:        resource.New[resource.Model](bs.ReadBU32()),
		Ancs:         resource.New[resource.Animation](bs.ReadBU32()),
		Scan:         resource.New[resource.ScanEntry](bs.ReadBU32()),
		Active:       bs.ReadBool(),
	}
}

const (
	FunctionScriptLayerController = 0x10
	FunctionPlayerInAreaRelay     = 0x12
	FunctionCinematicSkip         = 0x1A
)

type SpecialFunction struct {
	Name       string
	Transform  Transform
	Function   uint32
	Text       string
	Floats     [3]float32
	LayerRoom  uint32
	LayerIndex uint32
	Item       uint32
	Active     bool
}

func (p *SpecialFunction) ObjectType() uint8            { return OBJECT_SPECIAL_FUNCTION }
func (p *SpecialFunction) Dependencies() []resource.Key { return nil }
func (p *SpecialFunction) clone() Property              { c := *p; return &c }
func (p *SpecialFunction) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	writeTransform(w, p.Transform)
	w.W32(p.Function)
	w.WLString(p.Text)
	for _, f := range p.Floats {
		w.WF(f)
	}
	w.W32(p.LayerRoom)
	w.W32(p.LayerIndex)
	w.W32(p.Item)
	w.WBool(p.Active)
}
func readSpecialFunction(bs *utils.BufStack) *SpecialFunction {
	p := &SpecialFunction{
		Name:      bs.ReadLString(),
		Transform: readTransform(bs),
		Function:  bs.ReadBU32(),
		Text:      bs.ReadLString(),
	}
	for i := range p.Floats {
		p.Floats[i] = bs.ReadBF()
	}
	p.LayerRoom = bs.ReadBU32()
	p.LayerIndex = bs.ReadBU32()
	p.Item = bs.ReadBU32()
	p.Active = bs.ReadBool()
	return p
}

const (
	HUD_MEMO_STATUS_MESSAGE = 0
	HUD_MEMO_MESSAGE_BOX    = 1
)

type HudMemo struct {
	Name        string
	DisplayTime float32
	Clear       bool
	MessageType uint32
	Strg        resource.Id[resource.StringTable]
	Active      bool
}

func (p *HudMemo) ObjectType() uint8 { return OBJECT_HUD_MEMO }
func (p *HudMemo) Dependencies() []resource.Key {
	return depList{}.add(p.Strg)
}
func (p *HudMemo) clone() Property { c := *p; return &c }
func (p *HudMemo) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	w.WF(p.DisplayTime)
	w.WBool(p.Clear)
	w.W32(p.MessageType)
	w.W32(p.Strg.U32())
	w.WBool(p.Active)
}
func readHudMemo(bs *utils.BufStack) *HudMemo {
	return &HudMemo{
		Name:        bs.ReadLString(),
		DisplayTime: bs.ReadBF(),
		Clear:       bs.ReadBool(),
		MessageType: bs.ReadBU32(),
		Strg:        resource.New[resource.StringTable](bs.ReadBU32()),
		Active:      bs.ReadBool(),
	}
}

type PointOfInterest struct {
	Name      string
	Transform Transform
	Scan      resource.Id[resource.ScanEntry]
	PointSize float32
	Active    bool
}

func (p *PointOfInterest) ObjectType() uint8 { return OBJECT_POINT_OF_INTEREST }
func (p *PointOfInterest) Dependencies() []resource.Key {
	return depList{}.add(p.Scan)
}
func (p *PointOfInterest) clone() Property { c := *p; return &c }
func (p *PointOfInterest) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	writeTransform(w, p.Transform)
	w.W32(p.Scan.U32())
	w.WF(p.PointSize)
	w.WBool(p.Active)
}
func readPointOfInterest(bs *utils.BufStack) *PointOfInterest {
	return &PointOfInterest{
		Name:      bs.ReadLString(),
		Transform: readTransform(bs),
		Scan:      resource.New[resource.ScanEntry](bs.ReadBU32()),
		PointSize: bs.ReadBF(),
		Active:    bs.ReadBool(),
	}
}

type Timer struct {
	Name         string
	Time         float32
	MaxRandomAdd float32
	Loop         bool
	AutoStart    bool
	Active       bool
}

func (p *Timer) ObjectType() uint8            { return OBJECT_TIMER }
func (p *Timer) Dependencies() []resource.Key { return nil }
func (p *Timer) clone() Property              { c := *p; return &c }
func (p *Timer) marshal(w *utils.Writer) {
	w.WLString(p.Name)
	w.WF(p.Time)
	w.WF(p.MaxRandomAdd)
	w.WBool(p.Loop)
	w.WBool(p.AutoStart)
	w.WBool(p.Active)
}
func readTimer(bs *utils.BufStack) *Timer {
	return &Timer{
		Name:         bs.ReadLString(),
		Time:         bs.ReadBF(),
		MaxRandomAdd: bs.ReadBF(),
		Loop:         bs.ReadBool(),
		AutoStart:    bs.ReadBool(),
		Active:       bs.ReadBool(),
	}
}

// RawProperty keeps objects of types without decoder byte exact
type RawProperty struct {
	Type uint8
	Data []byte
}

func (p *RawProperty) ObjectType() uint8            { return p.Type }
func (p *RawProperty) Dependencies() []resource.Key { return nil }
func (p *RawProperty) clone() Property {
	return &RawProperty{Type: p.Type, Data: append([]byte(nil), p.Data...)}
}
func (p *RawProperty) marshal(w *utils.Writer) {
	w.Write(p.Data)
}

func decodeProperty(objType uint8, bs *utils.BufStack) Property {
	var p Property
	switch objType {
	case OBJECT_ACTOR:
		p = readActor(bs)
	case OBJECT_TRIGGER:
		p = readTrigger(bs)
	case OBJECT_DOOR:
		p = readDoor(bs)
	case OBJECT_RELAY:
		p = readRelay(bs)
	case OBJECT_PICKUP:
		p = readPickup(bs)
	case OBJECT_SPECIAL_FUNCTION:
		p = readSpecialFunction(bs)
	case OBJECT_HUD_MEMO:
		p = readHudMemo(bs)
	case OBJECT_POINT_OF_INTEREST:
		p = readPointOfInterest(bs)
	case OBJECT_TIMER:
		p = readTimer(bs)
	default:
		return &RawProperty{Type: objType, Data: bs.ReadCopy(bs.Left())}
	}
	bs.VerifySize(bs.Pos())
	return p
}
