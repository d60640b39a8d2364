package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/disc_patcher/resource"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

const NothingPickup = "Nothing"

// IsNothing reports pickup type replaced by empty health refill
func IsNothing(name string) bool {
	return strings.EqualFold(name, NothingPickup)
}

// Pickup kinds as game understands them
const (
	KindMissile      = 4
	KindPowerBomb    = 7
	KindMorphBall    = 16
	KindVariaSuit    = 22
	KindEnergyTank   = 24
	KindHealthRefill = 26
)

const DefaultSyntheticBase = 0xDEAF0000

type PickupType struct {
	Name         string `yaml:"name"`
	Kind         uint32 `yaml:"kind"`
	Model        uint32 `yaml:"model"`
	Ancs         uint32 `yaml:"ancs"`
	Scan         uint32 `yaml:"scan"`
	Hudmemo      uint32 `yaml:"hudmemo"`
	CurrIncrease int32  `yaml:"currIncrease"`
	MaxIncrease  int32  `yaml:"maxIncrease"`
}

func (p *PickupType) ModelId() resource.Id[resource.Model] {
	return resource.New[resource.Model](p.Model)
}
func (p *PickupType) AncsId() resource.Id[resource.Animation] {
	return resource.New[resource.Animation](p.Ancs)
}
func (p *PickupType) ScanId() resource.Id[resource.ScanEntry] {
	return resource.New[resource.ScanEntry](p.Scan)
}
func (p *PickupType) HudmemoId() resource.Id[resource.StringTable] {
	return resource.New[resource.StringTable](p.Hudmemo)
}

// Dependencies lists every resource the pickup type places into room
func (p *PickupType) Dependencies() []resource.Key {
	deps := make([]resource.Key, 0, 4)
	for _, id := range []interface {
		IsValid() bool
		Key() resource.Key
	}{p.ModelId(), p.AncsId(), p.ScanId(), p.HudmemoId()} {
		if id.IsValid() {
			deps = append(deps, id.Key())
		}
	}
	return deps
}

// RecolorTemplate is model whose texture slot is recolored to make new skin
type RecolorTemplate struct {
	Model   uint32 `yaml:"model"`
	Texture uint32 `yaml:"texture"`
	Slot    int    `yaml:"slot"`
}

func (t *RecolorTemplate) ModelId() resource.Id[resource.Model] {
	return resource.New[resource.Model](t.Model)
}
func (t *RecolorTemplate) TextureId() resource.Id[resource.Texture] {
	return resource.New[resource.Texture](t.Texture)
}

type NothingTemplate struct {
	RecolorTemplate `yaml:",inline"`
	HueShift        float64 `yaml:"hueShift"`
}

type DoorShield struct {
	Name     string  `yaml:"name"`
	HueShift float64 `yaml:"hueShift"`
}

type PickupLocation struct {
	Object  uint32 `yaml:"object"`
	Hudmemo uint32 `yaml:"hudmemo"`
}

type Room struct {
	Name    string           `yaml:"name"`
	Mrea    uint32           `yaml:"mrea"`
	Pickups []PickupLocation `yaml:"pickups"`
	Doors   []uint32         `yaml:"doors"`
}

func (r *Room) Key() resource.Key {
	return resource.Key{Id: r.Mrea, Type: resource.MREA}
}

type Level struct {
	Name      string `yaml:"name"`
	WorldId   uint32 `yaml:"worldId"`
	Pak       string `yaml:"pak"`
	SaveWorld uint32 `yaml:"saveWorld"`
	Rooms     []Room `yaml:"rooms"`
}

func (l *Level) Room(name string) (*Room, bool) {
	for i := range l.Rooms {
		if strings.EqualFold(l.Rooms[i].Name, name) {
			return &l.Rooms[i], true
		}
	}
	return nil, false
}

type Version struct {
	Name     string            `yaml:"name"`
	GameId   string            `yaml:"gameId"`
	Revision uint8             `yaml:"revision"`
	Symbols  map[string]uint32 `yaml:"symbols"`
}

type StartingRoom struct {
	Level string `yaml:"level"`
	Room  string `yaml:"room"`
}

type Catalog struct {
	SyntheticBase uint32            `yaml:"syntheticBase"`
	ScanFrame     uint32            `yaml:"scanFrame"`
	PatchedMarker string            `yaml:"patchedMarker"`
	Executable    string            `yaml:"executable"`
	Banner        string            `yaml:"banner"`
	BootInfo      string            `yaml:"bootInfo"`
	StartingRoom  StartingRoom      `yaml:"startingRoom"`
	Visors        map[string]uint32 `yaml:"visors"`
	Nothing       NothingTemplate   `yaml:"nothing"`
	DoorTemplate  RecolorTemplate   `yaml:"doorTemplate"`
	DoorShields   []DoorShield      `yaml:"doorShields"`
	PickupTypes   []PickupType      `yaml:"pickupTypes"`
	Levels        []Level           `yaml:"levels"`
	Versions      []Version         `yaml:"versions"`
}

func (c *Catalog) ScanFrameId() resource.Id[resource.Frame] {
	return resource.New[resource.Frame](c.ScanFrame)
}

// PickupType panics on unknown name, names come from validated config
func (c *Catalog) PickupType(name string) *PickupType {
	for i := range c.PickupTypes {
		if strings.EqualFold(c.PickupTypes[i].Name, name) {
			return &c.PickupTypes[i]
		}
	}
	panic(fmt.Sprintf("[catalog] Unknown pickup type %q", name))
}

func (c *Catalog) HasPickupType(name string) bool {
	for i := range c.PickupTypes {
		if strings.EqualFold(c.PickupTypes[i].Name, name) {
			return true
		}
	}
	return false
}

func (c *Catalog) DoorShield(name string) *DoorShield {
	for i := range c.DoorShields {
		if strings.EqualFold(c.DoorShields[i].Name, name) {
			return &c.DoorShields[i]
		}
	}
	panic(fmt.Sprintf("[catalog] Unknown door shield %q", name))
}

func (c *Catalog) Level(name string) (*Level, bool) {
	for i := range c.Levels {
		if strings.EqualFold(c.Levels[i].Name, name) {
			return &c.Levels[i], true
		}
	}
	return nil, false
}

func (c *Catalog) Room(level, room string) (*Level, *Room, bool) {
	l, ok := c.Level(level)
	if !ok {
		return nil, nil, false
	}
	r, ok := l.Room(room)
	return l, r, ok
}

func (c *Catalog) Version(gameId string, revision uint8) (*Version, error) {
	for i := range c.Versions {
		if c.Versions[i].GameId == gameId && c.Versions[i].Revision == revision {
			return &c.Versions[i], nil
		}
	}
	return nil, errors.Errorf("[catalog] Unsupported game %s revision %d", gameId, revision)
}

// Paks lists archives of every level, in level order
func (c *Catalog) Paks() []string {
	seen := make(map[string]bool)
	paks := make([]string, 0, len(c.Levels))
	for _, l := range c.Levels {
		if !seen[l.Pak] {
			seen[l.Pak] = true
			paks = append(paks, l.Pak)
		}
	}
	return paks
}

func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{SyntheticBase: DefaultSyntheticBase}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "[catalog] Failed to parse")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Validate() error {
	names := make(map[string]bool)
	for _, p := range c.PickupTypes {
		n := strings.ToLower(p.Name)
		if names[n] {
			return errors.Errorf("[catalog] Duplicate pickup type %q", p.Name)
		}
		names[n] = true
	}
	shields := make(map[string]bool)
	for _, s := range c.DoorShields {
		n := strings.ToLower(s.Name)
		if shields[n] {
			return errors.Errorf("[catalog] Duplicate door shield %q", s.Name)
		}
		shields[n] = true
	}
	for _, l := range c.Levels {
		if l.Pak == "" {
			return errors.Errorf("[catalog] Level %q has no pak", l.Name)
		}
		rooms := make(map[string]bool)
		for _, r := range l.Rooms {
			n := strings.ToLower(r.Name)
			if rooms[n] {
				return errors.Errorf("[catalog] Duplicate room %q in %q", r.Name, l.Name)
			}
			rooms[n] = true
		}
	}
	if c.StartingRoom.Level != "" {
		if _, _, ok := c.Room(c.StartingRoom.Level, c.StartingRoom.Room); !ok {
			return errors.Errorf("[catalog] Starting room %s/%s not found", c.StartingRoom.Level, c.StartingRoom.Room)
		}
	}
	return nil
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Load parses embedded catalog once, result is shared and must not be modified
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(embeddedCatalog)
	})
	return loaded, loadErr
}
