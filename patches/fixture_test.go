package patches

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mogaika/disc_patcher/banner"
	"github.com/mogaika/disc_patcher/catalog"
	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/pack/cmdl"
	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/pack/savw"
	"github.com/mogaika/disc_patcher/pack/scan"
	"github.com/mogaika/disc_patcher/pack/strg"
	"github.com/mogaika/disc_patcher/pack/txtr"
	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/status"
	"github.com/mogaika/disc_patcher/vfs"
)

func init() {
	status.Quiet = true
}

const testCatalog = `
syntheticBase: 0xDEAF0000
scanFrame: 0x500
patchedMarker: files/disc_patcher.txt
executable: sys/main.dol
banner: files/opening.bnr
bootInfo: sys/boot.bin
startingRoom:
  level: Tallon Overworld
  room: Landing Site
visors:
  Combat: 0
  Scan: 2
nothing: {model: 0x600, texture: 0x601, slot: 0, hueShift: 180}
doorTemplate: {model: 0x700, texture: 0x701, slot: 0}
doorShields:
  - {name: red, hueShift: 145}
pickupTypes:
  - {name: Missile, kind: 4, model: 0x100, ancs: 0xFFFFFFFF, scan: 0x400, hudmemo: 0x300, currIncrease: 5, maxIncrease: 5}
  - {name: Nothing, kind: 26, model: 0x600, ancs: 0xFFFFFFFF, scan: 0x410, hudmemo: 0x310, currIncrease: 0, maxIncrease: 0}
levels:
  - name: Tallon Overworld
    worldId: 0x39F2DE28
    pak: files/Metroid4.pak
    saveWorld: 0x800
    rooms:
      - name: Landing Site
        mrea: 0xB2701146
        pickups:
          - {object: 0x00010001, hudmemo: 0x00010003}
          - {object: 0x00010002, hudmemo: 0x00010099}
        doors: [0x00010004]
versions:
  - name: NTSC-U 0-00
    gameId: GM8E01
    revision: 0
    symbols:
      startingVisor: 0x80003100
      startingMissiles: 0x80003104
`

const (
	testArea       = 1
	missileScan    = 0x400
	missileHudmemo = 0x300
	nothingScan    = 0x410
	nothingHudmemo = 0x310
	roomId         = 0xB2701146
	saveWorldId    = 0x800
)

var (
	pickupA = mrea.MakeInstanceId(0, testArea, 1)
	pickupB = mrea.MakeInstanceId(0, testArea, 2)
	memoA   = mrea.MakeInstanceId(0, testArea, 3)
	doorId  = mrea.MakeInstanceId(0, testArea, 4)
)

func testCatalogData(t *testing.T) *catalog.Catalog {
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	return cat
}

func encoded(t *testing.T, id uint32, rec resource.Record) *resource.Resource {
	data, err := rec.Marshal()
	require.NoError(t, err)
	return resource.NewRaw(resource.Key{Id: id, Type: rec.FourCC()}, data)
}

func texture() *txtr.Texture {
	return &txtr.Texture{
		Format: txtr.FORMAT_RGB565, Width: 2, Height: 2, MipCount: 1,
		Data: []byte{0xF8, 0x00, 0x07, 0xE0, 0x00, 0x1F, 0xFF, 0xFF},
	}
}

func model(tex uint32) *cmdl.Model {
	return &cmdl.Model{Textures: []resource.Id[resource.Texture]{resource.New[resource.Texture](tex)}, Body: []byte("mesh")}
}

func testRoom() *mrea.Room {
	invalidModel := resource.Invalid[resource.Model]()
	invalidAncs := resource.Invalid[resource.Animation]()
	invalidScan := resource.Invalid[resource.ScanEntry]()
	return &mrea.Room{
		Version:   mrea.MREA_VERSION,
		AreaIndex: testArea,
		Layers: []*mrea.Layer{{
			Name:    "Default",
			Enabled: true,
			Objects: []*mrea.SceneObject{
				mrea.NewObject(pickupA, &mrea.Pickup{Name: "A", Kind: 16, Model: invalidModel, Ancs: invalidAncs, Scan: invalidScan, Active: true}),
				mrea.NewObject(pickupB, &mrea.Pickup{Name: "B", Kind: 16, Model: invalidModel, Ancs: invalidAncs, Scan: invalidScan, Active: true}),
				mrea.NewObject(memoA, &mrea.HudMemo{Name: "A memo", Strg: resource.Invalid[resource.StringTable](), Active: true}),
				mrea.NewObject(doorId, &mrea.Door{Name: "Door", Model: invalidModel, ShieldModel: invalidModel, Scan: invalidScan, Active: true}),
			},
		}},
		DependencyLists: [][]resource.Key{{}},
	}
}

func testPak(t *testing.T) []byte {
	a := &pack.Archive{
		Name:  "Metroid4.pak",
		Named: []pack.NamedResource{{Name: "Landing Site", Key: resource.Key{Id: roomId, Type: resource.MREA}}},
		Resources: []*resource.Resource{
			encoded(t, roomId, testRoom()),
			encoded(t, 0x100, model(0x101)),
			encoded(t, 0x101, texture()),
			encoded(t, missileScan, scan.New(resource.New[resource.Frame](0x500), resource.New[resource.StringTable](0x401), 0, false)),
			encoded(t, 0x401, strg.New("Missile Expansion\x00")),
			encoded(t, missileHudmemo, strg.New("Missile acquired\x00")),
			encoded(t, nothingScan, scan.New(resource.New[resource.Frame](0x500), resource.New[resource.StringTable](0x411), 0, false)),
			encoded(t, 0x411, strg.New("Nothing\x00")),
			encoded(t, nothingHudmemo, strg.New("Nothing acquired\x00")),
			resource.NewRaw(resource.Key{Id: 0x500, Type: resource.FRME}, []byte{0xF}),
			encoded(t, 0x600, model(0x601)),
			encoded(t, 0x601, texture()),
			encoded(t, 0x700, model(0x701)),
			encoded(t, 0x701, texture()),
			encoded(t, saveWorldId, &savw.WorldSave{Tail: []byte{1, 2}}),
		},
	}
	data, err := a.Marshal()
	require.NoError(t, err)
	return data
}

func testDol() []byte {
	b := make([]byte, 0x200)
	binary.BigEndian.PutUint32(b[0x00:], 0x100)
	binary.BigEndian.PutUint32(b[0x48:], 0x80003100)
	binary.BigEndian.PutUint32(b[0x90:], 0x100)
	return b
}

func testDisc(t *testing.T) *vfs.MemoryDirectory {
	root := vfs.NewMemoryDirectory("disc")
	bnr := &banner.Banner{GameName: "Original", Maker: "Maker"}
	for name, data := range map[string][]byte{
		"sys/boot.bin":       append([]byte("GM8E01"), 0, 0, 0, 0),
		"sys/main.dol":       testDol(),
		"files/opening.bnr":  bnr.Marshal(),
		"files/Metroid4.pak": testPak(t),
		"files/audio.bin":    {1, 2, 3},
	} {
		require.NoError(t, vfs.WriteFile(root, name, data))
	}
	return root
}
