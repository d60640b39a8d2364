package patcher

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/pack/scan"
	"github.com/mogaika/disc_patcher/pack/strg"
	"github.com/mogaika/disc_patcher/resource"
)

const testArea = 3

var (
	testRoomKey = resource.Key{Id: 0xB2701146, Type: resource.MREA}
	testModel   = resource.New[resource.Model](0x100)
	testScan    = resource.New[resource.ScanEntry](0x400)
	testStrg    = resource.New[resource.StringTable](0x300)
	testFrame   = resource.New[resource.Frame](0x500)

	triggerId = mrea.MakeInstanceId(0, testArea, 1)
	pickupId  = mrea.MakeInstanceId(0, testArea, 2)
	actorId   = mrea.MakeInstanceId(0, testArea, 3)
	relayId   = mrea.MakeInstanceId(0, testArea, 4)
)

func testRoom() *mrea.Room {
	return &mrea.Room{
		Version:   mrea.MREA_VERSION,
		AreaIndex: testArea,
		Bounds:    mrea.Bounds{Min: mgl32.Vec3{-10, -10, -10}, Max: mgl32.Vec3{10, 10, 10}},
		Layers: []*mrea.Layer{{
			Name:    "Default",
			Enabled: true,
			Objects: []*mrea.SceneObject{
				mrea.NewObject(triggerId, &mrea.Trigger{Name: "Entry", Extent: mgl32.Vec3{1, 1, 1}, Active: true}),
				mrea.NewObject(pickupId, &mrea.Pickup{
					Name:   "Missile",
					Kind:   4,
					Model:  testModel,
					Ancs:   resource.Invalid[resource.Animation](),
					Scan:   resource.Invalid[resource.ScanEntry](),
					Active: true,
				}),
				mrea.NewObject(actorId, &mrea.Actor{
					Name:   "Statue",
					Model:  testModel,
					Ancs:   resource.Invalid[resource.Animation](),
					Scan:   resource.Invalid[resource.ScanEntry](),
					Active: true,
				}),
				mrea.NewObject(relayId, &mrea.Relay{Name: "Relay", Active: true}),
			},
		}},
		DependencyLists: [][]resource.Key{{testModel.Key()}},
		Geometry:        []byte{1, 2, 3},
	}
}

func testTable() resource.Table {
	t := make(resource.Table)
	t.Add(resource.NewRaw(testModel.Key(), []byte{0xDE, 0xAD, 0xBA, 0xBE, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}))
	t.Add(resource.Build(testScan, scan.New(testFrame, testStrg, 0, false)))
	t.Add(resource.Build(testStrg, strg.New("Scan text\x00")))
	t.Add(resource.NewRaw(testFrame.Key(), []byte{0xF}))
	return t
}

func testRoomArchive(room *mrea.Room) *pack.Archive {
	return &pack.Archive{
		Name:      "files/Metroid4.pak",
		Named:     []pack.NamedResource{{Name: "Landing Site", Key: testRoomKey}},
		Resources: []*resource.Resource{resource.Build(resource.New[resource.Room](testRoomKey.Id), room)},
	}
}
