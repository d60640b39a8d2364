package patcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/resource"
)

func testContext(room *mrea.Room, table resource.Table) *RoomContext {
	a := testRoomArchive(room)
	return &RoomContext{
		Archive:  a,
		Resource: a.Resources[0],
		Room:     room,
		Table:    table,
		Graph:    NewGraph(room, OverflowRedirect),
	}
}

func TestValidateRoomDependencyClosure(t *testing.T) {
	room := testRoom()
	table := testTable()
	require.NoError(t, ValidateRoom(testRoomKey, room, table))

	pickup, _ := room.Layers[0].Objects[1].Pickup()
	pickup.Scan = testScan

	err := ValidateRoom(testRoomKey, room, table)
	var verr *RoomValidationError
	require.ErrorAs(t, err, &verr)
	// scan itself, its string table and frame
	assert.Len(t, verr.Problems, 3)

	ctx := testContext(room, table)
	ctx.AddDependencies(0, testScan.Key())
	assert.NoError(t, ValidateRoom(testRoomKey, room, table))
	assert.Equal(t, []resource.Key{testModel.Key(), testScan.Key(), testFrame.Key(), testStrg.Key()},
		room.DependencyLists[0])
}

func TestValidateRoomConnections(t *testing.T) {
	room := testRoom()
	trigger := room.Layers[0].Objects[0]

	// other room, tolerated
	trigger.Connections = append(trigger.Connections, mrea.Connection{
		State: mrea.StateEntered, Message: mrea.MessageActivate, Target: mrea.MakeInstanceId(0, testArea+1, 7),
	})
	require.NoError(t, ValidateRoom(testRoomKey, room, testTable()))

	trigger.Connections = append(trigger.Connections,
		mrea.Connection{State: mrea.StateEntered, Message: mrea.MessageActivate, Target: mrea.MakeInstanceId(0, testArea, 99)},
		mrea.Connection{State: mrea.StateEntered, Message: mrea.MessageActivate, Target: 0xDE000005},
	)
	err := ValidateRoom(testRoomKey, room, testTable())
	var verr *RoomValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 2)
	assert.Contains(t, err.Error(), testRoomKey.String())
}

func TestAddDependencies(t *testing.T) {
	room := testRoom()
	ctx := testContext(room, testTable())

	ctx.AddDependencies(0, testScan.Key(), resource.Invalid[resource.Model]().Key())
	deps := append([]resource.Key(nil), room.DependencyLists[0]...)
	resources := len(ctx.Archive.Resources)
	assert.Equal(t, 4, resources)

	ctx.AddDependencies(0, testScan.Key(), testStrg.Key())
	assert.Equal(t, deps, room.DependencyLists[0])
	assert.Len(t, ctx.Archive.Resources, resources)

	added, ok := ctx.Archive.Find(testScan.Key())
	require.True(t, ok)
	assert.NotSame(t, ctx.Table.MustGet(testScan.Key()), added)

	assert.Panics(t, func() { ctx.AddDependencies(0, resource.Key{Id: 0x777, Type: resource.TXTR}) })
	assert.Panics(t, func() { ctx.AddDependencies(5, testScan.Key()) })
}

func TestDeriveDependencies(t *testing.T) {
	room := testRoom()
	pickup, _ := room.Layers[0].Objects[1].Pickup()
	pickup.Scan = testScan

	deps := DeriveDependencies(room, testTable())
	require.Len(t, deps, 1)
	assert.Equal(t, []resource.Key{testModel.Key(), testScan.Key(), testFrame.Key(), testStrg.Key()}, deps[0])
}
