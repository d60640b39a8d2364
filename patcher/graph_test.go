package patcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/disc_patcher/pack/mrea"
	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/utils"
)

func TestSpliceLayerToggle(t *testing.T) {
	room := testRoom()
	g := NewGraph(room, OverflowRedirect)
	state := NewState(0x100)
	before := g.Find(0, actorId).Clone()

	layer, fnId, err := g.SpliceLayerToggle(state, triggerId, "Hidden statue", mrea.StateEntered, mrea.MessageIncrement)
	require.NoError(t, err)
	assert.Equal(t, 1, layer)
	assert.True(t, mrea.IsSyntheticInstanceId(fnId))
	g.MoveObject(actorId, layer)

	assert.False(t, room.Layers[layer].Enabled)
	require.Len(t, room.Layers[layer].Objects, 1)
	assert.Equal(t, before, room.Layers[layer].Objects[0])
	assert.Equal(t, []resource.Key{testModel.Key()}, room.DependencyLists[layer])
	assert.Len(t, room.Layers[0].Objects, 4)

	fn, ok := g.Find(0, fnId).SpecialFunction()
	require.True(t, ok)
	assert.Equal(t, uint32(mrea.FunctionScriptLayerController), fn.Function)
	assert.Equal(t, uint32(layer), fn.LayerIndex)

	received, err := Simulate(room, triggerId, mrea.StateEntered)
	require.NoError(t, err)
	assert.Equal(t, []uint32{fnId}, received)
	assert.True(t, room.Layers[layer].Enabled)
	assert.Equal(t, before, room.Layers[layer].Objects[0])

	// second splice onto same layer reuses it
	again, _, err := g.SpliceLayerToggle(state, relayId, "hidden statue", mrea.StateZero, mrea.MessageDecrement)
	require.NoError(t, err)
	assert.Equal(t, layer, again)
	assert.Len(t, room.Layers, 2)
}

func TestSpliceSurvivesRoundTrip(t *testing.T) {
	room := testRoom()
	g := NewGraph(room, OverflowRedirect)
	layer, _, err := g.SpliceLayerToggle(NewState(0x100), triggerId, "Hidden", mrea.StateEntered, mrea.MessageIncrement)
	require.NoError(t, err)
	g.MoveObject(actorId, layer)

	data, err := room.Marshal()
	require.NoError(t, err)
	decoded, err := mrea.NewFromData(utils.NewBufStack("mrea", data))
	require.NoError(t, err)
	assert.Equal(t, room, decoded)
}

func TestSimulateRelay(t *testing.T) {
	room := testRoom()
	g := NewGraph(room, OverflowRedirect)
	layer, fnId, err := g.SpliceLayerToggle(NewState(0), relayId, "Late", mrea.StateZero, mrea.MessageActivate)
	require.NoError(t, err)
	g.Rewire(func(o *mrea.SceneObject) bool { return o.InstanceId == triggerId },
		mrea.Connection{State: mrea.StateInside, Message: mrea.MessageSetToZero, Target: relayId})

	received, err := Simulate(room, triggerId, mrea.StateInside)
	require.NoError(t, err)
	assert.Equal(t, []uint32{relayId, fnId}, received)
	assert.True(t, room.Layers[layer].Enabled)

	_, err = Simulate(room, 0x12345678, mrea.StateInside)
	assert.Error(t, err)
}

func TestAddLayerOverflow(t *testing.T) {
	room := testRoom()
	for len(room.Layers) < mrea.MaxLayers {
		room.Layers = append(room.Layers, &mrea.Layer{Name: "", Enabled: true})
		room.DependencyLists = append(room.DependencyLists, nil)
	}

	layer, err := NewGraph(room, OverflowRedirect).AddLayer("Extra")
	require.NoError(t, err)
	assert.Equal(t, 0, layer)
	assert.Len(t, room.Layers, mrea.MaxLayers)

	_, err = NewGraph(room, OverflowReject).AddLayer("Extra")
	assert.Error(t, err)
}

func TestAddLayerGeneratesNames(t *testing.T) {
	a := NewGraph(testRoom(), OverflowRedirect)
	b := NewGraph(testRoom(), OverflowRedirect)

	la, err := a.AddLayer("")
	require.NoError(t, err)
	lb, err := b.AddLayer("")
	require.NoError(t, err)

	assert.NotEmpty(t, a.Room.Layers[la].Name)
	assert.Equal(t, a.Room.Layers[la].Name, b.Room.Layers[lb].Name)
	assert.Len(t, a.Room.DependencyLists, 2)
}

func TestGraphEdits(t *testing.T) {
	room := testRoom()
	g := NewGraph(room, OverflowRedirect)

	assert.Panics(t, func() { g.Find(0, 0x999) })
	assert.Panics(t, func() { g.FindAny(0x999) })
	assert.Panics(t, func() { g.Push(0, mrea.NewObject(actorId, &mrea.Relay{})) })

	o, ok := g.FindBy(func(o *mrea.SceneObject) bool {
		_, isPickup := o.Pickup()
		return isPickup
	})
	require.True(t, ok)
	assert.Equal(t, pickupId, o.InstanceId)

	c := mrea.Connection{State: mrea.StateArrived, Message: mrea.MessageSetToZero, Target: relayId}
	isPickup := func(o *mrea.SceneObject) bool { return o.InstanceId == pickupId }
	assert.Equal(t, 1, g.Rewire(isPickup, c))
	assert.Equal(t, 0, g.Rewire(isPickup, c))
	assert.Len(t, g.Find(0, pickupId).Connections, 1)

	removed := g.RemoveConnections(func(src *mrea.SceneObject, c mrea.Connection) bool {
		return c.Target == relayId
	})
	assert.Equal(t, 1, removed)
	assert.Nil(t, g.Find(0, pickupId).Connections)

	assert.Equal(t, 1, g.Retain(0, func(o *mrea.SceneObject) bool { return o.InstanceId != actorId }))
	assert.Len(t, room.Layers[0].Objects, 3)
	_, gone := room.FindObject(actorId)
	assert.Nil(t, gone)
}

func TestParseOverflowPolicy(t *testing.T) {
	p, err := ParseOverflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, OverflowRedirect, p)

	p, err = ParseOverflowPolicy("Reject")
	require.NoError(t, err)
	assert.Equal(t, OverflowReject, p)

	_, err = ParseOverflowPolicy("explode")
	assert.Error(t, err)
}
