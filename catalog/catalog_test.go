package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/disc_patcher/resource"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, c, again)

	assert.Equal(t, uint32(DefaultSyntheticBase), c.SyntheticBase)
	assert.Equal(t, uint32(KindMissile), c.PickupType("missile").Kind)
	assert.Equal(t, uint32(KindHealthRefill), c.PickupType(NothingPickup).Kind)
	assert.Equal(t, []string{"files/Metroid4.pak", "files/Metroid2.pak"}, c.Paks())

	_, room, ok := c.Room("Chozo Ruins", "main plaza")
	require.True(t, ok)
	assert.Len(t, room.Pickups, 3)
	assert.Equal(t, resource.MREA, room.Key().Type)

	v, err := c.Version("GM8E01", 2)
	require.NoError(t, err)
	assert.Contains(t, v.Symbols, "startingVisor")
	_, err = c.Version("GM8J01", 0)
	assert.Error(t, err)
}

func TestUnknownNamesPanic(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Panics(t, func() { c.PickupType("Screw Attack 2") })
	assert.Panics(t, func() { c.DoorShield("orange") })
	assert.False(t, c.HasPickupType("Screw Attack 2"))
}

func TestPickupTypeDependencies(t *testing.T) {
	p := &PickupType{Model: 1, Ancs: resource.InvalidId, Scan: 2, Hudmemo: 3}
	assert.Equal(t, []resource.Key{
		{Id: 1, Type: resource.CMDL},
		{Id: 2, Type: resource.SCAN},
		{Id: 3, Type: resource.STRG},
	}, p.Dependencies())
}

func TestValidate(t *testing.T) {
	_, err := Parse([]byte("pickupTypes: [{name: a}, {name: A}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("levels: [{name: l, pak: p.pak, rooms: [{name: r}, {name: r}]}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("startingRoom: {level: l, room: r}"))
	assert.Error(t, err)

	c, err := Parse([]byte("scanFrame: 5"))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), c.ScanFrame)
}
