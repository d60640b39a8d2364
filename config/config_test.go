package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
startingMissiles: 5
levels:
  - name: Tallon Overworld
    rooms:
      - name: Landing Site
        pickups:
          - type: Missile
          - type: Nothing
            scanText: X
        doors:
          - shield: red
  - name: Chozo Ruins
    rooms:
      - name: Main Plaza
        removeObjects: [1, 2]
`

func TestLoadKeepsDeclarationOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0666))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	require.NoError(t, flags.Parse([]string{"--output", "out"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.Output)
	require.NotNil(t, cfg.StartingMissiles)
	assert.Equal(t, 5, *cfg.StartingMissiles)
	assert.Equal(t, LayerOverflowRedirect, cfg.LayerOverflow)
	require.Len(t, cfg.Levels, 2)
	assert.Equal(t, "Tallon Overworld", cfg.Levels[0].Name)
	assert.Equal(t, "Chozo Ruins", cfg.Levels[1].Name)

	room := cfg.Levels[0].Rooms[0]
	require.Len(t, room.Pickups, 2)
	assert.Equal(t, "Missile", room.Pickups[0].Type)
	assert.Equal(t, "Nothing", room.Pickups[1].Type)
	assert.Equal(t, "X", room.Pickups[1].ScanText)
	assert.Equal(t, "red", room.Doors[0].Shield)
	assert.Equal(t, []uint32{1, 2}, cfg.Levels[1].Rooms[0].RemoveObjects)
}

func TestLoadStartingMissilesFlag(t *testing.T) {
	flags := func(args ...string) *pflag.FlagSet {
		f := pflag.NewFlagSet("test", pflag.ContinueOnError)
		f.Int("startingMissiles", 0, "")
		f.String("layerOverflow", LayerOverflowRedirect, "")
		require.NoError(t, f.Parse(args))
		return f
	}

	cfg, err := Load("", flags())
	require.NoError(t, err)
	assert.Nil(t, cfg.StartingMissiles)

	cfg, err = Load("", flags("--startingMissiles", "0"))
	require.NoError(t, err)
	require.NotNil(t, cfg.StartingMissiles)
	assert.Equal(t, 0, *cfg.StartingMissiles)

	_, err = Load("", flags("--startingMissiles", "300"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LayerOverflow = "merge"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Levels = []LevelConfig{{Name: "a", Rooms: []RoomConfig{{Name: "b", Pickups: []PickupConfig{{}}}}}}
	assert.Error(t, cfg.Validate())
}

func TestEncoding(t *testing.T) {
	defer SetEncoding(GetEncoding().String())

	assert.Error(t, SetEncoding("no such encoding"))
	require.NoError(t, SetEncoding("Windows 1251"))
	assert.Equal(t, "Windows 1251", GetEncoding().String())
	assert.Contains(t, ListEncodings(), "ISO 8859-1")
}
