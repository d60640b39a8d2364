package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	LayerOverflowRedirect = "redirect"
	LayerOverflowReject   = "reject"
)

// PatchConfig describes one patch run. Sequences keep declaration order,
// synthesized resource ids are allocated in that order.
type PatchConfig struct {
	Input  string `koanf:"input"`
	Output string `koanf:"output"`

	Encoding      string `koanf:"encoding"`
	LayerOverflow string `koanf:"layerOverflow"`

	StartingMemo  string `koanf:"startingMemo"`
	StartingVisor string `koanf:"startingVisor"`
	// nil keeps missiles of original executable
	StartingMissiles *int `koanf:"startingMissiles"`

	Banner BannerConfig `koanf:"banner"`

	ExternAssetsDir   string                   `koanf:"externAssetsDir"`
	ExternModels      []ExternModelConfig      `koanf:"externModels"`
	FileSubstitutions []FileSubstitutionConfig `koanf:"fileSubstitutions"`

	Levels []LevelConfig `koanf:"levels"`
}

type BannerConfig struct {
	GameName     string `koanf:"gameName"`
	Maker        string `koanf:"maker"`
	FullGameName string `koanf:"fullGameName"`
	FullMaker    string `koanf:"fullMaker"`
	Description  string `koanf:"description"`
}

func (b *BannerConfig) IsEmpty() bool {
	return *b == BannerConfig{}
}

// ExternModelConfig names model shipped next to config. Textures are loaded
// in slot order and replace model texture references.
type ExternModelConfig struct {
	Name     string   `koanf:"name"`
	Model    string   `koanf:"model"`
	Textures []string `koanf:"textures"`
}

type FileSubstitutionConfig struct {
	Disc   string `koanf:"disc"`
	Source string `koanf:"source"`
}

type LevelConfig struct {
	Name  string       `koanf:"name"`
	Rooms []RoomConfig `koanf:"rooms"`
}

type RoomConfig struct {
	Name          string              `koanf:"name"`
	Pickups       []PickupConfig      `koanf:"pickups"`
	Doors         []DoorConfig        `koanf:"doors"`
	ExtraScans    []ScanConfig        `koanf:"extraScans"`
	RemoveObjects []uint32            `koanf:"removeObjects"`
	LayerToggles  []LayerToggleConfig `koanf:"layerToggles"`
}

type PickupConfig struct {
	Type         string `koanf:"type"`
	CurrIncrease *int   `koanf:"currIncrease"`
	MaxIncrease  *int   `koanf:"maxIncrease"`
	Model        string `koanf:"model"`
	ScanText     string `koanf:"scanText"`
	HudmemoText  string `koanf:"hudmemoText"`
}

type DoorConfig struct {
	Shield string `koanf:"shield"`
}

type ScanConfig struct {
	Position  [3]float32 `koanf:"position"`
	Text      string     `koanf:"text"`
	Title     string     `koanf:"title"`
	Category  uint32     `koanf:"category"`
	Important bool       `koanf:"important"`
}

// LayerToggleConfig moves Objects into new disabled layer that is enabled
// when Source enters State
type LayerToggleConfig struct {
	Layer   string   `koanf:"layer"`
	Source  uint32   `koanf:"source"`
	State   string   `koanf:"state"`
	Objects []uint32 `koanf:"objects"`
}

func Default() *PatchConfig {
	return &PatchConfig{
		Encoding:      GetEncoding().String(),
		LayerOverflow: LayerOverflowRedirect,
	}
}

// Load reads yaml file at path (may be empty) and overlays changed flags
func Load(path string, flags *pflag.FlagSet) (*PatchConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "[config] Failed to load %q", path)
		}
	}
	if flags != nil {
		// defaults come from Default, only flags given on command line override
		changed := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		})
		if err := k.Load(changed, nil); err != nil {
			return nil, errors.Wrapf(err, "[config] Failed to load flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrapf(err, "[config] Failed to unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := SetEncoding(cfg.Encoding); err != nil {
		return nil, errors.Wrapf(err, "[config] Encoding")
	}
	return cfg, nil
}

// Validate checks fields that can be checked without catalog
func (cfg *PatchConfig) Validate() error {
	switch cfg.LayerOverflow {
	case LayerOverflowRedirect, LayerOverflowReject:
	default:
		return errors.Errorf("[config] Unknown layerOverflow policy %q", cfg.LayerOverflow)
	}
	if m := cfg.StartingMissiles; m != nil && (*m < 0 || *m > 0xFF) {
		return errors.Errorf("[config] Starting missiles %d out of range", *m)
	}
	for _, lvl := range cfg.Levels {
		if lvl.Name == "" {
			return errors.Errorf("[config] Level without name")
		}
		for _, room := range lvl.Rooms {
			if room.Name == "" {
				return errors.Errorf("[config] Room without name in level %q", lvl.Name)
			}
			for i, p := range room.Pickups {
				if p.Type == "" {
					return errors.Errorf("[config] %s/%s pickup %d: type is required", lvl.Name, room.Name, i)
				}
			}
		}
	}
	names := make(map[string]bool)
	for _, m := range cfg.ExternModels {
		if names[m.Name] {
			return errors.Errorf("[config] Duplicate extern model %q", m.Name)
		}
		names[m.Name] = true
	}
	return nil
}
