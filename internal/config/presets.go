package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/galaxy/internal/galaxy"
)

var Presets = map[string]func() galaxy.Params{
	"spiral": galaxy.DefaultParams,
	"colored": func() galaxy.Params {
		p, _ := galaxy.VariantParams(galaxy.VariantColored)
		return p
	},
	"scatter": func() galaxy.Params {
		p, _ := galaxy.VariantParams(galaxy.VariantScatter)
		return p
	},
	"dense": func() galaxy.Params {
		p := galaxy.DefaultParams()
		p.Count = 200_000
		p.Size = 0.005
		p.Randomness = 0.3
		p.Colored = true
		return p
	},
	"whirlpool": func() galaxy.Params {
		p := galaxy.DefaultParams()
		p.Count = 50_000
		p.Branches = 2
		p.Spin = 2.5
		p.Randomness = 0.15
		p.RandomnessPower = 4
		p.Colored = true
		p.InsideColor = "#fff1c1"
		p.OutsideColor = "#3a1c71"
		return p
	},
	"barred": func() galaxy.Params {
		p := galaxy.DefaultParams()
		p.Count = 50_000
		p.Branches = 6
		p.Spin = -0.6
		p.Randomness = 0.25
		p.RandomnessPower = 2.5
		p.Radius = 8
		p.Colored = true
		return p
	},
}

func GetPreset(name string) *galaxy.Params {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	p := fn()
	return &p
}

// Preset is GetPreset with an error for unknown names.
func Preset(name string) (galaxy.Params, error) {
	p := GetPreset(name)
	if p == nil {
		return galaxy.Params{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return *p, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
