package galaxy

import (
	"fmt"
	"math"
)

// Layout selects how particles are placed around the center.
type Layout string

const (
	LayoutSpiral  Layout = "spiral"
	LayoutScatter Layout = "scatter"
)

const (
	DefaultCount           = 1000
	DefaultSize            = 0.01
	DefaultRadius          = 5.0
	DefaultBranches        = 3
	DefaultSpin            = 1.0
	DefaultRandomness      = 0.02
	DefaultRandomnessPower = 3.0
	DefaultInsideColor     = "#ff6030"
	DefaultOutsideColor    = "#1b3984"
)

// Params is the full description of a galaxy.
type Params struct {
	Count           int     `yaml:"count" json:"count"`
	Size            float64 `yaml:"size" json:"size"`
	Radius          float64 `yaml:"radius" json:"radius"`
	Branches        int     `yaml:"branches" json:"branches"`
	Spin            float64 `yaml:"spin" json:"spin"`
	Randomness      float64 `yaml:"randomness" json:"randomness"`
	RandomnessPower float64 `yaml:"randomness_power" json:"randomness_power"`
	Layout          Layout  `yaml:"layout" json:"layout"`
	Colored         bool    `yaml:"colored" json:"colored"`
	InsideColor     string  `yaml:"inside_color" json:"inside_color"`
	OutsideColor    string  `yaml:"outside_color" json:"outside_color"`
	// Seed 0 picks a seed from the clock at generation time.
	Seed int64 `yaml:"seed" json:"seed"`
}

// DefaultParams returns the parameters of the plain spiral.
func DefaultParams() Params {
	return Params{
		Count:           DefaultCount,
		Size:            DefaultSize,
		Radius:          DefaultRadius,
		Branches:        DefaultBranches,
		Spin:            DefaultSpin,
		Randomness:      DefaultRandomness,
		RandomnessPower: DefaultRandomnessPower,
		Layout:          LayoutSpiral,
		InsideColor:     DefaultInsideColor,
		OutsideColor:    DefaultOutsideColor,
	}
}

// Validate checks every parameter against its control range.
func (p Params) Validate() error {
	for _, c := range controls {
		v, _ := p.Get(c.Key)
		if math.IsNaN(v) || !c.Contains(v) {
			return &ParamError{Field: c.Key, Value: v, Min: c.Min, Max: c.Max}
		}
	}
	switch p.Layout {
	case LayoutSpiral, LayoutScatter:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLayout, p.Layout)
	}
	if p.Colored {
		if _, _, err := p.colors(); err != nil {
			return err
		}
	}
	return nil
}
