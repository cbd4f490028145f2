package galaxy

import (
	"fmt"
	"math"
)

// Control describes one tunable parameter as shown in a panel.
type Control struct {
	Key     string
	Label   string
	Min     float64
	Max     float64
	Step    float64
	Integer bool
}

var controls = []Control{
	{Key: "count", Label: "particles", Min: 100, Max: 1_000_000, Step: 100, Integer: true},
	{Key: "size", Label: "size", Min: 0.001, Max: 0.1, Step: 0.001},
	{Key: "radius", Label: "radius", Min: 0.01, Max: 20, Step: 0.01},
	{Key: "branches", Label: "branches", Min: 2, Max: 20, Step: 1, Integer: true},
	{Key: "spin", Label: "spin", Min: -5, Max: 5, Step: 0.01},
	{Key: "randomness", Label: "randomness", Min: 0, Max: 2, Step: 0.01},
	{Key: "randomness_power", Label: "randomness power", Min: 1, Max: 10, Step: 0.01},
}

// Controls returns the tunable parameters in panel order.
func Controls() []Control {
	out := make([]Control, len(controls))
	copy(out, controls)
	return out
}

// LookupControl returns the control registered under key.
func LookupControl(key string) (Control, bool) {
	for _, c := range controls {
		if c.Key == key {
			return c, true
		}
	}
	return Control{}, false
}

// Snap rounds v onto the control's step grid and clamps it into range.
func (c Control) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return c.Min
	}
	if c.Step > 0 {
		v = c.Min + math.Round((v-c.Min)/c.Step)*c.Step
	}
	// Trim float noise left by the step multiplication.
	v = math.Round(v*1e9) / 1e9
	return math.Max(c.Min, math.Min(c.Max, v))
}

// Contains reports whether v lies inside the control range.
func (c Control) Contains(v float64) bool {
	return v >= c.Min && v <= c.Max
}

// Get returns the value of the parameter registered under key.
func (p Params) Get(key string) (float64, error) {
	switch key {
	case "count":
		return float64(p.Count), nil
	case "size":
		return p.Size, nil
	case "radius":
		return p.Radius, nil
	case "branches":
		return float64(p.Branches), nil
	case "spin":
		return p.Spin, nil
	case "randomness":
		return p.Randomness, nil
	case "randomness_power":
		return p.RandomnessPower, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, key)
}

// Set snaps v to the control's step, clamps it into range and stores it.
func (p *Params) Set(key string, v float64) error {
	c, ok := LookupControl(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	v = c.Snap(v)
	switch key {
	case "count":
		p.Count = int(v)
	case "size":
		p.Size = v
	case "radius":
		p.Radius = v
	case "branches":
		p.Branches = int(v)
	case "spin":
		p.Spin = v
	case "randomness":
		p.Randomness = v
	case "randomness_power":
		p.RandomnessPower = v
	}
	return nil
}

// Values returns every control value keyed by control key.
func (p Params) Values() map[string]float64 {
	out := make(map[string]float64, len(controls))
	for _, c := range controls {
		v, _ := p.Get(c.Key)
		out[c.Key] = v
	}
	return out
}
