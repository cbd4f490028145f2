package galaxy

import (
	"fmt"
	"sort"
)

// Variant names of the three feature increments.
const (
	VariantSpiral  = "spiral"
	VariantColored = "colored"
	VariantScatter = "scatter"
)

var variants = map[string]func() Params{
	VariantSpiral: DefaultParams,
	VariantColored: func() Params {
		p := DefaultParams()
		p.Count = 100_000
		p.Randomness = 0.2
		p.Colored = true
		return p
	},
	VariantScatter: func() Params {
		p := DefaultParams()
		p.Layout = LayoutScatter
		p.Count = 5000
		p.Randomness = 0.2
		return p
	},
}

// VariantParams returns the parameter record of a named variant.
func VariantParams(name string) (Params, error) {
	fn, ok := variants[name]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return fn(), nil
}

// Variants lists the registered variant names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
