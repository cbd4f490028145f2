package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/galaxy/internal/galaxy"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Profile is a radial particle histogram.
type Profile struct {
	// Edges has len(Counts)+1 radial bin boundaries.
	Edges  []float64
	Counts []float64
	// Density is Counts divided by the annulus area of each bin.
	Density []float64
}

// RadialProfile bins particles by horizontal radius into bins equal-width
// rings from the center to the outermost particle.
func RadialProfile(f *galaxy.Field, bins int) Profile {
	if bins <= 0 || f.Len() == 0 {
		return Profile{}
	}
	radii := Radii(f)
	sort.Float64s(radii)

	outer := math.Nextafter(radii[len(radii)-1], math.Inf(1))
	if outer <= 0 {
		outer = 1
	}
	edges := floats.Span(make([]float64, bins+1), 0, outer)
	counts := stat.Histogram(nil, edges, radii, nil)

	density := make([]float64, bins)
	for i := range density {
		area := math.Pi * (edges[i+1]*edges[i+1] - edges[i]*edges[i])
		if area > 0 {
			density[i] = counts[i] / area
		}
	}
	return Profile{Edges: edges, Counts: counts, Density: density}
}
