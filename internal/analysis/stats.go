package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/galaxy/internal/galaxy"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the spatial spread of a field.
type Summary struct {
	Count      int     `json:"count"`
	MeanRadius float64 `json:"mean_radius"`
	StdRadius  float64 `json:"std_radius"`
	MaxRadius  float64 `json:"max_radius"`
	// MedianRadius is the half-light radius of the disc.
	MedianRadius float64 `json:"median_radius"`
	MeanHeight   float64 `json:"mean_height"`
	StdHeight    float64 `json:"std_height"`
}

// Radii returns the horizontal distance of every particle from the Y axis.
func Radii(f *galaxy.Field) []float64 {
	out := make([]float64, f.Len())
	for i := range out {
		p := f.At(i)
		out[i] = math.Hypot(float64(p.X), float64(p.Z))
	}
	return out
}

func heights(f *galaxy.Field) []float64 {
	out := make([]float64, f.Len())
	for i := range out {
		out[i] = float64(f.At(i).Y)
	}
	return out
}

func Summarize(f *galaxy.Field) Summary {
	s := Summary{Count: f.Len()}
	if s.Count == 0 {
		return s
	}
	radii := Radii(f)
	s.MeanRadius, s.StdRadius = stat.MeanStdDev(radii, nil)
	s.MaxRadius = floats.Max(radii)
	sort.Float64s(radii)
	s.MedianRadius = stat.Quantile(0.5, stat.Empirical, radii, nil)
	s.MeanHeight, s.StdHeight = stat.MeanStdDev(heights(f), nil)
	if s.Count == 1 {
		s.StdRadius, s.StdHeight = 0, 0
	}
	return s
}
