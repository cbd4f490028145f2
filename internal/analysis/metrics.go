package analysis

import "github.com/san-kum/galaxy/internal/galaxy"

// Metrics flattens the summary and arm spectrum of f into the key/value form
// stored alongside snapshots.
func Metrics(f *galaxy.Field) map[string]float64 {
	s := Summarize(f)
	spec := ArmSpectrum(f, DefaultAngularBins)
	return map[string]float64{
		"mean_radius":   s.MeanRadius,
		"std_radius":    s.StdRadius,
		"max_radius":    s.MaxRadius,
		"median_radius": s.MedianRadius,
		"std_height":    s.StdHeight,
		"arms":          float64(spec.Dominant),
		"arm_contrast":  spec.Contrast,
	}
}
