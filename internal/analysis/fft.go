package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/galaxy/internal/galaxy"
)

// DefaultAngularBins is the angular histogram resolution used by ArmSpectrum.
const DefaultAngularBins = 256

// Spectrum is the normalized angular power of a galaxy.
type Spectrum struct {
	// Power[k] is |F[k]| / |F[0]| for harmonics 0..bins/2.
	Power []float64
	// Dominant is the lowest harmonic holding at least half the peak power.
	Dominant int
	// Contrast is Power[Dominant]; 0 for uniform discs, 1 for ideal arms.
	Contrast float64
}

// AngularHistogram counts particles per angular bin around the Y axis.
// Spiral fields are un-wound by their spin first.
func AngularHistogram(f *galaxy.Field, bins int) []float64 {
	hist := make([]float64, bins)
	if bins == 0 {
		return hist
	}
	unwind := 0.0
	if f.Params.Layout == galaxy.LayoutSpiral {
		unwind = f.Params.Spin
	}
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		x, z := float64(p.X), float64(p.Z)
		theta := math.Atan2(z, x) - math.Hypot(x, z)*unwind
		theta = math.Mod(theta, 2*math.Pi)
		if theta < 0 {
			theta += 2 * math.Pi
		}
		b := int(theta / (2 * math.Pi) * float64(bins))
		if b >= bins {
			b = bins - 1
		}
		hist[b]++
	}
	return hist
}

// ArmSpectrum computes the angular power spectrum of f.
func ArmSpectrum(f *galaxy.Field, bins int) Spectrum {
	if bins <= 0 {
		bins = DefaultAngularBins
	}
	hist := AngularHistogram(f, bins)
	coeffs := fft.FFTReal(hist)

	s := Spectrum{Power: make([]float64, bins/2+1)}
	dc := cmplx.Abs(coeffs[0])
	if dc == 0 {
		return s
	}
	peak := 0.0
	for k := range s.Power {
		s.Power[k] = cmplx.Abs(coeffs[k]) / dc
		if k > 0 && s.Power[k] > peak {
			peak = s.Power[k]
		}
	}
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] >= peak/2 {
			s.Dominant = k
			s.Contrast = s.Power[k]
			break
		}
	}
	return s
}
