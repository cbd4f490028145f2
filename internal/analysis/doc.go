// Package analysis measures generated galaxies.
//
//   - [Summarize]: radius and height statistics
//   - [RadialProfile]: particle density per radial bin
//   - [ArmSpectrum]: angular power spectrum after un-winding the spin
//
// # Arm Detection
//
// Un-winding every particle by radius*spin straightens the arms, so a galaxy
// with N branches concentrates its angular power in harmonic N:
//
//	s := analysis.ArmSpectrum(field, 256)
//	if s.Dominant == field.Params.Branches {
//	    // arms are resolved
//	}
package analysis
