package galaxy

import "math"

// Field is a generated particle buffer.
type Field struct {
	// Positions holds x, y, z per particle.
	Positions []float32
	// Colors holds r, g, b per particle; nil for uncolored galaxies.
	Colors []float32
	// Params is a copy of the generating parameters with the effective seed.
	Params Params
}

// Vec3 is a single particle position.
type Vec3 struct {
	X, Y, Z float32
}

// RGB is a single particle color with components in [0, 1].
type RGB struct {
	R, G, B float32
}

func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Positions) / 3
}

// At returns the position of particle i.
func (f *Field) At(i int) Vec3 {
	return Vec3{f.Positions[i*3], f.Positions[i*3+1], f.Positions[i*3+2]}
}

// ColorAt returns the color of particle i, white when the field is uncolored.
func (f *Field) ColorAt(i int) RGB {
	if len(f.Colors) == 0 {
		return RGB{1, 1, 1}
	}
	return RGB{f.Colors[i*3], f.Colors[i*3+1], f.Colors[i*3+2]}
}

// Colored reports whether a color buffer is present.
func (f *Field) Colored() bool {
	return len(f.Colors) > 0
}

// Bounds returns the axis aligned bounding box of all particles.
func (f *Field) Bounds() (lo, hi Vec3) {
	if f.Len() == 0 {
		return lo, hi
	}
	lo = Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi = Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
		lo.Z, hi.Z = min(lo.Z, p.Z), max(hi.Z, p.Z)
	}
	return lo, hi
}
