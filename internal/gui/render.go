package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/galaxy/internal/galaxy"
)

// minPixels is the smallest on-screen size of a particle.
const minPixels = 1.5

// drawField draws each particle as a glow billboard with additive blending and
// depth writes off. Must be called inside BeginMode3D.
func (a *App) drawField() {
	f := a.Field
	if f == nil || f.Len() == 0 {
		return
	}
	eye := a.Orbit.Position()
	forward := a.Orbit.Target().Sub(eye).Normalize()
	pixel := pixelSpan(a.Config.Camera.Fov, float64(a.Target.Texture.Height))
	near, far := a.Config.Camera.Near, a.Config.Camera.Far
	size := f.Params.Size

	rl.DrawRenderBatchActive()
	rl.DisableDepthMask()
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		depth := mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}.Sub(eye).Dot(forward)
		if depth < near || depth > far {
			continue
		}
		scale := pointScale(size, depth, pixel)
		rl.DrawBillboard(a.Camera, a.ParticleTex, rl.NewVector3(p.X, p.Y, p.Z), float32(scale), tint(f, i))
	}
	rl.EndBlendMode()
	rl.DrawRenderBatchActive()
	rl.EnableDepthMask()
}

// pixelSpan is the world size of one pixel at unit depth.
func pixelSpan(fovDeg, height float64) float64 {
	if height <= 0 {
		return 0
	}
	return 2 * math.Tan(mgl64.DegToRad(fovDeg)/2) / height
}

// pointScale returns the billboard size of a particle at depth. Particles
// keep their world size, so they shrink with distance, but never drop below
// minPixels on screen.
func pointScale(size, depth, pixel float64) float64 {
	return math.Max(size, depth*pixel*minPixels)
}

func tint(f *galaxy.Field, i int) rl.Color {
	c := f.ColorAt(i)
	return rl.NewColor(channel(float64(c.R)), channel(float64(c.G)), channel(float64(c.B)), 255)
}
