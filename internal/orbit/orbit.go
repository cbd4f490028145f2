// Package orbit implements a damped orbit camera around a target point.
//
// Input is queued as deltas (Rotate, Pan, Zoom) and drained a fraction per
// Update, which gives the camera its inertia. FlyTo animates the camera to a
// new viewpoint with an eased tween.
package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	DefaultDamping = 0.05
	polarEpsilon   = 1e-6
)

// WorldUp is the camera's up axis; galaxies lie in the XZ plane.
var WorldUp = mgl64.Vec3{0, 1, 0}

type view struct {
	target                  mgl64.Vec3
	radius, polar, azimuth float64
}

type flight struct {
	from, to view
	tween    *gween.Tween
}

// Controller orbits a camera around a target.
type Controller struct {
	Damping     float64
	MinDistance float64
	MaxDistance float64

	cur  view
	home view

	dAzimuth, dPolar float64
	scale            float64
	pan              mgl64.Vec3

	fly *flight
}

// New creates a controller looking from position at target.
func New(position, target mgl64.Vec3) *Controller {
	v := viewFrom(position, target)
	return &Controller{
		Damping:     DefaultDamping,
		MinDistance: 0.5,
		MaxDistance: 90,
		cur:         v,
		home:        v,
		scale:       1,
	}
}

// viewFrom converts an eye position into spherical coordinates around target.
// Azimuth is measured from +Z toward +X, polar from +Y.
func viewFrom(position, target mgl64.Vec3) view {
	off := position.Sub(target)
	r := off.Len()
	if r == 0 {
		return view{target: target, polar: math.Pi / 2}
	}
	polar := math.Acos(mgl64.Clamp(off.Y()/r, -1, 1))
	azimuth := math.Atan2(off.X(), off.Z())
	return view{target: target, radius: r, polar: polar, azimuth: azimuth}
}

// position maps mgl64's Z-up spherical convention onto the Y-up world.
func (v view) position() mgl64.Vec3 {
	s := mgl64.SphericalToCartesian(v.radius, v.polar, v.azimuth)
	return v.target.Add(mgl64.Vec3{s.Y(), s.Z(), s.X()})
}

// Rotate queues an orbit by dAzimuth around the up axis and dPolar toward it.
func (c *Controller) Rotate(dAzimuth, dPolar float64) {
	c.dAzimuth += dAzimuth
	c.dPolar += dPolar
}

// Zoom queues a distance multiplier; values below 1 move closer.
func (c *Controller) Zoom(scale float64) {
	if scale > 0 {
		c.scale *= scale
	}
}

// Pan queues a sideways move of the target. dx and dy are fractions of the
// current distance along the camera's right and up vectors.
func (c *Controller) Pan(dx, dy float64) {
	forward := c.cur.target.Sub(c.cur.position()).Normalize()
	right := forward.Cross(WorldUp)
	if right.Len() < 1e-9 {
		right = mgl64.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up := right.Cross(forward).Normalize()
	c.pan = c.pan.Add(right.Mul(-dx * c.cur.radius)).Add(up.Mul(dy * c.cur.radius))
}

// FlyTo animates the camera to look from position at target over seconds.
func (c *Controller) FlyTo(position, target mgl64.Vec3, seconds float64) {
	to := viewFrom(position, target)
	// Take the short way round.
	for to.azimuth-c.cur.azimuth > math.Pi {
		to.azimuth -= 2 * math.Pi
	}
	for to.azimuth-c.cur.azimuth < -math.Pi {
		to.azimuth += 2 * math.Pi
	}
	c.clearDeltas()
	c.fly = &flight{from: c.cur, to: to, tween: gween.New(0, 1, float32(seconds), ease.InOutCubic)}
}

// Reset flies back to the starting viewpoint.
func (c *Controller) Reset(seconds float64) {
	c.FlyTo(c.home.position(), c.home.target, seconds)
}

// Flying reports whether a FlyTo animation is in progress.
func (c *Controller) Flying() bool {
	return c.fly != nil
}

func (c *Controller) clearDeltas() {
	c.dAzimuth, c.dPolar, c.scale = 0, 0, 1
	c.pan = mgl64.Vec3{}
}

// Update applies damped input, advances any animation and returns the eye
// position.
func (c *Controller) Update(dt float64) mgl64.Vec3 {
	if c.fly != nil {
		t, done := c.fly.tween.Update(float32(dt))
		c.cur = lerpView(c.fly.from, c.fly.to, float64(t))
		if done {
			c.cur = c.fly.to
			c.fly = nil
		}
		c.clearDeltas()
		return c.cur.position()
	}

	d := c.Damping
	if d <= 0 || d > 1 {
		d = 1
	}
	c.cur.azimuth += c.dAzimuth * d
	c.cur.polar += c.dPolar * d
	c.cur.polar = math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, c.cur.polar))
	c.cur.radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, c.cur.radius*c.scale))
	c.cur.target = c.cur.target.Add(c.pan.Mul(d))

	c.dAzimuth *= 1 - d
	c.dPolar *= 1 - d
	c.pan = c.pan.Mul(1 - d)
	c.scale = 1

	return c.cur.position()
}

func lerpView(a, b view, t float64) view {
	return view{
		target:  a.target.Add(b.target.Sub(a.target).Mul(t)),
		radius:  a.radius + (b.radius-a.radius)*t,
		polar:   a.polar + (b.polar-a.polar)*t,
		azimuth: a.azimuth + (b.azimuth-a.azimuth)*t,
	}
}

func (c *Controller) Position() mgl64.Vec3 { return c.cur.position() }
func (c *Controller) Target() mgl64.Vec3   { return c.cur.target }
func (c *Controller) Distance() float64    { return c.cur.radius }

// Angles returns the current azimuth and polar angle in radians.
func (c *Controller) Angles() (azimuth, polar float64) {
	return c.cur.azimuth, c.cur.polar
}

// Up is the camera's up vector.
func (c *Controller) Up() mgl64.Vec3 { return WorldUp }
