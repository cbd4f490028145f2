package galaxy

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of particles generated from one random source.
// Changing it changes the output for a given seed.
const chunkSize = 4096

// Generate validates p and builds a new particle field.
func Generate(ctx context.Context, p Params) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Seed == 0 {
		p.Seed = time.Now().UnixNano()
	}

	f := &Field{
		Positions: make([]float32, p.Count*3),
		Params:    p,
	}
	var grad *gradient
	if p.Colored {
		inside, outside, _ := p.colors()
		grad = &gradient{inside: inside, outside: outside}
		f.Colors = make([]float32, p.Count*3)
	}

	chunks := (p.Count + chunkSize - 1) / chunkSize
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for c := 0; c < chunks; c++ {
		start := c * chunkSize
		end := min(start+chunkSize, p.Count)
		seed := p.Seed + int64(c)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fill(f, grad, start, end, rand.New(rand.NewSource(seed)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// fill writes particles [start, end) of f.
func fill(f *Field, grad *gradient, start, end int, rng *rand.Rand) {
	p := f.Params
	for i := start; i < end; i++ {
		r := rng.Float64() * p.Radius

		var angle float64
		switch p.Layout {
		case LayoutScatter:
			angle = rng.Float64() * 2 * math.Pi
		default:
			branch := float64(i%p.Branches) / float64(p.Branches) * 2 * math.Pi
			angle = branch + r*p.Spin
		}

		jx := jitter(rng, p.RandomnessPower) * p.Randomness * r
		jy := jitter(rng, p.RandomnessPower) * p.Randomness * r
		jz := jitter(rng, p.RandomnessPower) * p.Randomness * r

		o := i * 3
		f.Positions[o] = float32(math.Cos(angle)*r + jx)
		f.Positions[o+1] = float32(jy)
		f.Positions[o+2] = float32(math.Sin(angle)*r + jz)

		if grad != nil {
			c := grad.at(r / p.Radius)
			f.Colors[o] = float32(c.R)
			f.Colors[o+1] = float32(c.G)
			f.Colors[o+2] = float32(c.B)
		}
	}
}

// jitter returns U^power with a random sign.
func jitter(rng *rand.Rand, power float64) float64 {
	v := math.Pow(rng.Float64(), power)
	if rng.Float64() < 0.5 {
		return -v
	}
	return v
}
