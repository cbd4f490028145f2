package galaxy_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galaxy/internal/galaxy"
)

func horizontal(v galaxy.Vec3) float64 {
	return math.Hypot(float64(v.X), float64(v.Z))
}

var _ = Describe("Generate", func() {
	var params galaxy.Params

	BeforeEach(func() {
		params = galaxy.DefaultParams()
		params.Seed = 42
	})

	It("fills one position triple per particle", func() {
		f, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Positions).To(HaveLen(params.Count * 3))
		Expect(f.Len()).To(Equal(params.Count))
		Expect(f.Colors).To(BeEmpty())
		Expect(f.Colored()).To(BeFalse())
	})

	It("emits a color triple per particle when colored", func() {
		params.Colored = true
		f, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Colors).To(HaveLen(params.Count * 3))
		for _, c := range f.Colors {
			Expect(c).To(BeNumerically(">=", 0))
			Expect(c).To(BeNumerically("<=", 1))
		}
	})

	It("is reproducible for a fixed seed", func() {
		params.Count = 20_000
		a, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		b, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Positions).To(Equal(b.Positions))
	})

	It("differs between seeds", func() {
		a, _ := galaxy.Generate(context.Background(), params)
		params.Seed = 43
		b, _ := galaxy.Generate(context.Background(), params)
		Expect(a.Positions).NotTo(Equal(b.Positions))
	})

	It("records the effective seed when none is given", func() {
		params.Seed = 0
		f, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Params.Seed).NotTo(BeZero())
	})

	It("keeps particles inside the jittered radius", func() {
		params.Count = 10_000
		params.Randomness = 0.5
		params.RandomnessPower = 1
		f, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		limit := params.Radius*(1+params.Randomness*math.Sqrt2) + 1e-4
		for i := 0; i < f.Len(); i++ {
			p := f.At(i)
			Expect(horizontal(p)).To(BeNumerically("<=", limit))
			Expect(math.Abs(float64(p.Y))).To(BeNumerically("<=", params.Randomness*params.Radius+1e-4))
		}
	})

	It("places particles exactly on the arms without randomness", func() {
		params.Randomness = 0
		params.Spin = 0
		params.Branches = 4
		f, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < f.Len(); i++ {
			p := f.At(i)
			Expect(p.Y).To(BeZero())
			if horizontal(p) < 1e-3 {
				continue
			}
			angle := math.Atan2(float64(p.Z), float64(p.X))
			want := float64(i%4) / 4 * 2 * math.Pi
			diff := math.Mod(angle-want+4*math.Pi, 2*math.Pi)
			Expect(math.Min(diff, 2*math.Pi-diff)).To(BeNumerically("<", 1e-4))
		}
	})

	It("spreads the scatter layout over all angles", func() {
		params.Layout = galaxy.LayoutScatter
		params.Count = 4000
		params.Randomness = 0
		f, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		quadrants := [4]int{}
		for i := 0; i < f.Len(); i++ {
			p := f.At(i)
			q := 0
			if p.X < 0 {
				q++
			}
			if p.Z < 0 {
				q += 2
			}
			quadrants[q]++
		}
		for _, n := range quadrants {
			Expect(n).To(BeNumerically(">", 800))
		}
	})

	It("mixes colors from inside to outside", func() {
		params.Colored = true
		params.Randomness = 0
		params.Count = 2000
		f, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		ir, _, ib, _ := galaxy.ParseColor(params.InsideColor)
		or, _, ob, _ := galaxy.ParseColor(params.OutsideColor)
		for i := 0; i < f.Len(); i++ {
			t := horizontal(f.At(i)) / params.Radius
			c := f.ColorAt(i)
			Expect(float64(c.R)).To(BeNumerically("~", ir+(or-ir)*t, 1e-3))
			Expect(float64(c.B)).To(BeNumerically("~", ib+(ob-ib)*t, 1e-3))
		}
	})

	It("rejects out of range parameters", func() {
		params.Branches = 1
		_, err := galaxy.Generate(context.Background(), params)
		Expect(err).To(MatchError(galaxy.ErrParameterBounds))
		var pe *galaxy.ParamError
		Expect(err).To(BeAssignableToTypeOf(pe))
	})

	It("rejects bad colors only when colored", func() {
		params.InsideColor = "nope"
		_, err := galaxy.Generate(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		params.Colored = true
		_, err = galaxy.Generate(context.Background(), params)
		Expect(err).To(MatchError(galaxy.ErrInvalidColor))
	})

	It("rejects unknown layouts", func() {
		params.Layout = "ring"
		_, err := galaxy.Generate(context.Background(), params)
		Expect(err).To(MatchError(galaxy.ErrUnknownLayout))
	})

	It("stops on a canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		params.Count = 100_000
		_, err := galaxy.Generate(ctx, params)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Field", func() {
	It("reports bounds that contain every particle", func() {
		p := galaxy.DefaultParams()
		p.Seed = 7
		f, err := galaxy.Generate(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		lo, hi := f.Bounds()
		for i := 0; i < f.Len(); i++ {
			v := f.At(i)
			Expect(v.X).To(BeNumerically(">=", lo.X))
			Expect(v.X).To(BeNumerically("<=", hi.X))
			Expect(v.Z).To(BeNumerically(">=", lo.Z))
			Expect(v.Z).To(BeNumerically("<=", hi.Z))
		}
	})

	It("treats a nil field as empty", func() {
		var f *galaxy.Field
		Expect(f.Len()).To(Equal(0))
	})

	It("returns white for uncolored particles", func() {
		f := &galaxy.Field{Positions: []float32{0, 0, 0}}
		Expect(f.ColorAt(0)).To(Equal(galaxy.RGB{R: 1, G: 1, B: 1}))
	})
})
