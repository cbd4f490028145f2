package galaxy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galaxy/internal/galaxy"
)

var _ = Describe("Controls", func() {
	It("lists every parameter in panel order", func() {
		keys := []string{}
		for _, c := range galaxy.Controls() {
			keys = append(keys, c.Key)
		}
		Expect(keys).To(Equal([]string{"count", "size", "radius", "branches", "spin", "randomness", "randomness_power"}))
	})

	DescribeTable("Set snaps and clamps",
		func(key string, in, want float64) {
			p := galaxy.DefaultParams()
			Expect(p.Set(key, in)).To(Succeed())
			got, err := p.Get(key)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", want, 1e-9))
		},
		Entry("count rounds to step", "count", 1234.0, 1200.0),
		Entry("count clamps high", "count", 5e6, 1e6),
		Entry("branches clamps low", "branches", 0.0, 2.0),
		Entry("spin keeps sign", "spin", -1.234, -1.23),
		Entry("size rounds", "size", 0.0123, 0.012),
		Entry("randomness clamps", "randomness", 9.0, 2.0),
		Entry("power clamps low", "randomness_power", 0.2, 1.0),
	)

	It("rejects unknown keys", func() {
		p := galaxy.DefaultParams()
		Expect(p.Set("mass", 1)).To(MatchError(galaxy.ErrUnknownParam))
		_, err := p.Get("mass")
		Expect(err).To(MatchError(galaxy.ErrUnknownParam))
	})

	It("keeps defaults inside every range", func() {
		Expect(galaxy.DefaultParams().Validate()).To(Succeed())
		values := galaxy.DefaultParams().Values()
		for _, c := range galaxy.Controls() {
			Expect(c.Contains(values[c.Key])).To(BeTrue(), c.Key)
		}
	})
})

var _ = Describe("Variants", func() {
	It("registers the three increments", func() {
		Expect(galaxy.Variants()).To(Equal([]string{"colored", "scatter", "spiral"}))
	})

	It("builds valid parameters for each variant", func() {
		for _, name := range galaxy.Variants() {
			p, err := galaxy.VariantParams(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Validate()).To(Succeed(), name)
		}
	})

	It("colors only the colored variant", func() {
		p, _ := galaxy.VariantParams(galaxy.VariantColored)
		Expect(p.Colored).To(BeTrue())
		p, _ = galaxy.VariantParams(galaxy.VariantScatter)
		Expect(p.Layout).To(Equal(galaxy.LayoutScatter))
	})

	It("fails for unknown names", func() {
		_, err := galaxy.VariantParams("elliptical")
		Expect(err).To(MatchError(galaxy.ErrUnknownVariant))
	})
})
