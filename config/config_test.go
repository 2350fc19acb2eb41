package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64front/block"
	"github.com/sarchlab/rv64front/config"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should have valid defaults", func() {
		c := config.Default()

		Expect(c.Validate()).To(Succeed())
		Expect(c.SigillDiag).To(BeTrue())
		Expect(c.TraceFrontEnd).To(BeFalse())
		Expect(c.MaxBlockInsns).To(Equal(block.DefaultMaxInsns))
	})

	It("should load JSON and keep defaults for missing fields", func() {
		path := filepath.Join(dir, "front.json")
		Expect(os.WriteFile(path, []byte(`{"trace_front_end": true, "cache_ways": 8}`), 0o644)).To(Succeed())

		c, err := config.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(c.TraceFrontEnd).To(BeTrue())
		Expect(c.CacheWays).To(Equal(8))
		Expect(c.CacheSets).To(Equal(block.DefaultCacheSets))
	})

	It("should load YAML by extension", func() {
		path := filepath.Join(dir, "front.yaml")
		Expect(os.WriteFile(path, []byte("sigill_diag: false\nmax_block_insns: 7\n"), 0o644)).To(Succeed())

		c, err := config.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(c.SigillDiag).To(BeFalse())
		Expect(c.MaxBlockInsns).To(Equal(7))
	})

	It("should round-trip through both formats", func() {
		c := config.Default()
		c.MaxInstructions = 1000
		c.GuardWindow = 8

		for _, name := range []string{"a.json", "a.yml"} {
			path := filepath.Join(dir, name)
			Expect(c.Save(path)).To(Succeed())

			loaded, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(c))
		}
	})

	It("should report parse errors", func() {
		path := filepath.Join(dir, "bad.json")
		Expect(os.WriteFile(path, []byte("{"), 0o644)).To(Succeed())

		_, err := config.Load(path)
		Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
	})

	It("should report missing files", func() {
		_, err := config.Load(filepath.Join(dir, "missing.json"))
		Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
	})

	It("should reject unusable values", func() {
		c := config.Default()
		c.GuardWindow = 2
		Expect(c.Validate()).To(MatchError("guard_window must be >= 4"))

		c = config.Default()
		c.CacheWays = 0
		Expect(c.Validate()).To(MatchError("cache_ways must be > 0"))

		c = config.Default()
		c.MaxBlockInsns = 0
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("should clone independently", func() {
		c := config.Default()
		clone := c.Clone()
		clone.CacheSets = 1

		Expect(c.CacheSets).To(Equal(block.DefaultCacheSets))
	})

	It("should build a driver with the configured cache", func() {
		c := config.Default()
		c.CacheSets = 2
		c.CacheWays = 1

		d := c.NewDriver(GinkgoLogr)

		Expect(d.Cache()).NotTo(BeNil())
		Expect(d.FrontEnd()).NotTo(BeNil())
	})
})
