package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Builder", func() {
	It("should build with the default configuration", func() {
		c := MakeBuilder().Build("L1D")

		Expect(c.Name()).To(Equal("L1D"))
		Expect(c.ByteSize()).To(Equal(32 * KB))
		Expect(c.LineSize()).To(Equal(uint64(64)))
		Expect(c.Associativity()).To(Equal(4))
		Expect(c.NumSets()).To(Equal(uint64(128)))
	})

	It("should build direct-mapped caches", func() {
		c := MakeBuilder().
			WithByteSize(8 * KB).
			WithLineSize(32).
			WithWayAssociativity(1).
			WithReplacementStrategy("direct").
			Build("L1I")

		Expect(c.NumSets()).To(Equal(uint64(256)))

		c.AccessSingleLine(0x1000, AccessTypeLoad)
		Expect(c.AccessSingleLine(0x1000, AccessTypeLoad)).To(BeTrue())
	})

	It("should reject a non-power-of-two line size", func() {
		Expect(func() {
			MakeBuilder().WithLineSize(48).Build("L1D")
		}).To(Panic())
	})

	It("should reject a zero line size", func() {
		Expect(func() {
			MakeBuilder().WithLineSize(0).Build("L1D")
		}).To(Panic())
	})

	It("should reject a zero byte size", func() {
		Expect(func() {
			MakeBuilder().WithByteSize(0).Build("L1D")
		}).To(Panic())
	})

	It("should reject a non-power-of-two set count", func() {
		Expect(func() {
			MakeBuilder().
				WithByteSize(24 * KB).
				WithLineSize(64).
				WithWayAssociativity(4).
				Build("L1D")
		}).To(Panic())
	})

	It("should reject geometry with a fractional set count", func() {
		Expect(func() {
			MakeBuilder().
				WithByteSize(1000).
				WithLineSize(64).
				WithWayAssociativity(4).
				Build("L1D")
		}).To(Panic())
	})

	It("should reject associativity beyond the set maximum", func() {
		Expect(func() {
			MakeBuilder().
				WithByteSize(4 * MB).
				WithWayAssociativity(MaxAssociativity * 2).
				Build("L2")
		}).To(Panic())
	})

	It("should reject direct-mapped sets with more than one way", func() {
		Expect(func() {
			MakeBuilder().
				WithReplacementStrategy("direct").
				Build("L1D")
		}).To(Panic())
	})

	It("should reject an unknown replacement strategy", func() {
		Expect(func() {
			MakeBuilder().
				WithReplacementStrategy("plru").
				Build("L1D")
		}).To(Panic())
	})
})
