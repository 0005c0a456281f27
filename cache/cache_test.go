package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/cachesim/hooking"
)

type countingHook struct {
	hits, misses int
	lastInfo     AccessInfo
}

func (h *countingHook) Func(ctx hooking.HookCtx) {
	info := ctx.Item.(AccessInfo)
	h.lastInfo = info

	if ctx.Pos == HookPosCacheHit {
		h.hits++
	} else {
		h.misses++
	}
}

var _ = Describe("Cache", func() {
	var c *Cache

	BeforeEach(func() {
		c = MakeBuilder().
			WithByteSize(32 * KB).
			WithLineSize(64).
			WithWayAssociativity(4).
			Build("L1D")
	})

	It("should satisfy the geometry invariant", func() {
		Expect(c.NumSets() * uint64(c.Associativity()) * c.LineSize()).
			To(Equal(c.ByteSize()))
		Expect(c.NumSets()).To(Equal(uint64(128)))
	})

	It("should split addresses from the shifted address", func() {
		tag, setIndex := c.SplitAddress(0x1000)

		Expect(tag.Value()).To(Equal(uint64(0x40)))
		Expect(setIndex).To(Equal(uint64(64)))
	})

	It("should split out the line offset", func() {
		tag, setIndex, lineOffset := c.SplitAddressOffset(0x1013)

		Expect(tag.Value()).To(Equal(uint64(0x40)))
		Expect(setIndex).To(Equal(uint64(64)))
		Expect(lineOffset).To(Equal(uint64(0x13)))
	})

	It("should count one miss then one hit on repeated loads", func() {
		hit1 := c.AccessSingleLine(0x2040, AccessTypeLoad)
		hit2 := c.AccessSingleLine(0x2040, AccessTypeLoad)

		Expect(hit1).To(BeFalse())
		Expect(hit2).To(BeTrue())
		Expect(c.Hits(AccessTypeLoad)).To(Equal(uint64(1)))
		Expect(c.Misses(AccessTypeLoad)).To(Equal(uint64(1)))
		Expect(c.Accesses(AccessTypeLoad)).To(Equal(uint64(2)))
	})

	It("should keep load and store counters separate", func() {
		for i := 0; i < 3; i++ {
			c.AccessSingleLine(uint64(0x10000+i*64), AccessTypeLoad)
		}
		for i := 0; i < 2; i++ {
			c.AccessSingleLine(uint64(0x20000+i*64), AccessTypeStore)
		}

		Expect(c.Accesses(AccessTypeLoad)).To(Equal(uint64(3)))
		Expect(c.Accesses(AccessTypeStore)).To(Equal(uint64(2)))
		Expect(c.TotalAccesses()).To(Equal(uint64(5)))
		Expect(c.TotalHits() + c.TotalMisses()).To(Equal(uint64(5)))
	})

	It("should allocate on store misses by default", func() {
		c.AccessSingleLine(0x3000, AccessTypeStore)

		Expect(c.AccessSingleLine(0x3000, AccessTypeLoad)).To(BeTrue())
	})

	It("should count once per line on multi-line accesses", func() {
		// Warm lines 1 and 3, leave line 2 cold.
		c.AccessSingleLine(0x4000, AccessTypeLoad)
		c.AccessSingleLine(0x4080, AccessTypeLoad)

		hitsBefore := c.TotalHits()
		missesBefore := c.TotalMisses()

		allHit := c.Access(0x4000, 3*64, AccessTypeLoad)

		Expect(allHit).To(BeFalse())
		Expect(c.TotalHits() - hitsBefore).To(Equal(uint64(2)))
		Expect(c.TotalMisses() - missesBefore).To(Equal(uint64(1)))
	})

	It("should touch a single line for a small aligned access", func() {
		c.Access(0x5000, 8, AccessTypeLoad)

		Expect(c.TotalAccesses()).To(Equal(uint64(1)))
	})

	It("should touch two lines when an access straddles them", func() {
		c.Access(0x503c, 8, AccessTypeLoad)

		Expect(c.TotalAccesses()).To(Equal(uint64(2)))
	})

	It("should invoke hooks with the access outcome", func() {
		hook := &countingHook{}
		c.AcceptHook(hook)

		c.AccessSingleLine(0x6000, AccessTypeStore)
		c.AccessSingleLine(0x6000, AccessTypeLoad)

		Expect(hook.misses).To(Equal(1))
		Expect(hook.hits).To(Equal(1))
		Expect(hook.lastInfo.Address).To(Equal(uint64(0x6000)))
		Expect(hook.lastInfo.Type).To(Equal(AccessTypeLoad))
		Expect(hook.lastInfo.Hit).To(BeTrue())
	})
})

var _ = Describe("Cache with store-no-allocate sets", func() {
	var c *Cache

	BeforeEach(func() {
		c = MakeBuilder().
			WithByteSize(32 * KB).
			WithLineSize(64).
			WithWayAssociativity(4).
			WithAllocationPolicy(StoreNoAllocate).
			Build("L1D")
	})

	It("should leave occupancy unchanged on a store miss", func() {
		Expect(c.AccessSingleLine(0x7000, AccessTypeStore)).To(BeFalse())

		// A load to the same line still misses, proving no residency
		// was created by the store.
		Expect(c.AccessSingleLine(0x7000, AccessTypeLoad)).To(BeFalse())
		Expect(c.AccessSingleLine(0x7000, AccessTypeLoad)).To(BeTrue())
	})

	It("should still allocate on load misses", func() {
		c.AccessSingleLine(0x8000, AccessTypeLoad)

		Expect(c.AccessSingleLine(0x8000, AccessTypeStore)).To(BeTrue())
	})
})

var _ = Describe("Cache set dispatch", func() {
	var (
		mockCtrl *gomock.Controller
		c        *Cache
		sets     []*MockSet
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		c = MakeBuilder().
			WithByteSize(1 * KB).
			WithLineSize(64).
			WithWayAssociativity(4).
			Build("L1D")

		sets = make([]*MockSet, c.NumSets())
		for i := range sets {
			sets[i] = NewMockSet(mockCtrl)
			c.sets[i] = sets[i]
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should probe only the set the address maps to", func() {
		// 1 KB, 64 B lines, 4 ways: 4 sets. 0x10c0 >> 6 = 0x43,
		// 0x43 & 3 = 3.
		sets[3].EXPECT().
			Find(NewTag(0x43)).
			Return(true)

		Expect(c.AccessSingleLine(0x10c0, AccessTypeLoad)).To(BeTrue())
	})

	It("should replace in the probed set on a load miss", func() {
		sets[3].EXPECT().Find(NewTag(0x43)).Return(false)
		sets[3].EXPECT().Replace(NewTag(0x43))

		Expect(c.AccessSingleLine(0x10c0, AccessTypeLoad)).To(BeFalse())
	})
})

var _ = Describe("Cache stats report", func() {
	It("should report counts with percentages", func() {
		c := MakeBuilder().Build("L1D")

		c.AccessSingleLine(0x1000, AccessTypeLoad)
		c.AccessSingleLine(0x1000, AccessTypeLoad)

		report := c.StatsLong("pfx: ")

		Expect(report).To(ContainSubstring("pfx: L1D:"))
		Expect(report).To(ContainSubstring("Load-Hits:"))
		Expect(report).To(ContainSubstring("50.00%"))
		Expect(report).To(ContainSubstring("Total-Accesses:"))
	})

	It("should not divide by zero on an idle cache", func() {
		c := MakeBuilder().Build("L1D")

		Expect(func() { c.StatsLong("") }).NotTo(Panic())
		Expect(c.StatsLong("")).To(ContainSubstring("0.00%"))
	})
})
