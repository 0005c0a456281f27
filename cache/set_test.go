package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DirectMappedSet", func() {
	var set *DirectMappedSet

	BeforeEach(func() {
		set = NewDirectMappedSet()
	})

	It("should hit after replacing with the same tag", func() {
		set.Replace(NewTag(0x40))

		Expect(set.Find(NewTag(0x40))).To(BeTrue())
	})

	It("should miss on a different tag", func() {
		set.Replace(NewTag(0x40))

		Expect(set.Find(NewTag(0x41))).To(BeFalse())
	})

	It("should accept associativity 1", func() {
		Expect(func() { set.SetAssociativity(1) }).NotTo(Panic())
	})

	It("should reject associativity other than 1", func() {
		Expect(func() { set.SetAssociativity(2) }).To(Panic())
	})

	It("should hit on the zero tag when cold", func() {
		// A default tag is not reserved as empty.
		Expect(set.Find(NewTag(0))).To(BeTrue())
	})
})

var _ = Describe("AssociativeSet", func() {
	var set *AssociativeSet

	BeforeEach(func() {
		set = NewAssociativeSet()
		set.SetAssociativity(4)
	})

	It("should reject associativity beyond the maximum", func() {
		Expect(func() {
			set.SetAssociativity(MaxAssociativity + 1)
		}).To(Panic())
	})

	It("should report the active way count", func() {
		Expect(set.Associativity()).To(Equal(4))
	})

	It("should evict slot 0 first on a cold set", func() {
		// All recencies start equal, so the tie breaks at slot 0.
		set.Replace(NewTag(0x10))

		Expect(set.tags[0].Value()).To(Equal(uint64(0x10)))
	})

	It("should hold as many distinct tags as it has ways", func() {
		for i := 0; i < 4; i++ {
			tag := NewTag(uint64(0x100 + i))
			Expect(set.Find(tag)).To(BeFalse())
			set.Replace(tag)
		}

		for i := 0; i < 4; i++ {
			Expect(set.Find(NewTag(uint64(0x100 + i)))).To(BeTrue())
		}
	})

	It("should evict the least recently used tag", func() {
		for i := 0; i < 4; i++ {
			tag := NewTag(uint64(0x100 + i))
			set.Find(tag)
			set.Replace(tag)
		}

		// Touch everything but 0x101, making it the LRU line.
		set.Find(NewTag(0x100))
		set.Find(NewTag(0x102))
		set.Find(NewTag(0x103))

		victim := NewTag(0x200)
		set.Find(victim)
		set.Replace(victim)

		Expect(set.Find(NewTag(0x101))).To(BeFalse())
		Expect(set.Find(NewTag(0x200))).To(BeTrue())
		Expect(set.Find(NewTag(0x100))).To(BeTrue())
		Expect(set.Find(NewTag(0x102))).To(BeTrue())
		Expect(set.Find(NewTag(0x103))).To(BeTrue())
	})

	It("should reset the matching slot and age the others", func() {
		set.Replace(NewTag(0x10))

		set.Find(NewTag(0x10))
		set.Find(NewTag(0x10))

		Expect(set.tags[0].recency).To(Equal(0))
		Expect(set.tags[1].recency).To(Equal(2))
		Expect(set.tags[2].recency).To(Equal(2))
		Expect(set.tags[3].recency).To(Equal(2))
	})

	It("should not reset tags when the associativity shrinks", func() {
		set.Replace(NewTag(0x10))

		set.SetAssociativity(1)

		Expect(set.Find(NewTag(0x10))).To(BeTrue())
	})
})
