package cache

import (
	"fmt"

	"github.com/sarchlab/cachesim/bitops"
)

// Builder can build caches.
type Builder struct {
	byteSize         uint64
	lineSize         uint64
	wayAssociativity int
	replaceStrategy  string
	allocation       AllocationPolicy
}

// MakeBuilder creates a builder with the default configuration: a
// 32 KB, 64-byte-line, 4-way, store-allocate cache with
// approximate-LRU sets.
func MakeBuilder() Builder {
	return Builder{
		byteSize:         32 * KB,
		lineSize:         64,
		wayAssociativity: 4,
		replaceStrategy:  "lru",
		allocation:       StoreAllocate,
	}
}

// WithByteSize sets the total capacity of the cache in bytes.
func (b Builder) WithByteSize(byteSize uint64) Builder {
	b.byteSize = byteSize
	return b
}

// WithLineSize sets the cache line size in bytes.
func (b Builder) WithLineSize(lineSize uint64) Builder {
	b.lineSize = lineSize
	return b
}

// WithWayAssociativity sets the way count per set.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithReplacementStrategy selects the set variant. "lru" uses
// recency-counter sets; "direct" uses single-slot direct-mapped sets
// and requires associativity 1.
func (b Builder) WithReplacementStrategy(strategy string) Builder {
	b.replaceStrategy = strategy
	return b
}

// WithAllocationPolicy sets the store-miss allocation policy.
func (b Builder) WithAllocationPolicy(policy AllocationPolicy) Builder {
	b.allocation = policy
	return b
}

// Build builds a cache. It panics when the geometry is not realizable
// in hardware, so a misconfigured simulation never produces numbers.
func (b Builder) Build(name string) *Cache {
	b.mustHaveValidGeometry()

	numSets := b.numSets()

	c := &Cache{
		name:          name,
		byteSize:      b.byteSize,
		lineSize:      b.lineSize,
		associativity: b.wayAssociativity,
		allocation:    b.allocation,
		lineShift:     uint(bitops.FloorLog2(b.lineSize)),
		setIndexMask:  numSets - 1,
		sets:          make([]Set, numSets),
	}

	for i := range c.sets {
		set := b.createSet()
		set.SetAssociativity(b.wayAssociativity)
		c.sets[i] = set
	}

	return c
}

func (b Builder) createSet() Set {
	switch b.replaceStrategy {
	case "lru":
		return NewAssociativeSet()
	case "direct":
		return NewDirectMappedSet()
	default:
		panic("unknown replace strategy: " + b.replaceStrategy)
	}
}

func (b Builder) numSets() uint64 {
	return b.byteSize / (uint64(b.wayAssociativity) * b.lineSize)
}

func (b Builder) mustHaveValidGeometry() {
	if b.wayAssociativity < 1 {
		panic(fmt.Sprintf(
			"way associativity must be at least 1, got %d",
			b.wayAssociativity))
	}

	if !bitops.IsPowerOfTwo(b.lineSize) {
		panic(fmt.Sprintf(
			"line size %d is not a power of two", b.lineSize))
	}

	setSize := uint64(b.wayAssociativity) * b.lineSize
	if b.byteSize == 0 || b.byteSize%setSize != 0 {
		panic("cache must have an integer number of sets")
	}

	if !bitops.IsPowerOfTwo(b.numSets()) {
		panic(fmt.Sprintf(
			"set count %d is not a power of two", b.numSets()))
	}
}
