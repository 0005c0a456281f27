// Package cache provides a functional model of a hardware cache. Given
// a stream of memory addresses and access types, it decides hit or miss
// for each access, updates replacement state, and accumulates per-type
// statistics. It stores no data, only presence metadata.
package cache

import (
	"github.com/sarchlab/cachesim/hooking"
)

// Byte-size multipliers for cache geometry.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)

// AllocationPolicy decides whether a store that misses installs a new
// line.
type AllocationPolicy int

const (
	// StoreAllocate installs the missing line on a store miss.
	StoreAllocate AllocationPolicy = iota

	// StoreNoAllocate leaves the set unchanged on a store miss,
	// modeling write-around caches.
	StoreNoAllocate
)

// HookPosCacheHit triggers after a single-line access that hit.
var HookPosCacheHit = &hooking.HookPos{Name: "CacheHit"}

// HookPosCacheMiss triggers after a single-line access that missed.
var HookPosCacheMiss = &hooking.HookPos{Name: "CacheMiss"}

// AccessInfo is the hook item delivered on every single-line access.
type AccessInfo struct {
	Address  uint64
	Type     AccessType
	SetIndex uint64
	Hit      bool
}

// A Cache decides hit or miss for a stream of accesses and maintains
// the replacement state of its sets. Geometry is immutable after
// construction; build instances through the Builder.
//
// A Cache is confined to a single accessor. Drive one instance per
// simulated hardware thread rather than sharing.
type Cache struct {
	hooking.HookableBase

	name          string
	byteSize      uint64
	lineSize      uint64
	associativity int
	allocation    AllocationPolicy

	lineShift    uint
	setIndexMask uint64

	sets  []Set
	stats stats
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// ByteSize returns the total capacity of the cache in bytes.
func (c *Cache) ByteSize() uint64 {
	return c.byteSize
}

// LineSize returns the cache line size in bytes.
func (c *Cache) LineSize() uint64 {
	return c.lineSize
}

// Associativity returns the configured way count per set.
func (c *Cache) Associativity() int {
	return c.associativity
}

// NumSets returns the number of sets.
func (c *Cache) NumSets() uint64 {
	return c.setIndexMask + 1
}

// SplitAddress decomposes an address into the tag and the set index.
// The set index is taken from the shifted address, i.e. from the tag
// value rather than the raw address, so the bits directly above the
// line offset select the set.
func (c *Cache) SplitAddress(addr uint64) (tag Tag, setIndex uint64) {
	t := addr >> c.lineShift
	return NewTag(t), t & c.setIndexMask
}

// SplitAddressOffset additionally returns the offset of the address
// within its cache line.
func (c *Cache) SplitAddressOffset(addr uint64) (
	tag Tag,
	setIndex uint64,
	lineOffset uint64,
) {
	tag, setIndex = c.SplitAddress(addr)
	lineOffset = addr & (c.lineSize - 1)

	return tag, setIndex, lineOffset
}

// AccessSingleLine performs one access that does not span cache lines
// and reports whether it hit. Exactly one statistics counter moves per
// call.
func (c *Cache) AccessSingleLine(addr uint64, accessType AccessType) bool {
	tag, setIndex := c.SplitAddress(addr)
	set := c.sets[setIndex]

	hit := set.Find(tag)

	// On a miss, loads always allocate; stores only if the policy
	// says so.
	if !hit &&
		(accessType == AccessTypeLoad || c.allocation == StoreAllocate) {
		set.Replace(tag)
	}

	c.stats[accessType][outcomeIndex(hit)]++

	if len(c.Hooks) > 0 {
		pos := HookPosCacheMiss
		if hit {
			pos = HookPosCacheHit
		}

		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    pos,
			Item: AccessInfo{
				Address:  addr,
				Type:     accessType,
				SetIndex: setIndex,
				Hit:      hit,
			},
		})
	}

	return hit
}

// Access performs an access from addr to addr+size-1, which may span
// several cache lines. It reports whether every touched line hit.
// Statistics move once per line touched, never once per call.
func (c *Cache) Access(addr, size uint64, accessType AccessType) bool {
	highAddr := addr + size
	notLineMask := ^(c.lineSize - 1)
	allHit := true

	for {
		hit := c.AccessSingleLine(addr, accessType)
		allHit = allHit && hit

		// Jump to the start of the next cache line.
		addr = (addr & notLineMask) + c.lineSize
		if addr >= highAddr {
			break
		}
	}

	return allHit
}
