package cache

// AccessType distinguishes loads from stores in the statistics.
type AccessType int

const (
	// AccessTypeLoad is a memory read.
	AccessTypeLoad AccessType = iota

	// AccessTypeStore is a memory write.
	AccessTypeStore

	numAccessTypes
)

func (t AccessType) String() string {
	switch t {
	case AccessTypeLoad:
		return "Load"
	case AccessTypeStore:
		return "Store"
	default:
		return "Unknown"
	}
}

// stats counts hit and miss outcomes per access type. The counters move
// exactly once per single-line access and are assumed never to
// overflow in practice.
type stats [numAccessTypes][2]uint64

func outcomeIndex(hit bool) int {
	if hit {
		return 1
	}

	return 0
}

// Hits returns the number of accesses of the given type that hit.
func (c *Cache) Hits(accessType AccessType) uint64 {
	return c.stats[accessType][1]
}

// Misses returns the number of accesses of the given type that missed.
func (c *Cache) Misses(accessType AccessType) uint64 {
	return c.stats[accessType][0]
}

// Accesses returns the number of accesses of the given type.
func (c *Cache) Accesses(accessType AccessType) uint64 {
	return c.Hits(accessType) + c.Misses(accessType)
}

// TotalHits returns the number of hits across all access types.
func (c *Cache) TotalHits() uint64 {
	var sum uint64
	for t := AccessType(0); t < numAccessTypes; t++ {
		sum += c.Hits(t)
	}

	return sum
}

// TotalMisses returns the number of misses across all access types.
func (c *Cache) TotalMisses() uint64 {
	var sum uint64
	for t := AccessType(0); t < numAccessTypes; t++ {
		sum += c.Misses(t)
	}

	return sum
}

// TotalAccesses returns the number of accesses across all access types.
func (c *Cache) TotalAccesses() uint64 {
	return c.TotalHits() + c.TotalMisses()
}
