package cache

import "fmt"

// MaxAssociativity is the largest way count an associative set can be
// configured with.
const MaxAssociativity = 16

// A Set holds the tags resident in one associativity class. Find and
// Replace are the whole access protocol; the cache core never touches
// slots directly.
type Set interface {
	// SetAssociativity configures the number of active ways. It panics
	// if the variant cannot support the requested count.
	SetAssociativity(associativity int)

	// Associativity returns the number of active ways.
	Associativity() int

	// Find reports whether tag is resident and updates the recency
	// state of the set.
	Find(tag Tag) bool

	// Replace installs tag in place of the current victim.
	Replace(tag Tag)
}

// A DirectMappedSet has a single slot, modeling caches with no choice
// of placement within a set.
type DirectMappedSet struct {
	tag Tag
}

// NewDirectMappedSet creates a direct-mapped set.
func NewDirectMappedSet() *DirectMappedSet {
	return &DirectMappedSet{}
}

// SetAssociativity panics unless the requested associativity is 1.
func (s *DirectMappedSet) SetAssociativity(associativity int) {
	if associativity != 1 {
		panic(fmt.Sprintf(
			"a direct-mapped set supports associativity 1, not %d",
			associativity))
	}
}

// Associativity always returns 1.
func (s *DirectMappedSet) Associativity() int {
	return 1
}

// Find reports whether the stored tag equals tag. It changes no state.
func (s *DirectMappedSet) Find(tag Tag) bool {
	return s.tag.Matches(tag)
}

// Replace unconditionally overwrites the stored tag.
func (s *DirectMappedSet) Replace(tag Tag) {
	s.tag = tag
}

// An AssociativeSet keeps up to MaxAssociativity tags and approximates
// LRU eviction with per-slot recency counters. Every probe ages all
// non-matching slots by one, so the counters order the slots by time
// since last use with flat O(associativity) work and no linked
// structure. Ties break by array position, not true access order.
type AssociativeSet struct {
	tags          [MaxAssociativity]Tag
	associativity int
}

// NewAssociativeSet creates a set with all ways active.
func NewAssociativeSet() *AssociativeSet {
	return &AssociativeSet{associativity: MaxAssociativity}
}

// SetAssociativity limits the set to its first associativity ways.
// Existing tags are not reset.
func (s *AssociativeSet) SetAssociativity(associativity int) {
	if associativity > MaxAssociativity {
		panic(fmt.Sprintf(
			"associativity %d exceeds the maximum of %d",
			associativity, MaxAssociativity))
	}

	s.associativity = associativity
}

// Associativity returns the number of active ways.
func (s *AssociativeSet) Associativity() int {
	return s.associativity
}

// Find scans every active slot with no short circuit on a match, so
// that each non-matching slot ages exactly once per probe. The matching
// slot becomes the most recently used.
func (s *AssociativeSet) Find(tag Tag) bool {
	found := false

	for i := 0; i < s.associativity; i++ {
		if s.tags[i].Matches(tag) {
			found = true
			s.tags[i].recency = 0
		} else {
			s.tags[i].recency++
		}
	}

	return found
}

// Replace evicts the slot with the strictly greatest recency, the
// approximate least-recently-used line. Ties keep the lowest slot
// index, so a cold set always evicts slot 0 first.
func (s *AssociativeSet) Replace(tag Tag) {
	victim := 0
	victimRecency := s.tags[0].recency

	for i := 1; i < s.associativity; i++ {
		if s.tags[i].recency > victimRecency {
			victim = i
			victimRecency = s.tags[i].recency
		}
	}

	s.tags[victim] = tag
}
