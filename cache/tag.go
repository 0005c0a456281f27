package cache

// A Tag identifies the line that occupies one slot of a cache set. The
// cache is a functional model, so a tag is all a slot stores: presence
// metadata, never data.
//
// A zero-valued tag is not reserved as "empty". A cold set therefore
// reports a hit for address 0 until the slot is replaced, which is an
// accepted modeling simplification.
type Tag struct {
	value uint64

	// Dirty is set by the owning set when the line is written. The
	// functional model never reads it back, but it stays part of the
	// contract for write-back extensions.
	Dirty bool

	recency int
}

// NewTag creates a tag from the line-address portion of an address,
// i.e. the address with the line-offset bits shifted away.
func NewTag(value uint64) Tag {
	return Tag{value: value}
}

// Value returns the raw line-address bits of the tag.
func (t Tag) Value() uint64 {
	return t.value
}

// Matches compares the identifying value only, ignoring the dirty flag
// and the recency counter.
func (t Tag) Matches(other Tag) bool {
	return t.value == other.value
}
