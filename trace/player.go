package trace

import (
	"errors"
	"io"

	"github.com/sarchlab/cachesim/cache"
)

// Progress receives the number of records replayed so far.
type Progress func(played uint64)

// A Summary aggregates the outcome of one replay.
type Summary struct {
	Records uint64
	Loads   uint64
	Stores  uint64
}

// A Player replays a trace against a group of caches. Driving several
// instances over the same stream models independent structures, e.g.
// an instruction/data cache pair or two candidate geometries compared
// in one run.
type Player struct {
	caches []*cache.Cache

	progress       Progress
	progressPeriod uint64
}

// NewPlayer creates a Player driving the given caches.
func NewPlayer(caches ...*cache.Cache) *Player {
	return &Player{caches: caches}
}

// WithProgress registers a callback invoked once every period records.
func (p *Player) WithProgress(period uint64, fn Progress) *Player {
	if period == 0 {
		period = 1
	}

	p.progress = fn
	p.progressPeriod = period

	return p
}

// Play replays every record of the trace through all caches and
// returns the replay summary.
func (p *Player) Play(r *Reader) (Summary, error) {
	var s Summary

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s, err
		}

		for _, c := range p.caches {
			c.Access(rec.Address, rec.Size, rec.Type)
		}

		s.Records++
		switch rec.Type {
		case cache.AccessTypeLoad:
			s.Loads++
		case cache.AccessTypeStore:
			s.Stores++
		}

		if p.progress != nil && s.Records%p.progressPeriod == 0 {
			p.progress(s.Records)
		}
	}

	return s, nil
}
