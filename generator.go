package slotmap

import (
	"errors"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/slotmap/internal/freelist"
)

// SlotsPerPage is the number of identities the Generator adds per growth.
// SparseStorage pages its redirection table with the same size.
const SlotsPerPage = 64

// Generator issues generation-checked identities without storing any value.
//
// It has the free-list and generation mechanics of SlotMap but no arena:
// values are attached to its identities by one or more SparseStorage
// instances. The set of live indices is tracked in a roaring bitmap so that
// the live identities can be enumerated in index order.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	table *freelist.Table
	live  *roaring.Bitmap

	instruments
}

// NewGenerator creates a Generator with its first page allocated.
func NewGenerator(optFns ...Option) *Generator {
	opts := applyOptions("generator", optFns)

	g := &Generator{
		table:       freelist.New(SlotsPerPage),
		live:        roaring.New(),
		instruments: newInstruments(opts),
	}
	g.grow()
	return g
}

func (g *Generator) grow() {
	capacity, err := g.table.Grow()
	if err != nil {
		g.violate("grow", Slot{}, errors.Join(ErrCapacityExceeded, err))
	}
	g.grew(g.table.Pages(), capacity)
}

// Acquire issues a new identity, reusing a released index when one is free.
// A reused index always comes back with a higher generation.
func (g *Generator) Acquire() Slot {
	if g.table.Exhausted() {
		g.grow()
	}

	idx, err := g.table.Acquire()
	if err != nil {
		g.violate("acquire", Slot{}, errors.Join(ErrCorrupted, err))
	}
	g.live.Add(idx)
	g.allocated()

	return Slot{Index: idx, Generation: g.table.Generation(idx)}
}

// Release retires s. It panics with a *ContractViolation wrapping
// ErrInvalidSlot if s is not valid (including a second release).
func (g *Generator) Release(s Slot) {
	if !g.IsValid(s) {
		g.violate("release", s, ErrInvalidSlot)
	}
	g.table.Release(s.Index)
	g.live.Remove(s.Index)
	g.erased()
}

// IsValid reports whether s is a live identity of this generator.
func (g *Generator) IsValid(s Slot) bool {
	return g.table.Contains(s.Index, s.Generation)
}

// Len returns the number of live identities.
func (g *Generator) Len() int {
	return g.table.Len()
}

// Cap returns the number of identities issuable before the next growth.
func (g *Generator) Cap() int {
	return g.table.Cap()
}

// Live yields every live identity in ascending index order. The generator
// must not be modified while an iteration is in progress.
func (g *Generator) Live() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		it := g.live.Iterator()
		for it.HasNext() {
			idx := it.Next()
			if !yield(Slot{Index: idx, Generation: g.table.Generation(idx)}) {
				return
			}
		}
	}
}

// Stats returns size and operation counters.
func (g *Generator) Stats() Stats {
	return Stats{
		Len:        g.Len(),
		Cap:        g.Cap(),
		IndexPages: g.table.Pages(),
		Allocs:     g.allocs,
		Erases:     g.erases,
		Grows:      g.grows,
	}
}

// Validate checks the free list and that the live bitmap agrees with the
// table. It returns an error wrapping ErrCorrupted on the first violation.
func (g *Generator) Validate() error {
	free, err := g.table.FreeSet()
	if err != nil {
		return g.corrupted("%v", err)
	}
	if n := g.live.GetCardinality(); n != uint64(g.table.Len()) {
		return g.corrupted("live bitmap has %d entries, table has %d", n, g.table.Len())
	}
	it := g.live.Iterator()
	for it.HasNext() {
		idx := it.Next()
		if !g.table.IsLive(idx) || free.Test(uint(idx)) {
			return g.corrupted("index %d in live bitmap is free", idx)
		}
	}
	return nil
}
