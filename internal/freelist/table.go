package freelist

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/slotmap/internal/container"
	"github.com/hupe1980/slotmap/internal/conv"
)

var (
	// ErrExhausted is returned by Acquire when no free entry is left.
	ErrExhausted = errors.New("freelist: exhausted")
	// ErrCorrupted reports a broken table invariant.
	ErrCorrupted = errors.New("freelist: corrupted")
)

// FirstGeneration is the generation of a never-used entry. Zero is never
// issued so that a zero handle is always stale.
const FirstGeneration uint64 = 1

type entry struct {
	index      uint32
	generation uint64
	live       bool
}

// Table is a paged free-list index table.
type Table struct {
	entries *container.PagedArray[entry]
	head    uint32
	cap     uint32
	live    int
}

// New creates an empty table that grows by pageSize entries.
func New(pageSize int) *Table {
	return &Table{
		entries: container.NewPagedArray[entry](pageSize),
	}
}

// PageSize returns the number of entries added by each Grow.
func (t *Table) PageSize() int {
	return t.entries.PageSize()
}

// Cap returns the number of entries.
func (t *Table) Cap() int {
	return int(t.cap)
}

// Pages returns the number of allocated pages.
func (t *Table) Pages() int {
	return t.entries.Pages()
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.live
}

// Head returns the first free index, or Cap when exhausted.
func (t *Table) Head() uint32 {
	return t.head
}

// Exhausted reports whether the next Acquire needs a Grow first.
func (t *Table) Exhausted() bool {
	return t.head == t.cap
}

// Grow appends one page of free entries and returns the new capacity.
//
// The new entries are chained i -> i+1 and the last one points one past the
// new capacity. Since the existing list always ends at the old capacity, which
// is the first new index, the chain continues without touching old entries.
func (t *Table) Grow() (int, error) {
	next, err := conv.CapacityAfterGrow(t.cap, t.entries.PageSize())
	if err != nil {
		return t.Cap(), err
	}
	t.entries.Grow()
	for i := t.cap; i < next; i++ {
		*t.entries.At(i) = entry{index: i + 1, generation: FirstGeneration}
	}
	t.cap = next
	return t.Cap(), nil
}

// Acquire pops the free-list head and marks it live. The entry's location is
// left for the caller to set with SetTarget.
func (t *Table) Acquire() (uint32, error) {
	if t.head > t.cap {
		return 0, fmt.Errorf("%w: head %d beyond capacity %d", ErrCorrupted, t.head, t.cap)
	}
	if t.head == t.cap {
		return 0, ErrExhausted
	}
	idx := t.head
	e := t.entries.At(idx)
	if e.live {
		return 0, fmt.Errorf("%w: free-list head %d is live", ErrCorrupted, idx)
	}
	t.head = e.index
	e.index = idx
	e.live = true
	t.live++
	return idx, nil
}

// Release retires a live index: its generation is incremented and it becomes
// the new free-list head. The caller must have checked Contains.
func (t *Table) Release(idx uint32) {
	e := t.entries.At(idx)
	e.generation++
	e.live = false
	e.index = t.head
	t.head = idx
	t.live--
}

// Contains reports whether idx is live with the given generation.
func (t *Table) Contains(idx uint32, generation uint64) bool {
	if idx >= t.cap {
		return false
	}
	e := t.entries.At(idx)
	return e.live && e.generation == generation
}

// IsLive reports whether idx is in range and currently live.
func (t *Table) IsLive(idx uint32) bool {
	return idx < t.cap && t.entries.At(idx).live
}

// Generation returns the current generation of idx.
func (t *Table) Generation(idx uint32) uint64 {
	return t.entries.At(idx).generation
}

// Target returns the location stored for a live idx.
func (t *Table) Target(idx uint32) uint32 {
	return t.entries.At(idx).index
}

// SetTarget stores the location for a live idx.
func (t *Table) SetTarget(idx, target uint32) {
	t.entries.At(idx).index = target
}

// FreeSet walks the free list and returns the set of free indices. It fails
// on a cycle, an out-of-range link, a live entry on the list, a zero
// generation, or a free count that disagrees with Len.
func (t *Table) FreeSet() (*bitset.BitSet, error) {
	free := bitset.New(uint(t.cap))
	var n int
	for idx := t.head; idx != t.cap; {
		if idx > t.cap {
			return nil, fmt.Errorf("%w: free link %d beyond capacity %d", ErrCorrupted, idx, t.cap)
		}
		if free.Test(uint(idx)) {
			return nil, fmt.Errorf("%w: free-list cycle at %d", ErrCorrupted, idx)
		}
		e := t.entries.At(idx)
		if e.live {
			return nil, fmt.Errorf("%w: live index %d on free list", ErrCorrupted, idx)
		}
		free.Set(uint(idx))
		n++
		idx = e.index
	}

	if n+t.live != int(t.cap) {
		return nil, fmt.Errorf("%w: %d free + %d live != capacity %d", ErrCorrupted, n, t.live, t.cap)
	}

	for i := uint32(0); i < t.cap; i++ {
		e := t.entries.At(i)
		if e.generation < FirstGeneration {
			return nil, fmt.Errorf("%w: index %d has generation 0", ErrCorrupted, i)
		}
		if e.live == free.Test(uint(i)) {
			return nil, fmt.Errorf("%w: index %d live=%t disagrees with free list", ErrCorrupted, i, e.live)
		}
	}
	return free, nil
}
