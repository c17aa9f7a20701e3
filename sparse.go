package slotmap

import (
	"errors"
	"iter"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/slotmap/internal/container"
	"github.com/hupe1980/slotmap/internal/conv"
	"github.com/hupe1980/slotmap/internal/freelist"
)

// unassigned marks a redirection entry without a value.
const unassigned uint32 = math.MaxUint32

type redirect struct {
	index      uint32 // dense position, or unassigned
	generation uint64
}

type cell[T any] struct {
	value T
	owner Slot // reverse map: which key holds this dense position
}

// SparseStorage stores at most one value per key, where keys are identities
// issued elsewhere, typically by a Generator.
//
// Values are kept dense in a paged arena. A lazily paged redirection table maps
// a key's index to its dense position; only the pages for indices actually
// used are allocated. Each dense cell remembers its owning key so that the
// swap-pop on Erase can fix the redirection of the value it moves.
//
// A SparseStorage is not safe for concurrent use.
type SparseStorage[T any] struct {
	redirects *container.LazyPages[redirect]
	dense     *container.PagedArray[cell[T]]
	size      uint32

	instruments
}

// NewSparseStorage creates an empty storage. No page is allocated until the
// first Assign.
func NewSparseStorage[T any](optFns ...Option) *SparseStorage[T] {
	opts := applyOptions("sparse", optFns)

	return &SparseStorage[T]{
		redirects:   container.NewLazyPages(SlotsPerPage, redirect{index: unassigned}),
		dense:       container.NewPagedArray[cell[T]](opts.pageSize),
		instruments: newInstruments(opts),
	}
}

// Assign attaches v to key. It panics with a *ContractViolation wrapping
// ErrAlreadyAssigned if key already has a value.
//
// If the key's index still holds a value for an older generation (the
// identity was released without detaching it), that stale value is dropped
// first. Assigning with an older generation than the one stored, or with
// generation zero, panics with ErrInvalidSlot.
func (ss *SparseStorage[T]) Assign(key Slot, v T) {
	ss.assign(key).value = v
}

// AssignFunc attaches a value to key and lets fn initialise it in place.
// fn may be nil, leaving the zero value. Panics like Assign.
func (ss *SparseStorage[T]) AssignFunc(key Slot, fn func(*T)) {
	c := ss.assign(key)
	if fn != nil {
		fn(&c.value)
	}
}

func (ss *SparseStorage[T]) assign(key Slot) *cell[T] {
	if key.Generation < freelist.FirstGeneration {
		ss.violate("assign", key, ErrInvalidSlot)
	}
	r := ss.redirects.Ensure(key.Index)
	if r.index != unassigned {
		switch {
		case r.generation == key.Generation:
			ss.violate("assign", key, ErrAlreadyAssigned)
		case r.generation > key.Generation:
			ss.violate("assign", key, ErrInvalidSlot)
		default:
			stale := Slot{Index: key.Index, Generation: r.generation}
			ss.logger.LogEvict(stale, key)
			ss.Erase(stale)
		}
	}

	if int(ss.size) == ss.dense.Cap() {
		ss.grow()
	}

	pos := ss.size
	r.index = pos
	r.generation = key.Generation

	c := ss.dense.At(pos)
	c.owner = key
	ss.size++
	ss.allocated()
	return c
}

func (ss *SparseStorage[T]) grow() {
	if _, err := conv.CapacityAfterGrow(ss.size, ss.dense.PageSize()); err != nil {
		ss.violate("grow", Slot{}, errors.Join(ErrCapacityExceeded, err))
	}
	capacity := ss.dense.Grow()
	ss.grew(ss.dense.Pages(), capacity)
}

// Has reports whether key currently has a value.
func (ss *SparseStorage[T]) Has(key Slot) bool {
	r, ok := ss.redirects.Lookup(key.Index)
	return ok && r.index != unassigned && r.generation == key.Generation
}

// At returns a pointer to the value of key. It panics with a
// *ContractViolation wrapping ErrNotAssigned if key has no value.
//
// The pointer stays valid until the next Erase on this storage.
func (ss *SparseStorage[T]) At(key Slot) *T {
	if !ss.Has(key) {
		ss.violate("at", key, ErrNotAssigned)
	}
	r, _ := ss.redirects.Lookup(key.Index)
	return &ss.dense.At(r.index).value
}

// Get returns a pointer to the value of key, or false if it has none.
func (ss *SparseStorage[T]) Get(key Slot) (*T, bool) {
	if !ss.Has(key) {
		return nil, false
	}
	r, _ := ss.redirects.Lookup(key.Index)
	return &ss.dense.At(r.index).value, true
}

// Erase detaches and drops the value of key. It panics with a
// *ContractViolation wrapping ErrNotAssigned if key has no value.
//
// The last dense value is moved into the freed position and its owner's
// redirection entry is updated.
func (ss *SparseStorage[T]) Erase(key Slot) {
	if !ss.Has(key) {
		ss.violate("erase", key, ErrNotAssigned)
	}
	if ss.size == 0 {
		ss.violate("erase", key, ErrUnderflow)
	}

	r, _ := ss.redirects.Lookup(key.Index)
	pos := r.index
	last := ss.size - 1
	if pos != last {
		ss.dense.Move(pos, last)
		moved, _ := ss.redirects.Lookup(ss.dense.At(pos).owner.Index)
		moved.index = pos
	} else {
		ss.dense.Zero(last)
	}

	r.index = unassigned
	ss.size--
	ss.erased()
}

// Len returns the number of stored values.
func (ss *SparseStorage[T]) Len() int {
	return int(ss.size)
}

// Values yields a pointer to every stored value in dense order.
// The storage must not be modified while an iteration is in progress.
func (ss *SparseStorage[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, c := range ss.dense.Range(ss.size) {
			if !yield(&c.value) {
				return
			}
		}
	}
}

// All yields every stored value with its key, in dense order.
func (ss *SparseStorage[T]) All() iter.Seq2[Slot, *T] {
	return func(yield func(Slot, *T) bool) {
		for _, c := range ss.dense.Range(ss.size) {
			if !yield(c.owner, &c.value) {
				return
			}
		}
	}
}

// Keys yields every key that has a value, in dense order.
func (ss *SparseStorage[T]) Keys() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for _, c := range ss.dense.Range(ss.size) {
			if !yield(c.owner) {
				return
			}
		}
	}
}

// Stats returns size and operation counters.
func (ss *SparseStorage[T]) Stats() Stats {
	return Stats{
		Len:        ss.Len(),
		Cap:        ss.dense.Cap(),
		Pages:      ss.dense.Pages(),
		IndexPages: ss.redirects.Pages(),
		Allocs:     ss.allocs,
		Erases:     ss.erases,
		Grows:      ss.grows,
	}
}

// Validate checks that redirection entries and dense owners agree one to one.
// It returns an error wrapping ErrCorrupted on the first violation.
func (ss *SparseStorage[T]) Validate() error {
	covered := bitset.New(uint(ss.size))
	var err error
	ss.redirects.Each(func(i uint32, r *redirect) bool {
		if r.index == unassigned {
			return true
		}
		switch {
		case r.index >= ss.size:
			err = ss.corrupted("index %d points past size %d", i, ss.size)
		case covered.Test(uint(r.index)):
			err = ss.corrupted("dense position %d claimed twice", r.index)
		default:
			owner := ss.dense.At(r.index).owner
			if owner.Index != i || owner.Generation != r.generation {
				err = ss.corrupted("index %d:%d points at %d owned by %s", i, r.generation, r.index, owner)
			}
		}
		covered.Set(uint(r.index))
		return err == nil
	})
	if err != nil {
		return err
	}
	if n := covered.Count(); n != uint(ss.size) {
		return ss.corrupted("%d of %d dense values are reachable", n, ss.size)
	}
	return nil
}
