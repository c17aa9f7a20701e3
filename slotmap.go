package slotmap

import (
	"errors"
	"iter"

	"github.com/hupe1980/slotmap/internal/container"
	"github.com/hupe1980/slotmap/internal/freelist"
)

// SlotMap is a paged object pool with stable, generation-checked handles.
//
// Values are kept dense: the n live values occupy positions [0, n) of a paged
// arena. Each handle's index goes through a free-list table to find the
// current position, and erasing moves the last value into the hole. The arena
// grows one page at a time and never reallocates existing pages.
//
// A SlotMap is not safe for concurrent use.
type SlotMap[T any] struct {
	table  *freelist.Table
	dense  *container.PagedArray[T]
	owners *container.PagedArray[uint32] // dense position -> external index
	size   uint32

	instruments
}

// New creates an empty SlotMap with its first page allocated.
func New[T any](optFns ...Option) *SlotMap[T] {
	opts := applyOptions("slotmap", optFns)

	pageSize := container.NormalizePageSize(opts.pageSize)
	m := &SlotMap[T]{
		table:       freelist.New(pageSize),
		dense:       container.NewPagedArray[T](pageSize),
		owners:      container.NewPagedArray[uint32](pageSize),
		instruments: newInstruments(opts),
	}
	m.grow()
	return m
}

// Allocate stores v and returns its handle. Existing handles stay valid.
func (m *SlotMap[T]) Allocate(v T) Slot {
	s, p := m.allocate()
	*p = v
	return s
}

// AllocateFunc reserves a cell and lets fn initialise the value in place.
// fn may be nil, leaving the zero value.
func (m *SlotMap[T]) AllocateFunc(fn func(*T)) Slot {
	s, p := m.allocate()
	if fn != nil {
		fn(p)
	}
	return s
}

func (m *SlotMap[T]) allocate() (Slot, *T) {
	if m.table.Exhausted() {
		m.grow()
	}

	idx, err := m.table.Acquire()
	if err != nil {
		m.violate("allocate", Slot{}, errors.Join(ErrCorrupted, err))
	}

	pos := m.size
	m.table.SetTarget(idx, pos)
	*m.owners.At(pos) = idx
	m.size++
	m.allocated()

	return Slot{Index: idx, Generation: m.table.Generation(idx)}, m.dense.At(pos)
}

func (m *SlotMap[T]) grow() {
	capacity, err := m.table.Grow()
	if err != nil {
		m.violate("grow", Slot{}, errors.Join(ErrCapacityExceeded, err))
	}
	m.dense.Grow()
	m.owners.Grow()
	m.grew(m.dense.Pages(), capacity)
}

// IsSlotValid reports whether s refers to a live value of this map.
func (m *SlotMap[T]) IsSlotValid(s Slot) bool {
	return m.table.Contains(s.Index, s.Generation)
}

// At returns a pointer to the value of s. It panics with a
// *ContractViolation wrapping ErrInvalidSlot if s is not valid.
//
// The pointer stays valid until the next Erase or Clear on this map, either of
// which may move another value into its cell.
func (m *SlotMap[T]) At(s Slot) *T {
	if !m.IsSlotValid(s) {
		m.violate("at", s, ErrInvalidSlot)
	}
	return m.dense.At(m.table.Target(s.Index))
}

// Get returns a pointer to the value of s, or false if s is not valid.
func (m *SlotMap[T]) Get(s Slot) (*T, bool) {
	if !m.IsSlotValid(s) {
		return nil, false
	}
	return m.dense.At(m.table.Target(s.Index)), true
}

// Erase drops the value of s and invalidates s for good. It panics with a
// *ContractViolation wrapping ErrInvalidSlot if s is not valid.
//
// The last dense value is moved into the freed position, so iteration order
// changes but every other handle keeps resolving to its own value.
func (m *SlotMap[T]) Erase(s Slot) {
	if !m.IsSlotValid(s) {
		m.violate("erase", s, ErrInvalidSlot)
	}
	if m.size == 0 {
		m.violate("erase", s, ErrUnderflow)
	}

	pos := m.table.Target(s.Index)
	last := m.size - 1
	if pos != last {
		m.dense.Move(pos, last)
		moved := *m.owners.At(last)
		*m.owners.At(pos) = moved
		m.table.SetTarget(moved, pos)
	} else {
		m.dense.Zero(last)
	}

	m.table.Release(s.Index)
	m.size--
	m.erased()
}

// Clear erases every value. Pages are kept; every handle issued so far
// becomes invalid.
func (m *SlotMap[T]) Clear() {
	for m.size > 0 {
		idx := *m.owners.At(m.size - 1)
		m.Erase(Slot{Index: idx, Generation: m.table.Generation(idx)})
	}
}

// Len returns the number of live values.
func (m *SlotMap[T]) Len() int {
	return int(m.size)
}

// Cap returns the number of values the map holds before it grows again.
func (m *SlotMap[T]) Cap() int {
	return m.dense.Cap()
}

// PageSize returns the effective number of values per page.
func (m *SlotMap[T]) PageSize() int {
	return m.dense.PageSize()
}

// Values yields a pointer to every live value in dense order.
// The sequence may be iterated repeatedly; the map must not be modified while
// an iteration is in progress.
func (m *SlotMap[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range m.dense.Range(m.size) {
			if !yield(v) {
				return
			}
		}
	}
}

// All yields every live value with its handle, in dense order.
func (m *SlotMap[T]) All() iter.Seq2[Slot, *T] {
	return func(yield func(Slot, *T) bool) {
		for pos, v := range m.dense.Range(m.size) {
			if !yield(m.slotAt(pos), v) {
				return
			}
		}
	}
}

// Slots yields the handle of every live value, in dense order.
func (m *SlotMap[T]) Slots() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for pos := uint32(0); pos < m.size; pos++ {
			if !yield(m.slotAt(pos)) {
				return
			}
		}
	}
}

func (m *SlotMap[T]) slotAt(pos uint32) Slot {
	idx := *m.owners.At(pos)
	return Slot{Index: idx, Generation: m.table.Generation(idx)}
}

// Stats returns size and operation counters.
func (m *SlotMap[T]) Stats() Stats {
	return Stats{
		Len:        m.Len(),
		Cap:        m.Cap(),
		Pages:      m.dense.Pages(),
		IndexPages: m.table.Pages(),
		Allocs:     m.allocs,
		Erases:     m.erases,
		Grows:      m.grows,
	}
}

// Validate checks the internal invariants and returns an error wrapping
// ErrCorrupted on the first violation found. It runs in O(Cap).
func (m *SlotMap[T]) Validate() error {
	free, err := m.table.FreeSet()
	if err != nil {
		return m.corrupted("%v", err)
	}
	if m.table.Cap() != m.dense.Cap() || m.owners.Cap() != m.dense.Cap() {
		return m.corrupted("table capacity %d, arena capacity %d, owners capacity %d",
			m.table.Cap(), m.dense.Cap(), m.owners.Cap())
	}
	if int(m.size) != m.table.Len() {
		return m.corrupted("size %d but %d live indices", m.size, m.table.Len())
	}
	for pos := uint32(0); pos < m.size; pos++ {
		idx := *m.owners.At(pos)
		if !m.table.IsLive(idx) || free.Test(uint(idx)) {
			return m.corrupted("dense position %d owned by non-live index %d", pos, idx)
		}
		if got := m.table.Target(idx); got != pos {
			return m.corrupted("index %d points at %d, owner map says %d", idx, got, pos)
		}
	}
	return nil
}
