// Package slotmap provides generational slot storage: containers that hand out
// small, copyable handles which detect use after removal.
//
// # Containers
//
// SlotMap owns its values. Allocate returns a Slot; At resolves it in O(1);
// Erase removes the value and invalidates the slot forever:
//
//	services := slotmap.New[Service]()
//	s := services.Allocate(Service{Name: "audio"})
//	services.At(s).Start()
//	services.Erase(s)
//	services.IsSlotValid(s) // false, now and after any later reuse of the index
//
// Generator only issues identities. SparseStorage attaches values to those
// identities, one storage per kind of data, so an identity can carry any
// number of independently attached values:
//
//	entities := slotmap.NewGenerator()
//	positions := slotmap.NewSparseStorage[Vec2]()
//
//	e := entities.Acquire()
//	positions.Assign(e, Vec2{X: 1})
//	if positions.Has(e) {
//	    positions.At(e).X++
//	}
//	positions.Erase(e)
//	entities.Release(e)
//
// # Handles and generations
//
// A Slot is an (Index, Generation) pair. Every container keeps one generation
// counter per index and bumps it when the index is released. A slot is valid
// only while its generation matches, so a stale slot can never alias a value
// stored later under the same index. Generations start at 1, which makes the
// zero Slot invalid everywhere.
//
// # Storage layout
//
// Values live in fixed-size pages that are allocated once and never moved;
// growth appends a page. Values are kept dense: erasing moves the last value
// into the hole, so iteration visits exactly Len() values but its order
// changes across erases. Pointers returned by At are stable across growth and
// become stale on the next Erase.
//
// # Misuse
//
// Operations that require a live slot (At, Erase, Release, Assign on an
// assigned key) panic with a *ContractViolation when the requirement does not
// hold. Use IsSlotValid, IsValid, Has or Get to check first. The violation
// wraps one of the sentinel errors (ErrInvalidSlot, ErrAlreadyAssigned, ...)
// for callers that recover.
//
// # Concurrency
//
// Containers are not safe for concurrent use. Serialize access externally or
// give each goroutine its own container.
package slotmap
