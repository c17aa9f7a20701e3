package slotmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSlot is used when a stale, foreign or zero slot is passed to an
	// operation that requires a live one.
	ErrInvalidSlot = errors.New("slotmap: invalid slot")
	// ErrAlreadyAssigned is used when a key that already has a value is assigned again.
	ErrAlreadyAssigned = errors.New("slotmap: key already assigned")
	// ErrNotAssigned is used when a key without a value is read or erased.
	ErrNotAssigned = errors.New("slotmap: key not assigned")
	// ErrUnderflow is used when an erase would drop the size below zero.
	ErrUnderflow = errors.New("slotmap: size underflow")
	// ErrCapacityExceeded is used when growth would leave the 32-bit index space.
	ErrCapacityExceeded = errors.New("slotmap: capacity exceeded")
	// ErrCorrupted reports a broken internal invariant. Validate wraps it.
	ErrCorrupted = errors.New("slotmap: corrupted")
)

// ContractViolation is the panic value raised on misuse of a container.
//
// Misuse (a stale handle, a double assign, an erase of something that is not
// there) is a bug in the caller, so containers fail fast instead of returning
// errors. A caller that recovers can still classify the failure with
// errors.Is against the sentinel errors above.
type ContractViolation struct {
	Container string
	Op        string
	Slot      Slot
	Err       error
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Container, e.Op, e.Slot, e.Err)
}

func (e *ContractViolation) Unwrap() error { return e.Err }
