package slotmap

import "strconv"

// Slot is a generation-checked handle to an entry of a SlotMap, Generator or
// SparseStorage.
//
// A slot is a plain value: copying or dropping it has no effect on the data
// it refers to. It is valid only while its Generation equals the generation
// the issuing container records for its Index. Generations start at 1, so the
// zero Slot is never valid.
type Slot struct {
	Index      uint32
	Generation uint64
}

// IsZero reports whether s is the zero Slot.
func (s Slot) IsZero() bool {
	return s == Slot{}
}

// String renders the slot as "index:generation".
func (s Slot) String() string {
	return strconv.FormatUint(uint64(s.Index), 10) + ":" + strconv.FormatUint(s.Generation, 10)
}
