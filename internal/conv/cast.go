package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit in the target type.
var ErrOverflow = errors.New("integer overflow")

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint32 (negative)", ErrOverflow, v)
	}
	// On 64-bit systems, int can exceed uint32 max; on 32-bit, this is always false
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint32 (too large)", ErrOverflow, v)
	}
	return uint32(v), nil
}

// CapacityAfterGrow returns cur+step as uint32, failing if the result would
// leave the 32-bit index space. The value math.MaxUint32 itself is rejected
// because containers reserve it as a sentinel.
func CapacityAfterGrow(cur uint32, step int) (uint32, error) {
	if step == 0 {
		return 0, fmt.Errorf("%w: invalid growth step 0", ErrOverflow)
	}
	s, err := IntToUint32(step)
	if err != nil {
		return 0, err
	}
	next := uint64(cur) + uint64(s)
	if next >= math.MaxUint32 {
		return 0, fmt.Errorf("%w: capacity %d+%d exceeds index space", ErrOverflow, cur, step)
	}
	return uint32(next), nil
}
