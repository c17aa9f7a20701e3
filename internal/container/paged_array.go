package container

import (
	"iter"
	"math/bits"
)

const (
	// DefaultPageSize is the number of elements per page when none is given.
	DefaultPageSize = 64
	// MaxPageSize bounds a single page allocation (1M elements).
	MaxPageSize = 1 << 20
)

// NormalizePageSize rounds n up to the next power of two, clamped to
// [1, MaxPageSize]. Non-positive values select DefaultPageSize.
func NormalizePageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return 1 << bits.Len(uint(n-1)) //nolint:gosec // n > 0
}

// PagedArray is an append-only array of fixed-size pages.
type PagedArray[T any] struct {
	pages    [][]T
	pageBits uint
	pageMask uint32
}

// NewPagedArray creates an empty PagedArray. The page size is normalized with
// NormalizePageSize; no page is allocated until Grow is called.
func NewPagedArray[T any](pageSize int) *PagedArray[T] {
	pageSize = NormalizePageSize(pageSize)
	pageBits := uint(bits.TrailingZeros(uint(pageSize))) //nolint:gosec // pageSize > 0
	return &PagedArray[T]{
		pageBits: pageBits,
		pageMask: uint32(pageSize - 1), //nolint:gosec // pageSize <= MaxPageSize
	}
}

// PageSize returns the number of elements per page.
func (a *PagedArray[T]) PageSize() int {
	return 1 << a.pageBits
}

// Pages returns the number of allocated pages.
func (a *PagedArray[T]) Pages() int {
	return len(a.pages)
}

// Cap returns the number of addressable elements.
func (a *PagedArray[T]) Cap() int {
	return len(a.pages) << a.pageBits
}

// Grow appends one zeroed page and returns the new capacity.
func (a *PagedArray[T]) Grow() int {
	a.pages = append(a.pages, make([]T, a.PageSize()))
	return a.Cap()
}

// At returns a pointer to element i. i must be below Cap.
func (a *PagedArray[T]) At(i uint32) *T {
	return &a.pages[i>>a.pageBits][i&a.pageMask]
}

// Move overwrites element dst with element src and zeroes src.
// Moving an element onto itself leaves it untouched.
func (a *PagedArray[T]) Move(dst, src uint32) {
	if dst == src {
		return
	}
	from := a.At(src)
	*a.At(dst) = *from
	var zero T
	*from = zero
}

// Zero resets element i to the zero value of T.
func (a *PagedArray[T]) Zero(i uint32) {
	var zero T
	*a.At(i) = zero
}

// Range yields the first n elements in position order, page by page.
// The returned sequence can be iterated any number of times.
func (a *PagedArray[T]) Range(n uint32) iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		var pos uint32
		for _, page := range a.pages {
			for j := range page {
				if pos >= n {
					return
				}
				if !yield(pos, &page[j]) {
					return
				}
				pos++
			}
		}
	}
}
