package container

import "math/bits"

// LazyPages is a sparse paged table. Pages are allocated on first write and
// pre-filled with a fill value; lookups into missing pages report absence.
type LazyPages[T any] struct {
	pages     [][]T
	pageBits  uint
	pageMask  uint32
	fill      T
	allocated int
}

// NewLazyPages creates an empty table whose fresh pages are filled with fill.
func NewLazyPages[T any](pageSize int, fill T) *LazyPages[T] {
	pageSize = NormalizePageSize(pageSize)
	return &LazyPages[T]{
		pageBits: uint(bits.TrailingZeros(uint(pageSize))), //nolint:gosec // pageSize > 0
		pageMask: uint32(pageSize - 1),                     //nolint:gosec // pageSize <= MaxPageSize
		fill:     fill,
	}
}

// PageSize returns the number of entries per page.
func (lp *LazyPages[T]) PageSize() int {
	return 1 << lp.pageBits
}

// Pages returns the number of materialised pages.
func (lp *LazyPages[T]) Pages() int {
	return lp.allocated
}

// Span returns the length of the page directory, including missing pages.
func (lp *LazyPages[T]) Span() int {
	return len(lp.pages)
}

// Lookup returns entry i if its page exists.
func (lp *LazyPages[T]) Lookup(i uint32) (*T, bool) {
	pageIdx := int(i >> lp.pageBits)
	if pageIdx >= len(lp.pages) {
		return nil, false
	}
	page := lp.pages[pageIdx]
	if page == nil {
		return nil, false
	}
	return &page[i&lp.pageMask], true
}

// Ensure returns entry i, extending the directory up to its page and
// materialising that page if needed. Pages in between stay missing.
func (lp *LazyPages[T]) Ensure(i uint32) *T {
	pageIdx := int(i >> lp.pageBits)
	if pageIdx >= len(lp.pages) {
		grown := make([][]T, pageIdx+1)
		copy(grown, lp.pages)
		lp.pages = grown
	}
	if lp.pages[pageIdx] == nil {
		page := make([]T, lp.PageSize())
		for j := range page {
			page[j] = lp.fill
		}
		lp.pages[pageIdx] = page
		lp.allocated++
	}
	return &lp.pages[pageIdx][i&lp.pageMask]
}

// Each calls fn for every entry of every materialised page with its index.
// Iteration stops early when fn returns false.
func (lp *LazyPages[T]) Each(fn func(i uint32, v *T) bool) {
	for p, page := range lp.pages {
		if page == nil {
			continue
		}
		base := uint32(p) << lp.pageBits //nolint:gosec // directory is bounded by the uint32 index space
		for j := range page {
			if !fn(base+uint32(j), &page[j]) { //nolint:gosec // j < page size
				return
			}
		}
	}
}
