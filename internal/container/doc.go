// Package container implements the paged storage behind the slot containers.
//
// Both types here grow by whole pages and never resize a page once it has been
// allocated, so a pointer into a page stays valid for the lifetime of the
// container. Growing only appends to the page directory (a slice of page
// headers); the elements themselves never move.
//
//   - PagedArray: dense, eagerly grown one page at a time.
//   - LazyPages: sparse, a page is materialised on first write and unknown
//     pages read as absent.
//
// Neither type is safe for concurrent use.
package container
