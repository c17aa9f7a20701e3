// Package freelist implements the generation-checked index table shared by
// the slot containers.
//
// Every external index owns one entry. A free entry stores the next free
// index, forming a singly linked list rooted at the table head; a live entry
// stores whatever location the owning container maps the index to. The
// generation of an entry is bumped on every release and is the only thing a
// handle is validated against.
//
// The list always terminates at the table capacity: when the head equals the
// capacity the table is exhausted and must grow before the next Acquire.
package freelist
