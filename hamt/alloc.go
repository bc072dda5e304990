package hamt

import (
	"fmt"
)

// Kind identifies the type of object a table reserves through its Allocator.
type Kind uint8

const (
	KindNode  Kind = iota // internal node
	KindLeaf              // leaf bucket
	KindEntry             // key/value entry

	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindLeaf:
		return "leaf"
	case KindEntry:
		return "entry"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Allocator accounts for every object a Table creates. Alloc must either
// reserve one object of the given kind or return an error, in which case the
// calling operation fails without modifying the table. Release returns a
// reservation made by Alloc.
type Allocator interface {
	Alloc(kind Kind) error
	Release(kind Kind)
}

// heapAllocator is the default Allocator. It never fails.
type heapAllocator struct{}

func (heapAllocator) Alloc(Kind) error { return nil }
func (heapAllocator) Release(Kind)     {}

// CountingAllocator counts live objects per kind. When Limit is positive,
// Alloc fails once the total number of live objects would exceed it.
//
// The zero value is ready to use and unbounded.
type CountingAllocator struct {
	Limit int

	live  [numKinds]int
	peak  int
	total int
	fails int
}

func (a *CountingAllocator) Alloc(kind Kind) error {
	if a.Limit > 0 && a.total >= a.Limit {
		a.fails++
		return fmt.Errorf("%w: %v limit of %d objects reached", ErrAllocationFailure, kind, a.Limit)
	}

	a.live[kind]++
	a.total++

	if a.total > a.peak {
		a.peak = a.total
	}

	return nil
}

func (a *CountingAllocator) Release(kind Kind) {
	if a.live[kind] == 0 {
		panic(fmt.Sprintf("hamt: release of an unallocated %v", kind))
	}
	a.live[kind]--
	a.total--
}

// Live returns the number of live objects of the given kind.
func (a *CountingAllocator) Live(kind Kind) int {
	return a.live[kind]
}

// Total returns the number of live objects of all kinds.
func (a *CountingAllocator) Total() int {
	return a.total
}

// Peak returns the highest Total observed.
func (a *CountingAllocator) Peak() int {
	return a.peak
}

// Failures returns how many times Alloc refused a reservation.
func (a *CountingAllocator) Failures() int {
	return a.fails
}
