package hamt

import "errors"

var (
	// ErrInvalidConfig is returned by New when a required callback is missing
	// or a size parameter is out of range.
	ErrInvalidConfig = errors.New("hamt: invalid config")

	// ErrInvalidHandle is returned by every Table method called on a nil,
	// uninitialized or freed table.
	ErrInvalidHandle = errors.New("hamt: invalid table handle")

	// ErrAllocationFailure is returned when the Allocator refuses to reserve
	// a node or an entry. The table is left as it was before the call.
	ErrAllocationFailure = errors.New("hamt: allocation failure")
)
