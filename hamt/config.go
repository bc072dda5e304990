package hamt

import (
	"cmp"
	"fmt"

	"go.uber.org/zap"
)

// Config holds the type operations of a Table. It is copied by New and never
// changed afterwards.
//
// CopyKey/FreeKey and CopyValue/FreeValue must be consistent pairs: the table
// frees exactly the copies it made and nothing else.
type Config[K, V any] struct {
	Hash       func(K) uint32
	CopyKey    func(K) K
	FreeKey    func(K)
	CopyValue  func(V) V
	FreeValue  func(V)
	CompareKey func(a, b K) int // <0, 0, >0

	// Levels is the number of branching levels, 1..6. Zero means 5.
	Levels int

	// Allocator accounts for nodes and entries. Nil means the heap.
	Allocator Allocator

	// Logger receives lifecycle records. Nil means no logging.
	Logger *zap.Logger
}

func (cfg *Config[K, V]) validate() error {
	var missing string

	switch {
	case cfg.Hash == nil:
		missing = "Hash"
	case cfg.CopyKey == nil:
		missing = "CopyKey"
	case cfg.FreeKey == nil:
		missing = "FreeKey"
	case cfg.CopyValue == nil:
		missing = "CopyValue"
	case cfg.FreeValue == nil:
		missing = "FreeValue"
	case cfg.CompareKey == nil:
		missing = "CompareKey"
	}

	if missing != "" {
		return fmt.Errorf("%w: %s callback is required", ErrInvalidConfig, missing)
	}

	if cfg.Levels < 0 || cfg.Levels > maxLevels {
		return fmt.Errorf("%w: levels must be in [1..%d], got %d", ErrInvalidConfig, maxLevels, cfg.Levels)
	}

	return nil
}

// withDefaults fills in the optional fields.
func (cfg Config[K, V]) withDefaults() Config[K, V] {
	if cfg.Levels == 0 {
		cfg.Levels = defLevels
	}
	if cfg.Allocator == nil {
		cfg.Allocator = heapAllocator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// OrderedConfig returns a Config for plain value types: copies are the values
// themselves, frees do nothing and keys are compared with cmp.Compare.
func OrderedConfig[K cmp.Ordered, V any](hash func(K) uint32) Config[K, V] {
	return Config[K, V]{
		Hash:       hash,
		CopyKey:    func(k K) K { return k },
		FreeKey:    func(K) {},
		CopyValue:  func(v V) V { return v },
		FreeValue:  func(V) {},
		CompareKey: cmp.Compare[K],
	}
}
