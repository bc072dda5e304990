package hamt

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	validTag  uint32 = 0x815842
	poisonTag uint32 = 0xDEADBEEF
)

// InsertResult tells whether Insert added a new key or replaced a value.
type InsertResult uint8

const (
	Inserted InsertResult = iota + 1
	Updated
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "Inserted"
	case Updated:
		return "Updated"
	}
	return fmt.Sprintf("InsertResult(%d)", uint8(r))
}

// removeResult is what a removal reports to the frame above it.
type removeResult uint8

const (
	notFound        removeResult = iota // no such key, nothing changed
	removedKeep                         // removed, the parent keeps its child
	removedCollapse                     // removed, the parent must drop its child
)

// Table is a hash trie mapping keys of type K to values of type V.
//
// The table owns copies of everything stored in it, made with the Config
// callbacks; values handed back by Find and Remove are fresh copies owned by
// the caller.
//
// A Table is not safe for concurrent use. Callers sharing one between
// goroutines must serialize every call, reads included.
type Table[K, V any] struct {
	valid uint32
	size  int
	root  *node[K, V] // never nil while the table is valid
	cfg   Config[K, V]
}

// New returns an empty table using the given type operations.
func New[K, V any](cfg Config[K, V]) (*Table[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()

	if err := cfg.Allocator.Alloc(KindNode); err != nil {
		return nil, fmt.Errorf("allocate root: %w", err)
	}

	return &Table[K, V]{
		valid: validTag,
		root:  &node[K, V]{},
		cfg:   cfg,
	}, nil
}

func (t *Table[K, V]) check() error {
	if t == nil || t.valid != validTag {
		return ErrInvalidHandle
	}
	return nil
}

func (t *Table[K, V]) kindAt(depth int) Kind {
	if depth == t.cfg.Levels {
		return KindLeaf
	}
	return KindNode
}

// Len returns the number of distinct keys in the table.
func (t *Table[K, V]) Len() (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return t.size, nil
}

// Insert stores a copy of val under a copy of key. If the key is already
// present only its value is replaced and Updated is returned.
func (t *Table[K, V]) Insert(key K, val V) (InsertResult, error) {
	if err := t.check(); err != nil {
		return 0, err
	}

	var (
		hash  = t.cfg.Hash(key)
		cur   = t.root
		depth int
	)

	// walk along the existing path
	for ; depth < t.cfg.Levels; depth++ {
		next := cur.lookup(logicalIndex(hash, depth))
		if next == nil {
			break
		}
		cur = next
	}

	if depth == t.cfg.Levels {
		if e := t.scan(cur, key); e != nil {
			t.cfg.FreeValue(e.val)
			e.val = t.cfg.CopyValue(val)
			return Updated, nil
		}
	}

	// reserve the rest of the path and the entry before touching anything
	if err := t.reserve(t.cfg.Levels - depth); err != nil {
		t.cfg.Logger.Warn("hamt insert failed",
			zap.Int("depth", depth),
			zap.Int("size", t.size),
			zap.Error(err),
		)
		return 0, err
	}

	for ; depth < t.cfg.Levels; depth++ {
		child := &node[K, V]{}
		cur.upsize(logicalIndex(hash, depth), child)
		cur = child
	}

	cur.entries = &entry[K, V]{
		key:  t.cfg.CopyKey(key),
		val:  t.cfg.CopyValue(val),
		next: cur.entries,
	}
	t.size++

	return Inserted, nil
}

// reserve allocates the given number of missing nodes (the deepest being a
// leaf) plus one entry. Either all of them are reserved or none is.
func (t *Table[K, V]) reserve(missing int) error {
	kindOf := func(i int) Kind {
		switch {
		case i == missing:
			return KindEntry
		case i == missing-1:
			return KindLeaf
		}
		return KindNode
	}

	for i := 0; i <= missing; i++ {
		if err := t.cfg.Allocator.Alloc(kindOf(i)); err != nil {
			for j := i - 1; j >= 0; j-- {
				t.cfg.Allocator.Release(kindOf(j))
			}
			return err
		}
	}

	return nil
}

// scan looks for key in a leaf's entry chain.
func (t *Table[K, V]) scan(leaf *node[K, V], key K) *entry[K, V] {
	for e := leaf.entries; e != nil; e = e.next {
		if t.cfg.CompareKey(e.key, key) == 0 {
			return e
		}
	}
	return nil
}

// Find returns a copy of the value stored under key.
func (t *Table[K, V]) Find(key K) (val V, ok bool, err error) {
	if err = t.check(); err != nil {
		return
	}

	var (
		hash = t.cfg.Hash(key)
		cur  = t.root
	)

	for depth := 0; depth < t.cfg.Levels; depth++ {
		if cur = cur.lookup(logicalIndex(hash, depth)); cur == nil {
			return // not found
		}
	}

	if e := t.scan(cur, key); e != nil {
		return t.cfg.CopyValue(e.val), true, nil
	}

	return
}

// Remove deletes key from the table and returns a copy of its value.
// Nodes left empty by the removal are pruned, except the root.
func (t *Table[K, V]) Remove(key K) (val V, ok bool, err error) {
	if err = t.check(); err != nil {
		return
	}

	var res removeResult

	val, res = t.remove(t.root, t.cfg.Hash(key), 0, key)
	if res == notFound {
		return
	}

	t.size--

	return val, true, nil
}

func (t *Table[K, V]) remove(cur *node[K, V], hash uint32, depth int, key K) (val V, res removeResult) {
	if depth == t.cfg.Levels {
		// leaf bucket
		for prev, e := &cur.entries, cur.entries; e != nil; prev, e = &e.next, e.next {
			if t.cfg.CompareKey(e.key, key) != 0 {
				continue
			}

			*prev = e.next
			val = t.cfg.CopyValue(e.val)
			t.release(e)

			if cur.entries == nil {
				return val, removedCollapse
			}
			return val, removedKeep
		}
		return val, notFound
	}

	var (
		idx   = logicalIndex(hash, depth)
		child = cur.lookup(idx)
	)

	if child == nil {
		return val, notFound
	}

	if val, res = t.remove(child, hash, depth+1, key); res != removedCollapse {
		return val, res
	}

	cur.downsize(idx)
	t.cfg.Allocator.Release(t.kindAt(depth + 1))

	if cur.bitmap == 0 && depth > 0 {
		return val, removedCollapse
	}

	return val, removedKeep // the root is never pruned
}

// release frees the copies held by an unlinked entry.
func (t *Table[K, V]) release(e *entry[K, V]) {
	t.cfg.FreeKey(e.key)
	t.cfg.FreeValue(e.val)
	e.next = nil
	t.cfg.Allocator.Release(KindEntry)
}

// destroy releases the subtree rooted at cur, cur included, and returns the
// number of entries released.
func (t *Table[K, V]) destroy(cur *node[K, V], depth int) int {
	var num int

	if depth == t.cfg.Levels {
		for e := cur.entries; e != nil; {
			next := e.next
			t.release(e)
			e = next
			num++
		}
		cur.entries = nil
	} else {
		for i, child := range cur.children {
			num += t.destroy(child, depth+1)
			cur.children[i] = nil
		}
		cur.children = nil
		cur.bitmap = 0
	}

	t.cfg.Allocator.Release(t.kindAt(depth))

	return num
}

// Clear removes every key. The table stays valid and behaves like a new one.
func (t *Table[K, V]) Clear() error {
	if err := t.check(); err != nil {
		return err
	}

	// the fresh root is reserved first so a failure leaves the table intact
	if err := t.cfg.Allocator.Alloc(KindNode); err != nil {
		t.cfg.Logger.Warn("hamt clear failed", zap.Int("size", t.size), zap.Error(err))
		return fmt.Errorf("allocate root: %w", err)
	}

	old := t.root
	t.root = &node[K, V]{}
	t.size = 0

	num := t.destroy(old, 0)

	t.cfg.Logger.Debug("hamt cleared", zap.Int("entries", num))

	return nil
}

// Free releases everything the table holds. The table is poisoned first, so
// any later call through it returns ErrInvalidHandle.
func (t *Table[K, V]) Free() error {
	if err := t.check(); err != nil {
		return err
	}

	t.valid = poisonTag

	var (
		old = t.root
		log = t.cfg.Logger
	)

	t.root = nil
	t.size = 0

	num := t.destroy(old, 0)
	t.cfg = Config[K, V]{}

	log.Debug("hamt freed", zap.Int("entries", num))

	return nil
}

// Stats describes the shape of a table.
type Stats struct {
	Entries  int // distinct keys
	Internal int // internal nodes, root included
	Leaves   int // leaf buckets
	MaxChain int // longest bucket chain
	Depth    int // branching levels
}

// Stats walks the table and reports its shape.
func (t *Table[K, V]) Stats() (Stats, error) {
	if err := t.check(); err != nil {
		return Stats{}, err
	}

	st := Stats{Depth: t.cfg.Levels}
	t.walk(t.root, 0, &st)

	return st, nil
}

func (t *Table[K, V]) walk(cur *node[K, V], depth int, st *Stats) {
	if depth == t.cfg.Levels {
		num := cur.chainLen()
		st.Leaves++
		st.Entries += num
		if num > st.MaxChain {
			st.MaxChain = num
		}
		return
	}

	st.Internal++

	for _, child := range cur.children {
		t.walk(child, depth+1, st)
	}
}

func (t *Table[K, V]) String() string {
	if t.check() != nil {
		return "<hamt|invalid>"
	}
	return fmt.Sprintf("<hamt|size:%d|levels:%d|root:%032b>", t.size, t.cfg.Levels, t.root.bitmap)
}
