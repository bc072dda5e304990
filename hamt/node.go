package hamt

import (
	"github.com/hideo55/go-popcount"
)

const (
	sliceWidth = 5                 // bits of a hash consumed per level
	sliceMask  = 1<<sliceWidth - 1 // 0b_11111
	slotCount  = 1 << sliceWidth   // 32 logical slots per node
	maxLevels  = 32 / sliceWidth   // 6 levels use 30 of 32 bits
	defLevels  = 5
)

// entry is a key/value pair owned by the table, chained inside a leaf bucket.
type entry[K, V any] struct {
	key  K
	val  V
	next *entry[K, V]
}

// node is either an internal node (bitmap + compacted children) or a leaf
// bucket (head of an entry chain). Which one it is follows from its depth.
type node[K, V any] struct {
	bitmap   uint32
	children []*node[K, V] // len(children) == popcount(bitmap)
	entries  *entry[K, V]  // leaf only
}

// logicalIndex returns the 5-bit slice of the hash addressing depth d.
func logicalIndex(hash uint32, depth int) uint {
	return uint(hash>>(sliceWidth*uint(depth))) & sliceMask
}

// offset maps a logical index to its position in the compacted array.
// Only the bits strictly below idx are counted.
func offset(bitmap uint32, idx uint) int {
	return int(popcount.Count(uint64(bitmap & (1<<idx - 1))))
}

func (n *node[K, V]) has(idx uint) bool {
	return (n.bitmap>>idx)&0x01 != 0
}

// lookup returns the child at logical slot idx or nil if it is absent.
func (n *node[K, V]) lookup(idx uint) *node[K, V] {
	if !n.has(idx) {
		return nil
	}
	return n.children[offset(n.bitmap, idx)]
}

// upsize inserts child at logical slot idx. The slot must be empty.
func (n *node[K, V]) upsize(idx uint, child *node[K, V]) {
	var (
		ofs = offset(n.bitmap, idx)
		num = len(n.children)
	)

	n.children = append(n.children, nil)

	if ofs < num {
		// shift [ofs, num) one position right
		copy(n.children[ofs+1:], n.children[ofs:num])
	}

	n.children[ofs] = child
	n.bitmap |= 1 << idx
}

// downsize removes the child at logical slot idx and returns it.
// The slot must be occupied. An emptied array drops its backing storage.
func (n *node[K, V]) downsize(idx uint) *node[K, V] {
	var (
		ofs   = offset(n.bitmap, idx)
		num   = len(n.children)
		child = n.children[ofs]
	)

	// shift (ofs, num) one position left
	copy(n.children[ofs:], n.children[ofs+1:])
	n.children[num-1] = nil // drop the stale reference
	n.children = n.children[:num-1]
	n.bitmap &^= 1 << idx

	if n.bitmap == 0 {
		n.children = nil
	}

	return child
}

// width returns the number of live children.
func (n *node[K, V]) width() int {
	return int(popcount.Count(uint64(n.bitmap)))
}

// chainLen returns the length of a leaf's entry chain.
func (n *node[K, V]) chainLen() int {
	var num int
	for e := n.entries; e != nil; e = e.next {
		num++
	}
	return num
}
