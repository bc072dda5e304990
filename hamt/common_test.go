package hamt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// tracker counts the live copies made through a trackedConfig.
type tracker struct {
	keys int
	vals int
}

// drop releases a value copy handed out by Find or Remove.
func (tr *tracker) drop(*int) {
	tr.vals--
}

func trackedConfig(tr *tracker, hash func(string) uint32) Config[string, *int] {
	return Config[string, *int]{
		Hash: hash,
		CopyKey: func(k string) string {
			tr.keys++
			return strings.Clone(k)
		},
		FreeKey: func(string) {
			tr.keys--
		},
		CopyValue: func(v *int) *int {
			tr.vals++
			c := *v
			return &c
		},
		FreeValue: func(*int) {
			tr.vals--
		},
		CompareKey: strings.Compare,
	}
}

func constHash[K any](h uint32) func(K) uint32 {
	return func(K) uint32 { return h }
}

func ptr(v int) *int {
	return &v
}

// verifyTrie checks the structural invariants of every reachable node and
// returns the number of entries found.
func verifyTrie[K, V any](t *testing.T, tbl *Table[K, V]) int {
	t.Helper()

	require.NotNil(t, tbl.root, "root must exist while the table is valid")

	var walk func(n *node[K, V], depth int) int

	walk = func(n *node[K, V], depth int) int {
		if depth == tbl.cfg.Levels {
			require.NotNil(t, n.entries, "reachable leaf with an empty chain")
			require.Nil(t, n.children)
			require.Zero(t, n.bitmap)
			return n.chainLen()
		}

		require.Nil(t, n.entries, "internal node holding entries at depth %d", depth)
		require.Equal(t, n.width(), len(n.children), "bitmap %032b at depth %d", n.bitmap, depth)

		if depth > 0 {
			require.NotZero(t, n.bitmap, "empty internal node at depth %d", depth)
		}
		if n.bitmap == 0 {
			require.Nil(t, n.children, "empty node keeps its backing array")
		}

		var num int
		for _, child := range n.children {
			require.NotNil(t, child)
			num += walk(child, depth+1)
		}
		return num
	}

	num := walk(tbl.root, 0)
	require.Equal(t, tbl.size, num, "size counter out of sync with the trie")

	return num
}
