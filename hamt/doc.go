// Package hamt implements a bitmap-indexed hash trie (Hash Array Mapped Trie)
// over caller-supplied key and value types.
//
// A key is hashed once into a uint32. Each level of the trie consumes the next
// 5 bits of the hash, starting from the least significant ones, to pick one of
// 32 logical slots. After Levels levels (5 by default, 25 bits) the walk ends
// in a leaf bucket, a chain of entries whose hashes agree on every consumed
// bit. Buckets are resolved by the key comparator, never by the hash alone.
//
// Internal nodes:
// --------------
//
// An internal node keeps a 32-bit occupancy bitmap and a compacted child
// array holding exactly one element per set bit:
//
//	bitmap:   0000 0000 0000 0000 0000 0000 0010 1001   (slots 0, 3, 5)
//	children: [ c0 c3 c5 ]
//
// The physical offset of slot i is the number of set bits below i:
//
//	offset(i) = popcount(bitmap & (1<<i - 1))
//
// so slot 5 lives at offset 2. Adding a child shifts the tail of the array one
// place to the right, removing one shifts it back.
//
// Example trie (Levels = 2, hashes 0x000 and 0x020 and 0x003):
// -----------------------------------------------------------
//
//	                 ,-- [0] -- [node:bmp=...0011] --+-- [0] -- [leaf: 0x000]
//	[root:bmp=...1001] --+                               `-- [1] -- [leaf: 0x020]
//	                 `-- [3] -- [node:bmp=...0001] ----- [0] -- [leaf: 0x003]
//
// Removal prunes leaves and internal nodes that become empty, all the way up
// to (but never including) the root, which lives as long as the table.
//
// Ownership:
// ---------
//
// The table stores copies made with Config.CopyKey and Config.CopyValue and
// frees them with Config.FreeKey and Config.FreeValue. Values returned by
// Find and Remove are fresh copies that belong to the caller.
//
// Every node and entry is reserved through Config.Allocator before it is
// linked in. A failed reservation fails the operation and leaves the table as
// it was.
package hamt
