package hamt

import (
	"github.com/cespare/xxhash/v2"
)

// HashUint32 is the identity hash.
func HashUint32(k uint32) uint32 {
	return k
}

// HashInt folds an int into 32 bits. Values that fit in 32 bits hash to
// themselves.
func HashInt(k int) uint32 {
	u := uint64(k)
	return uint32(u) ^ uint32(u>>32)
}

// HashString hashes a string with xxhash and folds the result to 32 bits.
func HashString(s string) uint32 {
	h := xxhash.Sum64String(s)
	return uint32(h) ^ uint32(h>>32)
}

// HashBytes is HashString for byte slices.
func HashBytes(b []byte) uint32 {
	h := xxhash.Sum64(b)
	return uint32(h) ^ uint32(h>>32)
}

// HashStringPoly31 is the polynomial string hash s[0] + s[1]*31 + s[2]*31^2 ...
// computed modulo 2^32. It spreads short decimal strings poorly across the
// higher levels, which makes it useful for exercising collision chains.
func HashStringPoly31(s string) uint32 {
	var h, m uint32 = 0, 1
	for i := 0; i < len(s); i++ {
		h += uint32(s[i]) * m
		m *= 31
	}
	return h
}
