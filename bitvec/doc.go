// Package bitvec converts between the packed word representation consumed by
// the rank/select indexes and the layouts each index stores internally.
//
// A vector is a []uint64 of n = 64*len(words) bits. Positions are 1-indexed
// and most-significant-bit first: position 1 is bit 63 of words[0], position
// 64 is bit 0 of words[0], position 65 is bit 63 of words[1], and so on.
//
// Layout of one input word j and the two 32-bit blocks derived from it:
//
//	words[j]:  | b63 ................ b32 | b31 ................ b0 |
//	blocks:    |      blocks[2j]          |      blocks[2j+1]        |
//	positions: 64j+1              64j+32   64j+33              64j+64
package bitvec
