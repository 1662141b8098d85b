// Package twolevel implements the space-efficient rank/select structure of
// González, Grabowski, Mäkinen and Navarro, "Practical implementation of rank
// and select queries" (WEA 2005).
//
// The vector is stored as 32-bit blocks. Every k consecutive blocks form a
// superblock of s = 32k bits, and Rs[j] holds the number of set bits in
// superblocks 0..j. A rank query sums three terms:
//
//	superblock term  Rs[i/s - 1]                     (0 in the first superblock)
//	block term       popcount of the blocks between the superblock start and block i/32
//	word term        popcount of the high i%32 bits of block i/32
//
// Rank costs O(k) and select, a leftmost binary search over rank, O(k log n).
// Space is O(n/32) words for the blocks plus O(n/s) counters.
package twolevel
