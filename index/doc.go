// Package index defines the rank/select contract shared by every index
// implementation, together with the kind registry used to build them.
//
// Three implementations trade space for time:
//
//   - naive: stores one byte per bit and answers by linear scan (reference oracle)
//   - twolevel: superblock/block/popcount decomposition, O(k) rank, O(k log n) select
//   - lookup: rank precomputed for every position, O(1) rank, O(log n) select
//
// # Contract
//
// Positions are 1-indexed. For a vector of n bits:
//
//	Rank(i)   i in [0, n]      -> number of set bits among positions 1..i
//	Select(r) r in [1, Ones()] -> position of the r-th set bit (leftmost)
//
// Out-of-range arguments are reported through the boolean result, never by
// panicking. RankOf and SelectOf convert the boolean into ErrOutOfRange and
// ErrNotFound for callers that prefer errors.
//
// # Concurrency
//
// A built index is immutable and safe for concurrent queries. Rebuild mutates
// the index in place and must not overlap with queries or other rebuilds on
// the same instance; callers serialize it externally.
//
// # Subpackages
//
//   - naive: linear scan
//   - twolevel: space-efficient two-level structure
//   - lookup: full rank table built from a twolevel index
package index
