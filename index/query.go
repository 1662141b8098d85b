package index

import "fmt"

// RankOf is Rank with the out-of-range indicator converted to ErrOutOfRange.
func RankOf(rs RankSelect, i int) (int, error) {
	c, ok := rs.Rank(i)
	if !ok {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, i, rs.Len())
	}
	return c, nil
}

// SelectOf is Select with the not-found indicator converted to ErrNotFound.
func SelectOf(rs RankSelect, r int) (int, error) {
	p, ok := rs.Select(r)
	if !ok {
		return 0, fmt.Errorf("%w: r=%d, ones=%d", ErrNotFound, r, rs.Ones())
	}
	return p, nil
}

// Sentinel is the value the text-based tooling prints for a failed query.
const Sentinel = -1

// RankOrSentinel returns Rank(i), or Sentinel when i is out of range.
func RankOrSentinel(rs RankSelect, i int) int {
	if c, ok := rs.Rank(i); ok {
		return c
	}
	return Sentinel
}

// SelectOrSentinel returns Select(r), or Sentinel when no r-th set bit exists.
func SelectOrSentinel(rs RankSelect, r int) int {
	if p, ok := rs.Select(r); ok {
		return p
	}
	return Sentinel
}
