// Package lookup implements rank/select with a precomputed rank for every
// position.
//
// The table is materialized from a twolevel index in one O(n·k) pass; after
// that rank is a single array access and select a binary search over the
// table.
package lookup

import (
	"fmt"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/index/twolevel"
)

// BuilderK is the superblock parameter of the internal twolevel index.
const BuilderK = 3

func init() {
	index.Register(index.KindLookUp, func(words []uint64, _ int) (index.RankSelect, error) {
		return New(words)
	})
}

// Index stores rank(i) at ranks[i-1] for every position.
type Index struct {
	ranks []uint32

	// builder is kept across rebuilds to avoid reallocating its tables.
	builder *twolevel.Index
}

var (
	_ index.RankSelect = (*Index)(nil)
	_ index.Exporter   = (*Index)(nil)
)

// New builds a lookup index over words.
func New(words []uint64) (*Index, error) {
	x := &Index{}
	if err := x.Rebuild(words); err != nil {
		return nil, err
	}
	return x, nil
}

// Rebuild replaces the indexed vector. The internal twolevel index and the
// rank table are reused when possible.
func (x *Index) Rebuild(words []uint64) error {
	if err := bitvec.Validate(words); err != nil {
		return fmt.Errorf("lookup: %w", index.ErrEmptyVector)
	}
	if err := index.ValidateLen(bitvec.Len(words)); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if x.builder == nil {
		b, err := twolevel.New(words, BuilderK)
		if err != nil {
			return fmt.Errorf("lookup: %w", err)
		}
		x.builder = b
	} else if err := x.builder.RebuildWithK(words, BuilderK); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	n := x.builder.Len()
	if cap(x.ranks) < n {
		x.ranks = make([]uint32, n)
	} else {
		x.ranks = x.ranks[:n]
	}
	for i := range x.ranks {
		r, _ := x.builder.Rank(i + 1)
		x.ranks[i] = uint32(r)
	}
	return nil
}

// Rank returns ranks[i-1].
func (x *Index) Rank(i int) (int, bool) {
	if i == 0 {
		return 0, true
	}
	if i < 1 || i > len(x.ranks) {
		return 0, false
	}
	return int(x.ranks[i-1]), true
}

// Select returns the position of the leftmost table entry equal to r.
func (x *Index) Select(r int) (int, bool) {
	if r < 1 || r > len(x.ranks) || r > x.Ones() {
		return 0, false
	}
	idx := leftmost(x.ranks, uint32(r))
	if idx < 0 {
		return 0, false
	}
	return idx + 1, true
}

// leftmost returns the smallest index holding v in the non-decreasing slice
// ranks, or -1 if v is absent.
func leftmost(ranks []uint32, v uint32) int {
	if ranks[0] == v {
		return 0
	}

	lo, hi := 0, len(ranks)-1
	found := -1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		switch {
		case ranks[mid] > v:
			hi = mid - 1
		case ranks[mid] == v:
			found = mid
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return found
}

// Len returns the number of bits.
func (x *Index) Len() int { return len(x.ranks) }

// Ones returns the number of set bits.
func (x *Index) Ones() int {
	if len(x.ranks) == 0 {
		return 0
	}
	return int(x.ranks[len(x.ranks)-1])
}

// Kind returns index.KindLookUp.
func (x *Index) Kind() index.Kind { return index.KindLookUp }

// SizeInBytes returns the size of the rank table plus the internal builder.
func (x *Index) SizeInBytes() int {
	size := 4 * len(x.ranks)
	if x.builder != nil {
		size += x.builder.SizeInBytes()
	}
	return size
}

// AppendWords returns the vector held by the internal builder.
func (x *Index) AppendWords(dst []uint64) []uint64 {
	if x.builder == nil {
		return dst
	}
	return x.builder.AppendWords(dst)
}
