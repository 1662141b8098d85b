// Package naive implements rank/select by scanning an explicit 0/1 array.
//
// It is the reference oracle the faster indexes are tested against; rank
// costs O(i) and select O(n).
package naive

import (
	"fmt"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
)

func init() {
	index.Register(index.KindNaive, func(words []uint64, _ int) (index.RankSelect, error) {
		return New(words)
	})
}

// Index stores one byte per bit.
type Index struct {
	bits []uint8

	// maxSelect is the total number of set bits, the largest valid Select argument.
	maxSelect int
}

var (
	_ index.RankSelect = (*Index)(nil)
	_ index.Exporter   = (*Index)(nil)
)

// New builds a naive index over words.
func New(words []uint64) (*Index, error) {
	x := &Index{}
	if err := x.Rebuild(words); err != nil {
		return nil, err
	}
	return x, nil
}

// Rebuild replaces the indexed vector, reusing the bit array when possible.
func (x *Index) Rebuild(words []uint64) error {
	if err := bitvec.Validate(words); err != nil {
		return fmt.Errorf("naive: %w", index.ErrEmptyVector)
	}
	if err := index.ValidateLen(bitvec.Len(words)); err != nil {
		return fmt.Errorf("naive: %w", err)
	}
	x.bits = bitvec.Unpack(x.bits, words)
	x.maxSelect, _ = x.Rank(len(x.bits))
	return nil
}

// Rank counts the set bits among positions 1..i by linear scan.
func (x *Index) Rank(i int) (int, bool) {
	if i == 0 {
		return 0, true
	}
	if i < 0 || i > len(x.bits) {
		return 0, false
	}
	count := 0
	for _, b := range x.bits[:i] {
		if b == 1 {
			count++
		}
	}
	return count, true
}

// Select scans until the r-th set bit is reached.
func (x *Index) Select(r int) (int, bool) {
	if r < 1 || r > len(x.bits) || r > x.maxSelect {
		return 0, false
	}
	ones := 0
	for i, b := range x.bits {
		if b == 1 {
			ones++
			if ones == r {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// Len returns the number of bits.
func (x *Index) Len() int { return len(x.bits) }

// Ones returns the number of set bits.
func (x *Index) Ones() int { return x.maxSelect }

// Kind returns index.KindNaive.
func (x *Index) Kind() index.Kind { return index.KindNaive }

// SizeInBytes returns the size of the unpacked bit array.
func (x *Index) SizeInBytes() int { return len(x.bits) }

// AppendWords packs the bit array back into 64-bit words.
func (x *Index) AppendWords(dst []uint64) []uint64 {
	for base := 0; base < len(x.bits); base += bitvec.WordBits {
		var w uint64
		for _, b := range x.bits[base : base+bitvec.WordBits] {
			w = w<<1 | uint64(b)
		}
		dst = append(dst, w)
	}
	return dst
}
