package twolevel

import (
	"fmt"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/internal/popcount"
)

// BlockBits is the number of bits per block.
const BlockBits = bitvec.BlockBits

// DefaultK is used by Rebuild on an index that has no k yet.
const DefaultK = 1

func init() {
	index.Register(index.KindSpaceEfficient, func(words []uint64, k int) (index.RankSelect, error) {
		return New(words, k)
	})
}

// Index is the two-level rank/select structure.
type Index struct {
	// blocks holds the vector as 32-bit words, position 1 in the MSB of blocks[0].
	blocks []uint32

	// rs[j] is the number of set bits in superblocks 0..j inclusive.
	rs []uint32

	n int // bits
	k int // blocks per superblock
	s int // bits per superblock
}

var (
	_ index.Tunable  = (*Index)(nil)
	_ index.Exporter = (*Index)(nil)
)

// New builds a two-level index over words with k blocks per superblock.
func New(words []uint64, k int) (*Index, error) {
	x := &Index{}
	if err := x.RebuildWithK(words, k); err != nil {
		return nil, err
	}
	return x, nil
}

// Rebuild replaces the indexed vector, keeping the current k.
func (x *Index) Rebuild(words []uint64) error {
	k := x.k
	if k == 0 {
		k = DefaultK
	}
	return x.RebuildWithK(words, k)
}

// RebuildWithK replaces the indexed vector and k. Existing block and
// superblock slices are reused when their capacity suffices.
func (x *Index) RebuildWithK(words []uint64, k int) error {
	if err := index.ValidateK(k); err != nil {
		return fmt.Errorf("twolevel: %w", err)
	}
	if err := bitvec.Validate(words); err != nil {
		return fmt.Errorf("twolevel: %w", index.ErrEmptyVector)
	}
	n := bitvec.Len(words)
	if err := index.ValidateLen(n); err != nil {
		return fmt.Errorf("twolevel: %w", err)
	}

	x.n, x.k, x.s = n, k, k*BlockBits
	x.blocks = bitvec.Split32(x.blocks, words)
	x.rs = x.buildRs(x.rs)
	return nil
}

// buildRs accumulates each superblock's own count, then prefix-sums the table.
func (x *Index) buildRs(dst []uint32) []uint32 {
	size := (x.n+x.s-1)/x.s + 1
	if cap(dst) < size {
		dst = make([]uint32, size)
	} else {
		dst = dst[:size]
		clear(dst)
	}

	for i, b := range x.blocks {
		dst[(i*BlockBits)/x.s] += uint32(popcount.Count32(b))
	}
	for j := 1; j < len(dst); j++ {
		dst[j] += dst[j-1]
	}
	return dst
}

// Rank returns the number of set bits among positions 1..i.
func (x *Index) Rank(i int) (int, bool) {
	if i == 0 {
		return 0, true
	}
	if i < 0 || i > x.n {
		return 0, false
	}
	return x.rankSuperblock(i) + x.rankBlock(i) + x.rankWord(i), true
}

// rankSuperblock counts the set bits of all superblocks preceding i's.
func (x *Index) rankSuperblock(i int) int {
	idx := i / x.s
	if idx == 0 {
		return 0
	}
	return int(x.rs[idx-1])
}

// rankBlock counts the set bits of the blocks between the start of i's
// superblock and i's own block.
func (x *Index) rankBlock(i int) int {
	start := (i / x.s) * x.k
	idx := i / BlockBits
	sum := 0
	for _, b := range x.blocks[start:idx] {
		sum += popcount.Count32(b)
	}
	return sum
}

// rankWord counts the set bits among the high i%32 bits of i's block.
func (x *Index) rankWord(i int) int {
	idx := i / BlockBits
	r := i % BlockBits
	if r == 0 || idx == len(x.blocks) {
		return 0
	}
	return popcount.Count32(x.blocks[idx] >> (BlockBits - r))
}

// Select returns the smallest position m with Rank(m) == r, found by binary
// search over [1, n].
func (x *Index) Select(r int) (int, bool) {
	if r < 1 || r > x.n || r > x.Ones() {
		return 0, false
	}

	lo, hi := 1, x.n
	pos := -1
	for lo <= hi {
		m := lo + (hi-lo)/2
		rm, _ := x.Rank(m)
		switch {
		case rm > r:
			hi = m - 1
		case rm == r:
			// Keep searching left for the leftmost match.
			pos = m
			hi = m - 1
		default:
			lo = m + 1
		}
	}
	if pos < 0 {
		return 0, false
	}
	return pos, true
}

// Len returns the number of bits.
func (x *Index) Len() int { return x.n }

// Ones returns the number of set bits.
func (x *Index) Ones() int {
	if len(x.rs) == 0 {
		return 0
	}
	return int(x.rs[len(x.rs)-1])
}

// K returns the number of blocks per superblock.
func (x *Index) K() int { return x.k }

// SuperblockBits returns s = 32k.
func (x *Index) SuperblockBits() int { return x.s }

// Superblocks returns the length of the cumulative superblock table.
func (x *Index) Superblocks() int { return len(x.rs) }

// Kind returns index.KindSpaceEfficient.
func (x *Index) Kind() index.Kind { return index.KindSpaceEfficient }

// SizeInBytes returns the size of the block array and the superblock table.
func (x *Index) SizeInBytes() int {
	return 4*len(x.blocks) + 4*len(x.rs)
}

// AppendWords joins block pairs back into 64-bit words.
func (x *Index) AppendWords(dst []uint64) []uint64 {
	for j := 0; j+1 < len(x.blocks); j += 2 {
		dst = append(dst, uint64(x.blocks[j])<<32|uint64(x.blocks[j+1]))
	}
	return dst
}
