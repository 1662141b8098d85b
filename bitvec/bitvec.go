package bitvec

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/rankselect/internal/popcount"
)

const (
	// WordBits is the number of bits per input word.
	WordBits = 64
	// BlockBits is the number of bits per internal block.
	BlockBits = 32
)

var (
	// ErrEmpty is returned when a vector has no words.
	ErrEmpty = errors.New("bitvec: empty vector")

	// ErrInvalidBit is returned by Parse for characters other than '0' and '1'.
	ErrInvalidBit = errors.New("bitvec: invalid bit character")

	// ErrPosition is returned when a position falls outside the vector.
	ErrPosition = errors.New("bitvec: position out of range")
)

// Validate checks that words describes a non-empty vector.
func Validate(words []uint64) error {
	if len(words) == 0 {
		return ErrEmpty
	}
	return nil
}

// Len returns the number of bits in the vector.
func Len(words []uint64) int {
	return len(words) * WordBits
}

// Ones returns the number of set bits in the vector.
func Ones(words []uint64) int {
	return popcount.Sum64(words)
}

// WordsFor returns the number of words needed to hold n bits.
func WordsFor(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + WordBits - 1) / WordBits
}

// Bit reports whether position p (1-indexed) is set.
func Bit(words []uint64, p int) (bool, error) {
	if p < 1 || p > Len(words) {
		return false, fmt.Errorf("%w: %d not in [1, %d]", ErrPosition, p, Len(words))
	}
	return bit(words, p), nil
}

func bit(words []uint64, p int) bool {
	off := p - 1
	return (words[off>>6]>>(63-uint(off&63)))&1 == 1
}

// Set sets position p (1-indexed).
func Set(words []uint64, p int) error {
	if p < 1 || p > Len(words) {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrPosition, p, Len(words))
	}
	off := p - 1
	words[off>>6] |= uint64(1) << (63 - uint(off&63))
	return nil
}

// FromPositions builds a vector of at least n bits with the given 1-indexed
// positions set. n is rounded up to a multiple of 64.
func FromPositions(n int, positions ...int) ([]uint64, error) {
	words := make([]uint64, WordsFor(n))
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	for _, p := range positions {
		if err := Set(words, p); err != nil {
			return nil, err
		}
	}
	return words, nil
}

// Split32 re-slices every 64-bit word into two 32-bit blocks, high half first.
// dst is reused when its capacity suffices.
func Split32(dst []uint32, words []uint64) []uint32 {
	n := 2 * len(words)
	if cap(dst) < n {
		dst = make([]uint32, n)
	} else {
		dst = dst[:n]
	}
	for j, w := range words {
		dst[2*j] = uint32(w >> 32)
		dst[2*j+1] = uint32(w)
	}
	return dst
}

// Unpack expands the vector into one byte per bit (0 or 1), position p at
// index p-1. dst is reused when its capacity suffices.
func Unpack(dst []uint8, words []uint64) []uint8 {
	n := Len(words)
	if cap(dst) < n {
		dst = make([]uint8, n)
	} else {
		dst = dst[:n]
	}
	for j, w := range words {
		base := j * WordBits
		for b := 0; b < WordBits; b++ {
			dst[base+b] = uint8((w >> (63 - uint(b))) & 1)
		}
	}
	return dst
}

// Parse reads a string of '0' and '1' characters, most significant bit first.
// Spaces, tabs, newlines and underscores are ignored. The result is padded
// with zero bits to a multiple of 64.
func Parse(s string) ([]uint64, error) {
	var words []uint64
	n := 0
	for i, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r', '_':
			continue
		case '0', '1':
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidBit, c, i)
		}
		if n%WordBits == 0 {
			words = append(words, 0)
		}
		if c == '1' {
			words[n/WordBits] |= uint64(1) << (63 - uint(n%WordBits))
		}
		n++
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// MustParse is like Parse but panics on error. Intended for tests and examples.
func MustParse(s string) []uint64 {
	words, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return words
}

// Format renders the vector as a string of '0' and '1', position 1 first.
func Format(words []uint64) string {
	var sb strings.Builder
	sb.Grow(Len(words))
	for _, w := range words {
		for b := 63; b >= 0; b-- {
			if (w>>uint(b))&1 == 1 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// FromBools packs bs into words, bs[0] being position 1.
func FromBools(bs []bool) []uint64 {
	words := make([]uint64, WordsFor(len(bs)))
	for i, b := range bs {
		if b {
			words[i>>6] |= uint64(1) << (63 - uint(i&63))
		}
	}
	return words
}

// FromRoaring packs a roaring bitmap of 0-indexed bit offsets into a vector of
// at least n bits (rounded up to a multiple of 64). Offset v becomes position v+1.
func FromRoaring(rb *roaring.Bitmap, n int) ([]uint64, error) {
	words := make([]uint64, WordsFor(n))
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	if rb == nil || rb.IsEmpty() {
		return words, nil
	}
	if maxVal := int(rb.Maximum()); maxVal >= Len(words) {
		return nil, fmt.Errorf("%w: offset %d does not fit %d bits", ErrPosition, maxVal, Len(words))
	}
	it := rb.Iterator()
	for it.HasNext() {
		v := it.Next()
		words[v>>6] |= uint64(1) << (63 - (v & 63))
	}
	return words, nil
}

// ToRoaring returns the 0-indexed offsets of all set bits as a roaring bitmap.
func ToRoaring(words []uint64) *roaring.Bitmap {
	rb := roaring.New()
	for j, w := range words {
		for w != 0 {
			lz := bits.LeadingZeros64(w)
			rb.Add(uint32(j*WordBits + lz))
			w &^= uint64(1) << (63 - uint(lz))
		}
	}
	return rb
}
