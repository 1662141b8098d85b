package popcount

import "math/bits"

// TableSize is the number of entries in the byte table, one per 8-bit pattern.
const TableSize = 256

// table[b] is the number of set bits in b.
var table = buildTable()

func buildTable() [TableSize]uint8 {
	var t [TableSize]uint8
	for i := range t {
		for b := 0; b < 8; b++ {
			t[i] += uint8((i >> b) & 1)
		}
	}
	return t
}

// Table returns a copy of the shared byte table.
func Table() [TableSize]uint8 {
	return table
}

// Byte returns the number of set bits in b.
func Byte(b uint8) int {
	return int(table[b])
}

// Table32 counts the set bits of x with four byte lookups.
func Table32(x uint32) int {
	return int(table[x&0xFF]) + int(table[(x>>8)&0xFF]) + int(table[(x>>16)&0xFF]) + int(table[x>>24])
}

// Table64 counts the set bits of x with eight byte lookups.
func Table64(x uint64) int {
	return Table32(uint32(x>>32)) + Table32(uint32(x))
}

// Hardware32 counts the set bits of x using math/bits.
func Hardware32(x uint32) int {
	return bits.OnesCount32(x)
}

// Hardware64 counts the set bits of x using math/bits.
func Hardware64(x uint64) int {
	return bits.OnesCount64(x)
}

// Count32 counts the set bits of x with the active kernel.
func Count32(x uint32) int {
	return kernel32(x)
}

// Count64 counts the set bits of x with the active kernel.
func Count64(x uint64) int {
	return kernel64(x)
}

// Sum32 returns the total number of set bits across words.
func Sum32(words []uint32) int {
	n := 0
	for _, w := range words {
		n += kernel32(w)
	}
	return n
}

// Sum64 returns the total number of set bits across words.
func Sum64(words []uint64) int {
	n := 0
	for _, w := range words {
		n += kernel64(w)
	}
	return n
}
