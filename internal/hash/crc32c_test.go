package hash

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// RFC 3720 B.4 test vector: 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))
	assert.Equal(t, uint32(0), CRC32C(nil))
}

func TestWordsMatchesEncodedPayload(t *testing.T) {
	for _, n := range []int{0, 1, wordChunk - 1, wordChunk, wordChunk + 1, 3*wordChunk + 5} {
		words := make([]uint64, n)
		raw := make([]byte, 8*n)
		for i := range words {
			words[i] = uint64(i)*0x9E3779B97F4A7C15 ^ 0xB5AD4ECEDA1CE2A9
			binary.LittleEndian.PutUint64(raw[8*i:], words[i])
		}
		assert.Equal(t, CRC32C(raw), Words(words), "%d words", n)
	}
}

func TestWordsDetectsFlip(t *testing.T) {
	words := []uint64{0xB400000000000000, 1}
	sum := Words(words)
	words[1] ^= 1 << 40
	assert.NotEqual(t, sum, Words(words))
}

func TestBase64(t *testing.T) {
	assert.Equal(t, "ipE2qg==", Base64(CRC32C(make([]byte, 32))))
	assert.Equal(t, "AAAAAA==", Base64(0))
}
