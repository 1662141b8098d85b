package persistence

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/internal/compress"
	"github.com/hupe1980/rankselect/internal/conv"
	rshash "github.com/hupe1980/rankselect/internal/hash"
	"github.com/hupe1980/rankselect/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSize(t *testing.T) {
	assert.Equal(t, HeaderSize, binary.Size(Header{}))
}

func TestEncodeDecode(t *testing.T) {
	rng := testutil.NewRNG(1)
	random := rng.MustBitVector(4096)
	sparse, err := rng.DensityVector(1<<16, 0.001)
	require.NoError(t, err)

	for _, c := range []compress.Type{compress.None, compress.LZ4, compress.ZSTD} {
		for name, words := range map[string][]uint64{"random": random, "sparse": sparse} {
			t.Run(c.String()+"/"+name, func(t *testing.T) {
				in := &Snapshot{Kind: index.KindSpaceEfficient, K: 4, Compression: c, Words: words}

				var buf bytes.Buffer
				n, err := Encode(&buf, in)
				require.NoError(t, err)
				assert.Equal(t, int64(buf.Len()), n)
				assert.Equal(t, []byte("RSNP"), buf.Bytes()[:4])

				out, err := Decode(&buf)
				require.NoError(t, err)
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestSparseCompresses(t *testing.T) {
	words := make([]uint64, 1<<14)
	words[100] = 1

	raw, err := Marshal(&Snapshot{Kind: index.KindLookUp, Words: words})
	require.NoError(t, err)
	packed, err := Marshal(&Snapshot{Kind: index.KindLookUp, Compression: compress.ZSTD, Words: words})
	require.NoError(t, err)
	assert.Less(t, len(packed), len(raw)/10)
}

func TestDecodeRejects(t *testing.T) {
	data, err := Marshal(&Snapshot{Kind: index.KindNaive, Compression: compress.None, Words: []uint64{0xF0, 1}})
	require.NoError(t, err)

	mutate := func(f func(b []byte)) []byte {
		b := bytes.Clone(data)
		f(b)
		return b
	}

	t.Run("Magic", func(t *testing.T) {
		_, err := Unmarshal(mutate(func(b []byte) { b[0] = 'X' }))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})
	t.Run("Version", func(t *testing.T) {
		_, err := Unmarshal(mutate(func(b []byte) { b[4] = 9 }))
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})
	t.Run("Kind", func(t *testing.T) {
		_, err := Unmarshal(mutate(func(b []byte) { b[6] = 0 }))
		assert.ErrorIs(t, err, ErrInvalidKind)
	})
	t.Run("Compression", func(t *testing.T) {
		_, err := Unmarshal(mutate(func(b []byte) { b[7] = 7 }))
		assert.ErrorIs(t, err, ErrInvalidCompression)
	})
	t.Run("Checksum", func(t *testing.T) {
		// Flip a payload bit without changing the popcount of the word.
		_, err := Unmarshal(mutate(func(b []byte) { b[HeaderSize+8+compressFrame] ^= 0x03 }))
		assert.True(t, IsChecksumMismatch(err), "got %v", err)
	})
	t.Run("Truncated", func(t *testing.T) {
		_, err := Unmarshal(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrCorrupt)

		_, err = Unmarshal(data[:10])
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("PayloadLen", func(t *testing.T) {
		_, err := Unmarshal(mutate(func(b []byte) {
			binary.LittleEndian.PutUint64(b[32:], 1<<40)
		}))
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestDecodeRejectsOversizedFrame(t *testing.T) {
	data, err := Marshal(&Snapshot{Kind: index.KindNaive, Compression: compress.None, Words: []uint64{1}})
	require.NoError(t, err)

	for name, rawSize := range map[string]uint32{"huge": 0x7FFFFFFF, "over-words": 16} {
		t.Run(name, func(t *testing.T) {
			b := bytes.Clone(data)
			b[7] = uint8(compress.ZSTD)
			binary.LittleEndian.PutUint32(b[HeaderSize:], rawSize)
			binary.LittleEndian.PutUint32(b[HeaderSize+4:], 8)

			_, err := Unmarshal(b)
			require.ErrorIs(t, err, ErrCorrupt)
			assert.ErrorIs(t, err, compress.ErrCorrupt)
			assert.Contains(t, err.Error(), "exceeds")
		})
	}
}

// compressFrame is the per-block frame header written by internal/compress.
const compressFrame = 8

func TestEncodeRejects(t *testing.T) {
	_, err := Marshal(&Snapshot{Kind: index.KindNaive})
	assert.ErrorIs(t, err, index.ErrEmptyVector)

	_, err = Marshal(&Snapshot{Kind: index.KindNaive, Compression: compress.Type(5), Words: []uint64{1}})
	assert.ErrorIs(t, err, ErrInvalidCompression)
}

func TestChecksum(t *testing.T) {
	words := []uint64{0xB400000000000000, 1}
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint64(raw, words[0])
	binary.LittleEndian.PutUint64(raw[8:], words[1])
	assert.Equal(t, rshash.CRC32C(raw), Checksum(words))

	data, err := Marshal(&Snapshot{Kind: index.KindNaive, Words: words})
	require.NoError(t, err)
	assert.Equal(t, Checksum(words), binary.LittleEndian.Uint32(data[40:]))

	require.NoError(t, verifyChecksum(words, Checksum(words)))
	err = verifyChecksum(words, Checksum(words)+1)
	assert.True(t, IsChecksumMismatch(err))
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestEncodeRejectsNegativeK(t *testing.T) {
	_, err := Marshal(&Snapshot{Kind: index.KindSpaceEfficient, K: -1, Words: []uint64{1}})
	assert.ErrorIs(t, err, conv.ErrOverflow)
}
