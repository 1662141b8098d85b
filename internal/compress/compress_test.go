package compress

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sparsePayload(n int) []byte {
	data := make([]byte, n)
	for i := 0; i < n; i += 97 {
		data[i] = 0x80
	}
	return data
}

func TestEncodeDecode(t *testing.T) {
	random := make([]byte, 10000)
	rand.New(rand.NewSource(1)).Read(random)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		for name, data := range map[string][]byte{
			"sparse": sparsePayload(50000),
			"random": random,
			"empty":  {},
		} {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				enc, err := Encode(data, typ, 4096)
				require.NoError(t, err)

				dec, err := Decode(enc, typ, len(data))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(data, dec))
			})
		}
	}
}

func TestSparseShrinks(t *testing.T) {
	data := sparsePayload(1 << 16)
	for _, typ := range []Type{LZ4, ZSTD} {
		enc, err := Encode(data, typ, 0)
		require.NoError(t, err)
		assert.Less(t, len(enc), len(data)/2, typ.String())
	}
}

func TestIncompressibleStoredRaw(t *testing.T) {
	data := make([]byte, 1024)
	rand.New(rand.NewSource(2)).Read(data)

	enc, err := Encode(data, ZSTD, 0)
	require.NoError(t, err)
	require.Len(t, enc, headerSize+len(data))
	assert.Zero(t, binary.LittleEndian.Uint32(enc[4:]))
}

func TestDecodeCorrupt(t *testing.T) {
	enc, err := Encode(sparsePayload(8192), LZ4, 0)
	require.NoError(t, err)

	_, err = Decode(enc[:5], LZ4, 0)
	require.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(enc[:len(enc)-1], LZ4, 0)
	require.ErrorIs(t, err, ErrCorrupt)

	// A compressed block cannot be read as an uncompressed stream.
	_, err = Decode(enc, None, 0)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeLimit(t *testing.T) {
	data := sparsePayload(8192)
	enc, err := Encode(data, ZSTD, 4096)
	require.NoError(t, err)

	_, err = Decode(enc, ZSTD, len(data)-1)
	require.ErrorIs(t, err, ErrCorrupt)

	dec, err := Decode(enc, ZSTD, len(data))
	require.NoError(t, err)
	assert.Len(t, dec, len(data))

	var frame [headerSize]byte
	binary.LittleEndian.PutUint32(frame[:], MaxBlockSize+1)
	_, err = Decode(frame[:], LZ4, 0)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{None, LZ4, ZSTD} {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := ParseType("brotli")
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = Encode(nil, Type(9), 0)
	require.ErrorIs(t, err, ErrUnknownType)
}
