package testutil

import (
	"testing"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitVector(t *testing.T) {
	rng := NewRNG(4711)

	v, err := rng.BitVector(256)
	require.NoError(t, err)
	assert.Len(t, v, 4)

	_, err = rng.BitVector(100)
	require.ErrorIs(t, err, ErrUnalignedSize)
	_, err = rng.BitVector(0)
	require.ErrorIs(t, err, ErrUnalignedSize)
}

func TestBitVector_Deterministic(t *testing.T) {
	a := NewRNG(34).MustBitVector(1024)
	b := NewRNG(34).MustBitVector(1024)
	assert.Equal(t, a, b)

	rng := NewRNG(34)
	first := rng.MustBitVector(128)
	rng.Reset()
	assert.Equal(t, first, rng.MustBitVector(128))

	rng.SetSeed(35)
	assert.Equal(t, int64(35), rng.Seed())
}

func TestDensityVector(t *testing.T) {
	rng := NewRNG(1)

	empty, err := rng.DensityVector(640, 0)
	require.NoError(t, err)
	assert.Zero(t, bitvec.Ones(empty))

	full, err := rng.DensityVector(640, 1)
	require.NoError(t, err)
	assert.Equal(t, 640, bitvec.Ones(full))

	sparse, err := rng.DensityVector(64000, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 640, bitvec.Ones(sparse), 200)
}

func TestQueries(t *testing.T) {
	rng := NewRNG(586478)
	n := 1024

	q := rng.Queries(100, n)
	require.Len(t, q, 102)
	assert.Equal(t, n, q[100])
	assert.Equal(t, 1, q[101])
	for _, v := range q[:100] {
		assert.GreaterOrEqual(t, v, 2)
		assert.Less(t, v, n)
	}
}

func TestPosition(t *testing.T) {
	rng := NewRNG(3945)
	for i := 0; i < 1000; i++ {
		p := rng.Position(64)
		require.GreaterOrEqual(t, p, 1)
		require.LessOrEqual(t, p, 64)
	}
}
