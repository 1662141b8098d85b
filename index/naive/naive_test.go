package naive

import (
	"testing"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/index/indextest"
	"github.com/hupe1980/rankselect/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	x, err := New(bitvec.MustParse(indextest.ScenarioBits))
	require.NoError(t, err)

	assert.Equal(t, 64, x.Len())
	assert.Equal(t, 4, x.Ones())
	assert.Equal(t, index.KindNaive, x.Kind())
	assert.Equal(t, 64, x.SizeInBytes())

	indextest.CheckScenario(t, x)
	indextest.CheckOutOfRange(t, x)
}

func TestContract(t *testing.T) {
	rng := testutil.NewRNG(42)
	for _, n := range []int{64, 128, 640, 1024} {
		words := rng.MustBitVector(n)
		x, err := New(words)
		require.NoError(t, err)
		indextest.CheckContract(t, x, words)
	}
}

func TestAllZeroAndAllOne(t *testing.T) {
	x, err := New(make([]uint64, 2))
	require.NoError(t, err)
	assert.Zero(t, x.Ones())
	r, ok := x.Rank(128)
	assert.True(t, ok)
	assert.Zero(t, r)
	_, ok = x.Select(1)
	assert.False(t, ok)

	require.NoError(t, x.Rebuild([]uint64{^uint64(0), ^uint64(0)}))
	assert.Equal(t, 128, x.Ones())
	for i := 1; i <= 128; i++ {
		p, ok := x.Select(i)
		require.True(t, ok)
		require.Equal(t, i, p)
	}
}

func TestRebuild(t *testing.T) {
	rng := testutil.NewRNG(7)
	x, err := New(rng.MustBitVector(256))
	require.NoError(t, err)

	words := rng.MustBitVector(128)
	require.NoError(t, x.Rebuild(words))
	indextest.CheckContract(t, x, words)

	// Same input twice gives the same answers.
	require.NoError(t, x.Rebuild(words))
	indextest.CheckContract(t, x, words)
}

func TestEmpty(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, index.ErrEmptyVector)

	x, err := New(bitvec.MustParse("1"))
	require.NoError(t, err)
	require.ErrorIs(t, x.Rebuild(nil), index.ErrEmptyVector)

	// A failed rebuild leaves the previous vector in place.
	indextest.CheckContract(t, x, bitvec.MustParse("1"))
}

func TestRegistered(t *testing.T) {
	rs, err := index.Build(index.KindNaive, bitvec.MustParse(indextest.ScenarioBits), 0)
	require.NoError(t, err)
	indextest.CheckScenario(t, rs)
}
