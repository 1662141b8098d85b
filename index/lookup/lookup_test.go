package lookup

import (
	"testing"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/index/indextest"
	"github.com/hupe1980/rankselect/index/naive"
	"github.com/hupe1980/rankselect/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	x, err := New(bitvec.MustParse(indextest.ScenarioBits))
	require.NoError(t, err)

	assert.Equal(t, 64, x.Len())
	assert.Equal(t, 4, x.Ones())
	assert.Equal(t, index.KindLookUp, x.Kind())
	assert.Equal(t, []uint32{1, 1, 2, 3, 3, 4, 4, 4}, x.ranks[:8])

	indextest.CheckScenario(t, x)
	indextest.CheckOutOfRange(t, x)
}

func TestLeftmost(t *testing.T) {
	ranks := []uint32{0, 0, 1, 1, 1, 2, 4, 4}
	assert.Equal(t, 0, leftmost(ranks, 0))
	assert.Equal(t, 2, leftmost(ranks, 1))
	assert.Equal(t, 5, leftmost(ranks, 2))
	assert.Equal(t, -1, leftmost(ranks, 3))
	assert.Equal(t, 6, leftmost(ranks, 4))
	assert.Equal(t, -1, leftmost(ranks, 5))
}

func TestAgainstNaive(t *testing.T) {
	rng := testutil.NewRNG(17)
	for _, n := range []int{64, 320, 2048} {
		for _, p := range []float64{0, 0.1, 0.5, 1} {
			words, err := rng.DensityVector(n, p)
			require.NoError(t, err)
			ref, err := naive.New(words)
			require.NoError(t, err)

			x, err := New(words)
			require.NoError(t, err)
			indextest.CheckEqual(t, ref, x)
		}
	}
}

func TestContract(t *testing.T) {
	rng := testutil.NewRNG(23)
	words := rng.MustBitVector(1536)
	x, err := New(words)
	require.NoError(t, err)
	indextest.CheckContract(t, x, words)
}

func TestRebuildReusesBuilder(t *testing.T) {
	rng := testutil.NewRNG(29)
	x, err := New(rng.MustBitVector(1024))
	require.NoError(t, err)

	builder := x.builder
	ranks := &x.ranks[0]

	words := rng.MustBitVector(256)
	require.NoError(t, x.Rebuild(words))
	assert.Same(t, builder, x.builder)
	assert.Same(t, ranks, &x.ranks[0])
	assert.Equal(t, BuilderK, x.builder.K())
	indextest.CheckContract(t, x, words)

	// Growing past the old capacity still answers correctly.
	words = rng.MustBitVector(2048)
	require.NoError(t, x.Rebuild(words))
	indextest.CheckContract(t, x, words)
}

func TestEmpty(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, index.ErrEmptyVector)

	x, err := New(bitvec.MustParse(indextest.ScenarioBits))
	require.NoError(t, err)
	require.ErrorIs(t, x.Rebuild([]uint64{}), index.ErrEmptyVector)
	indextest.CheckScenario(t, x)
}

func TestSizeInBytes(t *testing.T) {
	x, err := New(make([]uint64, 4))
	require.NoError(t, err)
	assert.Equal(t, 4*256+x.builder.SizeInBytes(), x.SizeInBytes())
}

func BenchmarkRank(b *testing.B) {
	rng := testutil.NewRNG(5)
	x, err := New(rng.MustBitVector(1 << 16))
	require.NoError(b, err)
	qs := rng.Queries(1024, 1<<16)

	b.ResetTimer()
	for b.Loop() {
		for _, q := range qs {
			_, _ = x.Rank(q)
		}
	}
}
