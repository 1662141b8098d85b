package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/index/naive"
	"github.com/hupe1980/rankselect/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seeds = []int64{1, 2, 3, 256}
	cfg.MaxWords = 24
	cfg.OpsPerSize = 20

	r, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Seeds)
	assert.Equal(t, 24, r.Sizes)
	assert.Equal(t, int64(4*24*20*(2+2*5)), r.Checks)
}

func TestRunSharesWorkerBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 2})
	cfg := DefaultConfig()
	cfg.Seeds = []int64{1, 2, 3, 4, 5}
	cfg.MaxWords = 8
	cfg.OpsPerSize = 10
	cfg.Resources = rc

	r, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Seeds)

	// Every slot was returned.
	require.NoError(t, rc.AcquireWorker(t.Context()))
	require.NoError(t, rc.AcquireWorker(t.Context()))
}

func TestRunWaitsForWorker(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 1})
	require.NoError(t, rc.AcquireWorker(t.Context()))

	cfg := DefaultConfig()
	cfg.MaxWords = 4
	cfg.Resources = rc

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, cfg)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	rc.ReleaseWorker()
	_, err = Run(context.Background(), cfg)
	assert.NoError(t, err)
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no seeds", func(c *Config) { c.Seeds = nil }},
		{"bad range", func(c *Config) { c.MinWords, c.MaxWords = 4, 2 }},
		{"bad step", func(c *Config) { c.StepWords = 0 }},
		{"no ops", func(c *Config) { c.OpsPerSize = 0 }},
		{"bad k", func(c *Config) { c.Ks = []int{3, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Run(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

// offByOne answers every nonzero rank one too high.
type offByOne struct {
	index.RankSelect
}

func (o offByOne) Rank(i int) (int, bool) {
	c, ok := o.RankSelect.Rank(i)
	if ok && i >= 1 {
		c++
	}
	return c, ok
}

func (o offByOne) Kind() index.Kind { return index.KindLookUp }

func TestCompareReportsFailure(t *testing.T) {
	ref, err := naive.New([]uint64{0xB400000000000000})
	require.NoError(t, err)

	assert.Nil(t, compare(ref, ref, 4))

	f := compare(ref, offByOne{ref}, 4)
	require.NotNil(t, f)
	assert.Equal(t, index.KindLookUp, f.Kind)
	assert.Equal(t, "rank", f.Method)
	assert.Equal(t, 3, f.Want)
	assert.Equal(t, 4, f.Got)

	f.Size, f.Seed, f.K = 64, 7, 3
	var err2 error = f
	var target *Failure
	require.True(t, errors.As(err2, &target))
	assert.Equal(t, "lookup fails rank: want 3, got 4 with size 64, input 4 and seed 7 and k 3", f.Error())
}

func TestCheckNaive(t *testing.T) {
	ref, err := naive.New([]uint64{0xB400000000000000})
	require.NoError(t, err)

	for i := -1; i <= 66; i++ {
		assert.Nil(t, checkNaive(ref, i), "i=%d", i)
	}

	// A rank that jumps by two is not monotone.
	f := checkNaive(offByOne{ref}, 1)
	require.NotNil(t, f)
	assert.Equal(t, "monotone", f.Method)
}
