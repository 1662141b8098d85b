package verify

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/index/lookup"
	"github.com/hupe1980/rankselect/index/naive"
	"github.com/hupe1980/rankselect/index/twolevel"
	"github.com/hupe1980/rankselect/internal/resource"
	"github.com/hupe1980/rankselect/testutil"
)

// Config controls a verification run.
type Config struct {
	// Seeds are verified independently and in parallel.
	Seeds []int64

	// Vector sizes range over MinWords..MaxWords 64-bit words in steps of StepWords.
	MinWords  int
	MaxWords  int
	StepWords int

	// OpsPerSize is the number of random queries per size.
	OpsPerSize int

	// Ks are the superblock parameters checked for the space-efficient index.
	Ks []int

	// Parallelism bounds the seeds verified at once. Zero means
	// Resources.MaxWorkers, or GOMAXPROCS without a controller.
	Parallelism int

	// Resources, if set, supplies a worker slot for each seed, so runs
	// sharing a controller share its worker budget.
	Resources *resource.Controller

	Logger *slog.Logger
}

// DefaultConfig returns a configuration that finishes in a few seconds.
func DefaultConfig() Config {
	return Config{
		Seeds:      []int64{256},
		MinWords:   1,
		MaxWords:   128,
		StepWords:  1,
		OpsPerSize: 50,
		Ks:         []int{1, 3, 10, 64},
	}
}

func (c *Config) validate() error {
	if len(c.Seeds) == 0 {
		return fmt.Errorf("verify: no seeds")
	}
	if c.MinWords < 1 || c.MaxWords < c.MinWords || c.StepWords < 1 {
		return fmt.Errorf("verify: invalid size range %d..%d step %d", c.MinWords, c.MaxWords, c.StepWords)
	}
	if c.OpsPerSize < 1 {
		return fmt.Errorf("verify: ops per size must be positive")
	}
	for _, k := range c.Ks {
		if err := index.ValidateK(k); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
	}
	return nil
}

// Report summarizes a successful run.
type Report struct {
	Seeds    int
	Sizes    int
	Checks   int64
	Duration time.Duration
}

// Failure describes the first disagreement found for a seed.
type Failure struct {
	Kind   index.Kind
	Method string // "rank", "select", "monotone" or "inverse"
	Size   int    // bits
	Input  int
	Seed   int64
	K      int // 0 when not applicable
	Want   int
	Got    int
}

func (f *Failure) Error() string {
	k := ""
	if f.K > 0 {
		k = fmt.Sprintf(" and k %d", f.K)
	}
	return fmt.Sprintf("%s fails %s: want %d, got %d with size %d, input %d and seed %d%s",
		f.Kind, f.Method, f.Want, f.Got, f.Size, f.Input, f.Seed, k)
}

// Run verifies every seed in cfg. It returns the first *Failure found, or
// the context error if ctx is cancelled.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := cfg.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
		if cfg.Resources != nil {
			limit = cfg.Resources.MaxWorkers()
		}
	}

	start := time.Now()
	var checks atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, seed := range cfg.Seeds {
		g.Go(func() error {
			if err := cfg.Resources.AcquireWorker(ctx); err != nil {
				return err
			}
			defer cfg.Resources.ReleaseWorker()

			n, err := runSeed(ctx, cfg, seed)
			checks.Add(n)
			if err != nil {
				return err
			}
			logger.DebugContext(ctx, "seed verified", "seed", seed, "checks", n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "verification failed", "error", err)
		return nil, err
	}

	r := &Report{
		Seeds:    len(cfg.Seeds),
		Sizes:    (cfg.MaxWords-cfg.MinWords)/cfg.StepWords + 1,
		Checks:   checks.Load(),
		Duration: time.Since(start),
	}
	logger.InfoContext(ctx, "verification passed",
		"seeds", r.Seeds, "sizes", r.Sizes, "checks", r.Checks, "elapsed", r.Duration)
	return r, nil
}

type tunedIndex struct {
	k  int
	rs *twolevel.Index
}

// runSeed owns its instances; nothing is shared across goroutines.
func runSeed(ctx context.Context, cfg Config, seed int64) (int64, error) {
	rng := testutil.NewRNG(seed)
	initial := rng.MustBitVector(2 * bitvec.WordBits)

	ref, err := naive.New(initial)
	if err != nil {
		return 0, err
	}
	lu, err := lookup.New(initial)
	if err != nil {
		return 0, err
	}
	ses := make([]tunedIndex, len(cfg.Ks))
	for i, k := range cfg.Ks {
		se, err := twolevel.New(initial, k)
		if err != nil {
			return 0, err
		}
		ses[i] = tunedIndex{k: k, rs: se}
	}

	var checks int64
	for w := cfg.MinWords; w <= cfg.MaxWords; w += cfg.StepWords {
		if err := ctx.Err(); err != nil {
			return checks, err
		}

		n := w * bitvec.WordBits
		words := rng.MustBitVector(n)
		if err := ref.Rebuild(words); err != nil {
			return checks, err
		}
		if err := lu.Rebuild(words); err != nil {
			return checks, err
		}
		for _, se := range ses {
			if err := se.rs.Rebuild(words); err != nil {
				return checks, err
			}
		}

		for op := 0; op < cfg.OpsPerSize; op++ {
			// Arguments span one past each end to cover the failure indicators.
			i := rng.Intn(n+3) - 1

			if f := checkNaive(ref, i); f != nil {
				f.Size, f.Seed = n, seed
				return checks, f
			}
			if f := compare(ref, lu, i); f != nil {
				f.Size, f.Seed = n, seed
				return checks, f
			}
			for _, se := range ses {
				if f := compare(ref, se.rs, i); f != nil {
					f.Size, f.Seed, f.K = n, seed, se.k
					return checks, f
				}
			}
			checks += int64(2 + 2*(1+len(ses)))
		}
	}
	return checks, nil
}

// checkNaive checks monotonicity of rank at i and that select(i), if it
// exists, is the leftmost position with rank i.
func checkNaive(rs index.RankSelect, i int) *Failure {
	if i >= 1 && i <= rs.Len() {
		cur, _ := rs.Rank(i)
		prev, _ := rs.Rank(i - 1)
		if d := cur - prev; d != 0 && d != 1 {
			return &Failure{Kind: index.KindNaive, Method: "monotone", Input: i, Want: prev, Got: cur}
		}
	}

	p, ok := rs.Select(i)
	if !ok {
		if i >= 1 && i <= rs.Ones() {
			return &Failure{Kind: index.KindNaive, Method: "inverse", Input: i, Want: i, Got: index.Sentinel}
		}
		return nil
	}
	atP, _ := rs.Rank(p)
	beforeP, _ := rs.Rank(p - 1)
	if atP != i || beforeP != i-1 {
		return &Failure{Kind: index.KindNaive, Method: "inverse", Input: i, Want: i, Got: atP}
	}
	return nil
}

// compare checks got against the naive reference on rank(i) and select(i).
func compare(ref, got index.RankSelect, i int) *Failure {
	kind := got.Kind()
	if w, g := index.RankOrSentinel(ref, i), index.RankOrSentinel(got, i); w != g {
		return &Failure{Kind: kind, Method: "rank", Input: i, Want: w, Got: g}
	}
	if w, g := index.SelectOrSentinel(ref, i), index.SelectOrSentinel(got, i); w != g {
		return &Failure{Kind: kind, Method: "select", Input: i, Want: w, Got: g}
	}
	return nil
}
