package bench

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/hupe1980/rankselect"
	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/testutil"
)

// QueriesHeader is the header row of the query experiment CSV.
var QueriesHeader = []string{"Algo", "method", "size", "q", "seed", "k", "Mean", "Sdev"}

// BreakHeader is the header row of the break experiment CSV.
var BreakHeader = []string{"Algo", "size", "seed"}

// Config controls the query experiment.
type Config struct {
	Seeds []int64

	// Sizes double from MinBits while not above MaxBits. Both must be
	// multiples of 64.
	MinBits int
	MaxBits int

	// Queries per size. Zero or less means n/64.
	Queries int

	// Ks are the superblock parameters measured for the space-efficient index.
	Ks []int

	Repetitions int

	// WarmUpRounds are run once, before the first measurement.
	WarmUpRounds int

	Logger *slog.Logger
}

// DefaultConfig returns the parameters of the reference experiment.
func DefaultConfig() Config {
	return Config{
		Seeds:        []int64{3945, 34, 586478},
		MinBits:      96_000,
		MaxBits:      768_000,
		Queries:      1500,
		Ks:           []int{3, 10, 64},
		Repetitions:  200,
		WarmUpRounds: 100,
	}
}

func (c *Config) validate() error {
	if len(c.Seeds) == 0 {
		return errors.New("bench: no seeds")
	}
	if c.MinBits < 3*bitvec.WordBits || c.MinBits%bitvec.WordBits != 0 || c.MaxBits < c.MinBits {
		return fmt.Errorf("bench: invalid size range %d..%d", c.MinBits, c.MaxBits)
	}
	if c.Repetitions < 1 {
		return errors.New("bench: repetitions must be positive")
	}
	for _, k := range c.Ks {
		if err := index.ValidateK(k); err != nil {
			return fmt.Errorf("bench: %w", err)
		}
	}
	return nil
}

// Result is one row of the query experiment.
type Result struct {
	Kind    index.Kind
	Method  string
	Size    int
	Queries int
	Seed    int64
	K       int
	Mean    float64
	Sdev    float64
}

func (r Result) record() []string {
	return []string{
		r.Kind.String(),
		r.Method,
		strconv.Itoa(r.Size),
		strconv.Itoa(r.Queries),
		strconv.FormatInt(r.Seed, 10),
		strconv.Itoa(r.K),
		strconv.FormatFloat(r.Mean, 'f', 6, 64),
		strconv.FormatFloat(r.Sdev, 'f', 6, 64),
	}
}

// Queries runs the query experiment and writes CSV rows to w as they are
// measured.
func Queries(ctx context.Context, cfg Config, w io.Writer) ([]Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(QueriesHeader); err != nil {
		return nil, err
	}

	var results []Result
	emit := func(r Result) error {
		results = append(results, r)
		return cw.Write(r.record())
	}

	warm := cfg.WarmUpRounds
	rng := testutil.NewRNG(0)
	for cycle, seed := range cfg.Seeds {
		rng.SetSeed(seed)
		logger.InfoContext(ctx, "starting cycle", "cycle", cycle+1, "seed", seed)

		for n := cfg.MinBits; n <= cfg.MaxBits; n *= 2 {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			words := rng.MustBitVector(n)
			q := cfg.Queries
			if q <= 0 {
				q = n / bitvec.WordBits
			}
			queries := rng.Queries(q, n)

			targets := []struct {
				kind index.Kind
				k    int
			}{{index.KindNaive, 0}, {index.KindLookUp, 0}}
			for _, k := range cfg.Ks {
				targets = append(targets, struct {
					kind index.Kind
					k    int
				}{index.KindSpaceEfficient, k})
			}

			for _, tg := range targets {
				rs, err := index.Build(tg.kind, words, tg.k)
				if err != nil {
					return results, fmt.Errorf("bench: build %s n=%d: %w", tg.kind, n, err)
				}
				for _, m := range methods(rs) {
					if warm > 0 {
						WarmUp(m.f, queries, warm)
					}
					mean, sdev := Mark(m.f, queries, cfg.Repetitions)
					if err := emit(Result{
						Kind: tg.kind, Method: m.name, Size: n, Queries: q,
						Seed: seed, K: tg.k, Mean: mean, Sdev: sdev,
					}); err != nil {
						return results, err
					}
				}
				warm = 0
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				return results, err
			}
		}
	}
	cw.Flush()
	return results, cw.Error()
}

type method struct {
	name string
	f    func(int) int
}

func methods(rs index.RankSelect) []method {
	return []method{
		{"rank", func(i int) int { return index.RankOrSentinel(rs, i) }},
		{"select", func(r int) int { return index.SelectOrSentinel(rs, r) }},
	}
}

// BreakConfig controls the break experiment.
type BreakConfig struct {
	Kind rankselect.Kind
	K    int
	Seed int64

	// StartBits is the first size tried; it must be a multiple of 64.
	StartBits int

	// MemoryLimitBytes is the budget index tables may hold.
	MemoryLimitBytes int64

	Logger *slog.Logger
}

// DefaultBreakConfig returns a 1 GiB budget starting from a million bits.
func DefaultBreakConfig(kind rankselect.Kind) BreakConfig {
	return BreakConfig{
		Kind:             kind,
		K:                3,
		Seed:             34,
		StartBits:        1_000_000,
		MemoryLimitBytes: 1 << 30,
	}
}

// BreakResult reports the break experiment outcome.
type BreakResult struct {
	// LargestBits is the largest size that was built, or 0.
	LargestBits int
	// RefusedBits is the size whose build was refused.
	RefusedBits int
	// Cause is the error that stopped the doubling.
	Cause error
}

// Break doubles the vector size until a build fails, writing a CSV row for
// each successful build. A refusal by the memory budget or the size limit
// ends the experiment normally and is reported in BreakResult.Cause; other
// errors are returned.
func Break(ctx context.Context, cfg BreakConfig, w io.Writer) (*BreakResult, error) {
	if cfg.StartBits < bitvec.WordBits || cfg.StartBits%bitvec.WordBits != 0 {
		return nil, fmt.Errorf("bench: start size %d is not a positive multiple of 64", cfg.StartBits)
	}
	if cfg.MemoryLimitBytes <= 0 {
		return nil, errors.New("bench: break needs a memory limit")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(BreakHeader); err != nil {
		return nil, err
	}

	rc := rankselect.NewResourceController(rankselect.ResourceConfig{MemoryLimitBytes: cfg.MemoryLimitBytes})
	rng := testutil.NewRNG(cfg.Seed)
	res := &BreakResult{}

	for n := cfg.StartBits; ; n *= 2 {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if uint64(n) > index.MaxBits {
			res.RefusedBits = n
			res.Cause = rankselect.ErrTooLarge
			break
		}

		words := rng.MustBitVector(n)
		idx, err := rankselect.New(cfg.Kind, words,
			rankselect.WithK(cfg.K),
			rankselect.WithResourceController(rc),
		)
		if err != nil {
			if errors.Is(err, rankselect.ErrMemoryLimitExceeded) || errors.Is(err, rankselect.ErrTooLarge) {
				res.RefusedBits = n
				res.Cause = err
				break
			}
			return res, err
		}
		_ = idx.Close()

		res.LargestBits = n
		if err := cw.Write([]string{cfg.Kind.String(), strconv.Itoa(n), strconv.FormatInt(cfg.Seed, 10)}); err != nil {
			return res, err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return res, err
		}
		logger.InfoContext(ctx, "built", "kind", cfg.Kind.String(), "bits", n)
	}

	logger.InfoContext(ctx, "broken", "kind", cfg.Kind.String(), "bits", res.RefusedBits, "cause", res.Cause)
	cw.Flush()
	return res, cw.Error()
}
