package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rankselect/blobstore"
	"github.com/hupe1980/rankselect/fixture"
	"github.com/hupe1980/rankselect/verify"
)

type testOptions struct {
	dir      string
	k        int
	seed     int64
	rounds   int
	maxWords int
	ops      int
}

func newTestCommand(c *cli) *cobra.Command {
	var opts testOptions
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the fixture suite and randomized verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd, c, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.dir, "fixtures", "fixture/testdata", "Directory of .in/.ans fixture pairs")
	flags.IntVarP(&opts.k, "k", "k", 10, "Blocks per superblock for the fixture run")
	flags.Int64Var(&opts.seed, "seed", -1, "Verification seed, -1 for a random one")
	flags.IntVar(&opts.rounds, "rounds", 1, "Consecutive seeds to verify, run on --max-workers workers")
	flags.IntVar(&opts.maxWords, "max-words", 1024, "Largest verified vector, in 64-bit words")
	flags.IntVar(&opts.ops, "ops", 50, "Random queries per vector size")
	return cmd
}

func runTest(cmd *cobra.Command, c *cli, opts testOptions) error {
	ctx := cmd.Context()

	cases, err := fixture.LoadSuite(ctx, blobstore.NewLocalStore(opts.dir))
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no fixtures found in %s", opts.dir)
	}
	var errs []error
	for _, fc := range cases {
		errs = append(errs, fixture.CheckKinds(fc, opts.k))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "fixtures: %d passed\n", len(cases))

	if opts.rounds < 1 {
		return fmt.Errorf("--rounds must be positive")
	}
	seed := opts.seed
	if seed == -1 {
		seed = time.Now().UnixNano()
	}
	cfg := verify.DefaultConfig()
	cfg.Seeds = make([]int64, opts.rounds)
	for i := range cfg.Seeds {
		cfg.Seeds[i] = seed + int64(i)
	}
	cfg.Resources = c.resources
	cfg.MaxWords = opts.maxWords
	cfg.OpsPerSize = opts.ops
	cfg.Logger = c.logger.Logger

	report, err := verify.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "verify: seed %d, %d rounds, %d sizes, %d checks passed in %s\n",
		seed, report.Seeds, report.Sizes, report.Checks, report.Duration.Round(time.Millisecond))
	return nil
}
