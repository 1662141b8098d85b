package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rankselect/bench"
)

type benchOptions struct {
	out     string
	seeds   []int64
	min     int
	max     int
	queries int
	ks      []int
	reps    int
}

func newBenchCommand(c *cli) *cobra.Command {
	def := bench.DefaultConfig()
	opts := benchOptions{
		seeds:   def.Seeds,
		min:     def.MinBits,
		max:     def.MaxBits,
		queries: def.Queries,
		ks:      def.Ks,
		reps:    def.Repetitions,
	}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure query latency and write CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, closeFn, err := c.output(opts.out)
			if err != nil {
				return err
			}
			defer closeFn()

			cfg := bench.DefaultConfig()
			cfg.Seeds = opts.seeds
			cfg.MinBits, cfg.MaxBits = opts.min, opts.max
			cfg.Queries = opts.queries
			cfg.Ks = opts.ks
			cfg.Repetitions = opts.reps
			cfg.Logger = c.logger.Logger
			_, err = bench.Queries(cmd.Context(), cfg, w)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.out, "output", "o", "-", "CSV output file, - for stdout")
	flags.Int64SliceVar(&opts.seeds, "seeds", opts.seeds, "Generator seeds")
	flags.IntVar(&opts.min, "min", opts.min, "Smallest vector size in bits")
	flags.IntVar(&opts.max, "max", opts.max, "Largest vector size in bits")
	flags.IntVarP(&opts.queries, "queries", "q", opts.queries, "Queries per size, 0 for n/64")
	flags.IntSliceVar(&opts.ks, "ks", opts.ks, "Superblock parameters for the space-efficient kind")
	flags.IntVar(&opts.reps, "reps", opts.reps, "Timed passes per measurement")
	return cmd
}

type breakOptions struct {
	kindFlags
	out   string
	seed  int64
	start int
	limit int64
}

func newBreakCommand(c *cli) *cobra.Command {
	var opts breakOptions
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Double the vector size until the memory budget refuses a build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := opts.parse()
			if err != nil {
				return err
			}
			w, closeFn, err := c.output(opts.out)
			if err != nil {
				return err
			}
			defer closeFn()

			cfg := bench.DefaultBreakConfig(kind)
			cfg.K = opts.k
			cfg.Seed = opts.seed
			cfg.StartBits = opts.start
			cfg.MemoryLimitBytes = opts.limit
			cfg.Logger = c.logger.Logger
			res, err := bench.Break(cmd.Context(), cfg, w)
			if err != nil {
				return err
			}
			c.logger.Info("break finished", "largest_bits", res.LargestBits, "refused_bits", res.RefusedBits, "cause", res.Cause)
			return nil
		},
	}
	def := bench.DefaultBreakConfig(0)
	opts.kindFlags.install(cmd, "naive")
	flags := cmd.Flags()
	flags.StringVarP(&opts.out, "output", "o", "-", "CSV output file, - for stdout")
	flags.Int64Var(&opts.seed, "seed", def.Seed, "Generator seed")
	flags.IntVar(&opts.start, "start", def.StartBits, "First vector size in bits")
	flags.Int64Var(&opts.limit, "memory-limit", def.MemoryLimitBytes, "Memory budget in bytes")
	return cmd
}

// output opens path for writing, with "-" meaning stdout.
func (c *cli) output(path string) (io.Writer, func() error, error) {
	if path == "-" || path == "" {
		return c.out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
