package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rankselect"
	"github.com/hupe1980/rankselect/fixture"
)

func newQueryCommand(c *cli) *cobra.Command {
	var kf kindFlags
	cmd := &cobra.Command{
		Use:   "query [FILE]",
		Short: "Answer the queries of a .in file, one result per line",
		Long: "Reads a vector line of signed decimal words followed by R/S query lines\n" +
			"from FILE or stdin and prints one answer per query, -1 for failures.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(c, kf, args)
		},
	}
	kf.install(cmd, "space-efficient")
	return cmd
}

func runQuery(c *cli, kf kindFlags, args []string) error {
	kind, err := kf.parse()
	if err != nil {
		return err
	}

	in := c.in
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	fc, err := fixture.Parse(in)
	if err != nil {
		return err
	}
	idx, err := rankselect.New(kind, fc.Words, rankselect.WithK(kf.k), rankselect.WithLogger(c.logger))
	if err != nil {
		return err
	}
	defer idx.Close()

	return fixture.WriteAnswers(c.out, fixture.Run(idx, fc.Queries))
}
