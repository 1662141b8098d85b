package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rankselect"
	"github.com/hupe1980/rankselect/fixture"
)

func newSnapshotCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and load index snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		newSnapshotSaveCommand(c),
		newSnapshotLoadCommand(c),
	)
	return cmd
}

type saveOptions struct {
	kindFlags
	input       string
	compression string
}

func newSnapshotSaveCommand(c *cli) *cobra.Command {
	var opts saveOptions
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Build an index from a vector line and store its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := opts.parse()
			if err != nil {
				return err
			}
			comp, err := rankselect.ParseCompression(opts.compression)
			if err != nil {
				return err
			}

			in := c.in
			if opts.input != "" && opts.input != "-" {
				f, err := os.Open(opts.input)
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

			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			idx, err := rankselect.New(kind, fc.Words,
				rankselect.WithK(opts.k),
				rankselect.WithCompression(comp),
				rankselect.WithLogger(c.logger),
				rankselect.WithResourceController(c.resources),
			)
			if err != nil {
				return err
			}
			defer idx.Close()

			if err := idx.Save(ctx, store, args[0]); err != nil {
				return err
			}
			printStats(c, args[0], idx.Stats())
			return nil
		},
	}
	opts.kindFlags.install(cmd, "space-efficient")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "Vector file in .in format, - for stdin")
	cmd.Flags().StringVar(&opts.compression, "compression", "zstd", "Payload codec (none, lz4, zstd)")
	return cmd
}

func newSnapshotLoadCommand(c *cli) *cobra.Command {
	var queries string
	cmd := &cobra.Command{
		Use:   "load NAME",
		Short: "Load a snapshot and print its summary",
		Long:  "Loads a snapshot. With --queries, answers the R/S lines of a .in file against it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			idx, err := rankselect.Load(ctx, store, args[0],
				rankselect.WithLogger(c.logger),
				rankselect.WithResourceController(c.resources),
			)
			if err != nil {
				return err
			}
			defer idx.Close()

			if queries == "" {
				printStats(c, args[0], idx.Stats())
				return nil
			}
			f, err := os.Open(queries)
			if err != nil {
				return err
			}
			defer f.Close()
			fc, err := fixture.Parse(f)
			if err != nil {
				return err
			}
			return fixture.WriteAnswers(c.out, fixture.Run(idx, fc.Queries))
		},
	}
	cmd.Flags().StringVar(&queries, "queries", "", "File in .in format whose queries are answered; its vector line is ignored")
	return cmd
}

func printStats(c *cli, name string, st rankselect.Stats) {
	fmt.Fprintf(c.out, "%s: kind=%s bits=%d ones=%d k=%d bytes=%d\n",
		name, st.Kind, st.Bits, st.Ones, st.K, st.SizeInBytes)
}
