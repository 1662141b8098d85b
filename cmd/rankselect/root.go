package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rankselect"
	"github.com/hupe1980/rankselect/blobstore"
	"github.com/hupe1980/rankselect/blobstore/minio"
	"github.com/hupe1980/rankselect/blobstore/s3"
)

// cli holds the streams and global flags shared by all commands.
type cli struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	logLevel string
	logger   *rankselect.Logger

	maxWorkers int
	ioLimit    int64
	resources  *rankselect.ResourceController

	store storeOptions
}

type storeOptions struct {
	kind      string
	root      string
	bucket    string
	prefix    string
	endpoint  string
	accessKey string
	secretKey string
	secure    bool
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{in: in, out: out, err: errOut}
}

func newRootCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rankselect COMMAND",
		Short:         "Succinct rank/select over bit vectors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q", c.logLevel)
			}
			c.logger = rankselect.NewLogger(slog.NewTextHandler(c.err, &slog.HandlerOptions{Level: level}))

			if c.ioLimit < 0 {
				return fmt.Errorf("--io-limit must not be negative")
			}
			workers := c.maxWorkers
			if workers <= 0 {
				workers = runtime.GOMAXPROCS(0)
			}
			c.resources = rankselect.NewResourceController(rankselect.ResourceConfig{
				MaxWorkers:         int64(workers),
				IOLimitBytesPerSec: c.ioLimit,
			})
			return nil
		},
	}
	cmd.SetIn(c.in)
	cmd.SetOut(c.out)
	cmd.SetErr(c.err)

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.IntVar(&c.maxWorkers, "max-workers", 0, "Concurrent verification workers, 0 for GOMAXPROCS")
	flags.Int64Var(&c.ioLimit, "io-limit", 0, "Snapshot read/write rate in bytes per second, 0 for unlimited")
	flags.StringVar(&c.store.kind, "store", "local", "Blob store for snapshots (local, s3, minio)")
	flags.StringVar(&c.store.root, "store-root", ".", "Directory of the local store")
	flags.StringVar(&c.store.bucket, "bucket", "", "Bucket for s3 and minio stores")
	flags.StringVar(&c.store.prefix, "prefix", "", "Key prefix inside the bucket")
	flags.StringVar(&c.store.endpoint, "endpoint", "localhost:9000", "MinIO endpoint")
	flags.StringVar(&c.store.accessKey, "access-key", "", "MinIO access key")
	flags.StringVar(&c.store.secretKey, "secret-key", "", "MinIO secret key")
	flags.BoolVar(&c.store.secure, "secure", false, "Use TLS for MinIO")

	cmd.AddCommand(
		newQueryCommand(c),
		newTestCommand(c),
		newBenchCommand(c),
		newBreakCommand(c),
		newSnapshotCommand(c),
	)
	return cmd
}

func (c *cli) openStore(ctx context.Context) (blobstore.BlobStore, error) {
	switch strings.ToLower(c.store.kind) {
	case "local", "":
		return blobstore.NewLocalStore(c.store.root), nil
	case "s3":
		if c.store.bucket == "" {
			return nil, fmt.Errorf("--bucket is required for the s3 store")
		}
		st, err := s3.New(ctx, c.store.bucket, c.store.prefix)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "minio":
		if c.store.bucket == "" {
			return nil, fmt.Errorf("--bucket is required for the minio store")
		}
		st, err := minio.New(c.store.endpoint, c.store.accessKey, c.store.secretKey, c.store.bucket, c.store.prefix, c.store.secure)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store %q", c.store.kind)
	}
}

// kindFlags are the index selection flags shared by several commands.
type kindFlags struct {
	kind string
	k    int
}

func (f *kindFlags) install(cmd *cobra.Command, defaultKind string) {
	cmd.Flags().StringVar(&f.kind, "kind", defaultKind, "Index kind (naive, space-efficient, lookup)")
	cmd.Flags().IntVarP(&f.k, "k", "k", 10, "Blocks per superblock for the space-efficient kind")
}

func (f *kindFlags) parse() (rankselect.Kind, error) {
	return rankselect.ParseKind(f.kind)
}
