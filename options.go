package rankselect

import (
	"log/slog"

	"github.com/hupe1980/rankselect/index/twolevel"
	"github.com/hupe1980/rankselect/internal/compress"
	"github.com/hupe1980/rankselect/internal/resource"
)

// Compression selects the snapshot payload codec.
type Compression = compress.Type

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	return compress.ParseType(s)
}

// ResourceController bounds the memory held by index tables and paces
// snapshot IO. Share one controller between indexes to enforce a global budget.
type ResourceController = resource.Controller

// ResourceConfig configures a ResourceController.
type ResourceConfig = resource.Config

// NewResourceController creates a controller for cfg.
func NewResourceController(cfg ResourceConfig) *ResourceController {
	return resource.NewController(cfg)
}

type options struct {
	k                int
	compression      Compression
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *ResourceController
}

// Option configures New, Load and the kind-specific constructors.
type Option func(*options)

// WithK sets the number of 32-bit blocks per superblock for the
// space-efficient index. Other kinds ignore it. Defaults to 1.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithCompression sets the codec Save uses for the snapshot payload.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &rankselect.BasicMetricsCollector{}
//	idx, _ := rankselect.New(rankselect.KindLookUp, words, rankselect.WithMetricsCollector(metrics))
//	// ... query ...
//	fmt.Println(metrics.GetStats().RankAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel is shorthand for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController reserves each index's table memory from rc.
// Builds that would exceed the budget fail with ErrMemoryLimitExceeded.
func WithResourceController(rc *ResourceController) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                twolevel.DefaultK,
		compression:      CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
