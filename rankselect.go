package rankselect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/index/lookup"
	"github.com/hupe1980/rankselect/index/twolevel"

	// Registers the naive kind with the index registry.
	_ "github.com/hupe1980/rankselect/index/naive"
)

// Kind identifies a rank/select implementation.
type Kind = index.Kind

const (
	KindNaive          = index.KindNaive
	KindSpaceEfficient = index.KindSpaceEfficient
	KindLookUp         = index.KindLookUp
)

// ParseKind parses a kind name such as "naive", "space-efficient" or "lookup".
func ParseKind(s string) (Kind, error) {
	k, ok := index.ParseKind(s)
	if !ok {
		return index.KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// RankSelect is the query contract shared by all kinds.
type RankSelect = index.RankSelect

// Index is a rank/select structure over a bit vector.
//
// Queries may run concurrently with each other; Rebuild and Close take an
// exclusive lock.
type Index struct {
	mu     sync.RWMutex
	impl   index.RankSelect
	kind   Kind
	opts   options
	timed  bool
	held   int64 // bytes reserved from opts.resources
	closed bool
}

var _ RankSelect = (*Index)(nil)

// New builds an index of the given kind over words. Position 1 is the most
// significant bit of words[0].
func New(kind Kind, words []uint64, optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)
	x := &Index{kind: kind, opts: o}
	_, noop := o.metricsCollector.(NoopMetricsCollector)
	x.timed = !noop

	start := time.Now()
	err := x.build(words)
	elapsed := time.Since(start)

	bits := bitvec.Len(words)
	o.metricsCollector.RecordBuild(kind, bits, elapsed, err)
	o.logger.LogBuild(context.Background(), kind, bits, o.k, elapsed, err)
	if err != nil {
		return nil, translateError(err)
	}
	return x, nil
}

// NewNaive builds the linear-scan reference index.
func NewNaive(words []uint64, optFns ...Option) (*Index, error) {
	return New(KindNaive, words, optFns...)
}

// NewSpaceEfficient builds the two-level index with k blocks per superblock.
func NewSpaceEfficient(words []uint64, k int, optFns ...Option) (*Index, error) {
	return New(KindSpaceEfficient, words, append(optFns, WithK(k))...)
}

// NewLookUp builds the full rank table index.
func NewLookUp(words []uint64, optFns ...Option) (*Index, error) {
	return New(KindLookUp, words, optFns...)
}

func (x *Index) build(words []uint64) error {
	if x.kind == KindSpaceEfficient {
		if err := index.ValidateK(x.opts.k); err != nil {
			return err
		}
	}
	if err := x.reserve(words, x.opts.k); err != nil {
		return err
	}
	impl, err := index.Build(x.kind, words, x.opts.k)
	if err != nil {
		x.release()
		return err
	}
	x.impl = impl
	return nil
}

// reserve swaps the current reservation for one sized for words. On failure
// the current reservation is kept.
func (x *Index) reserve(words []uint64, k int) error {
	rc := x.opts.resources
	if rc == nil {
		return nil
	}
	size := EstimateSize(x.kind, bitvec.Len(words), k)
	if err := rc.AcquireMemory(size); err != nil {
		return err
	}
	rc.ReleaseMemory(x.held)
	x.held = size
	return nil
}

func (x *Index) release() {
	x.opts.resources.ReleaseMemory(x.held)
	x.held = 0
}

// EstimateSize returns the bytes of stored and derived tables an index of
// kind over bits bits holds. It equals SizeInBytes after a build.
func EstimateSize(kind Kind, bits, k int) int64 {
	twoLevel := func(k int) int64 {
		s := k * twolevel.BlockBits
		return 4*int64(bits/twolevel.BlockBits) + 4*int64((bits+s-1)/s+1)
	}
	switch kind {
	case KindNaive:
		return int64(bits)
	case KindSpaceEfficient:
		if k < 1 {
			return 0
		}
		return twoLevel(k)
	case KindLookUp:
		return 4*int64(bits) + twoLevel(lookup.BuilderK)
	default:
		return 0
	}
}

// Rank returns the number of set bits among positions 1..i. ok is false if
// i is outside [0, Len()].
func (x *Index) Rank(i int) (int, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.closed {
		return 0, false
	}

	if !x.timed {
		return x.impl.Rank(i)
	}
	start := time.Now()
	c, ok := x.impl.Rank(i)
	x.opts.metricsCollector.RecordRank(time.Since(start), ok)
	return c, ok
}

// Select returns the position of the r-th set bit. ok is false if there is
// no such bit.
func (x *Index) Select(r int) (int, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.closed {
		return 0, false
	}

	if !x.timed {
		return x.impl.Select(r)
	}
	start := time.Now()
	p, ok := x.impl.Select(r)
	x.opts.metricsCollector.RecordSelect(time.Since(start), ok)
	return p, ok
}

// RankOf is Rank returning ErrOutOfRange instead of a flag.
func (x *Index) RankOf(i int) (int, error) {
	c, ok := x.Rank(i)
	if !ok {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, i, x.Len())
	}
	return c, nil
}

// SelectOf is Select returning ErrNotFound instead of a flag.
func (x *Index) SelectOf(r int) (int, error) {
	p, ok := x.Select(r)
	if !ok {
		return 0, fmt.Errorf("%w: r=%d, ones=%d", ErrNotFound, r, x.Ones())
	}
	return p, nil
}

// Rebuild replaces the vector in place, reusing table memory where the
// implementation can. On error the index keeps answering for the old vector.
func (x *Index) Rebuild(words []uint64) error {
	return x.rebuild(words, func() error { return x.impl.Rebuild(words) }, x.K())
}

// RebuildWithK replaces the vector and the superblock parameter of a
// space-efficient index.
func (x *Index) RebuildWithK(words []uint64, k int) error {
	t, ok := x.impl.(index.Tunable)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTunable, x.kind)
	}
	if err := index.ValidateK(k); err != nil {
		return translateError(err)
	}
	return x.rebuild(words, func() error { return t.RebuildWithK(words, k) }, k)
}

func (x *Index) rebuild(words []uint64, do func() error, k int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return ErrClosed
	}

	start := time.Now()
	prevHeld := x.held
	err := x.reserve(words, k)
	if err == nil {
		if err = do(); err != nil {
			// Restore the reservation for the tables still in place.
			x.opts.resources.ReleaseMemory(x.held)
			x.held = 0
			if rerr := x.opts.resources.AcquireMemory(prevHeld); rerr == nil {
				x.held = prevHeld
			}
		}
	}
	if err == nil && x.kind == KindSpaceEfficient {
		x.opts.k = k
	}
	elapsed := time.Since(start)

	bits := bitvec.Len(words)
	x.opts.metricsCollector.RecordRebuild(x.kind, bits, elapsed, err)
	x.opts.logger.LogRebuild(context.Background(), x.kind, bits, elapsed, err)
	return translateError(err)
}

// Close releases the memory reservation. Queries on a closed index report
// out of range.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return nil
	}
	x.closed = true
	x.release()
	return nil
}

// Len returns the number of bits.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.impl.Len()
}

// Ones returns the number of set bits.
func (x *Index) Ones() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.impl.Ones()
}

// Kind returns the implementation kind.
func (x *Index) Kind() Kind { return x.kind }

// K returns the superblock parameter, or 0 for kinds without one.
func (x *Index) K() int {
	if t, ok := x.impl.(index.Tunable); ok {
		return t.K()
	}
	return 0
}

// SizeInBytes returns the memory held by stored and derived tables.
func (x *Index) SizeInBytes() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.impl.SizeInBytes()
}

// Unwrap returns the underlying implementation.
func (x *Index) Unwrap() RankSelect { return x.impl }

// Stats summarizes an index.
type Stats struct {
	Kind        Kind
	Bits        int
	Ones        int
	K           int
	SizeInBytes int
}

// Stats returns a summary of the index.
func (x *Index) Stats() Stats {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return Stats{
		Kind:        x.kind,
		Bits:        x.impl.Len(),
		Ones:        x.impl.Ones(),
		K:           x.K(),
		SizeInBytes: x.impl.SizeInBytes(),
	}
}
