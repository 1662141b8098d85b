package rankselect

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/internal/compress"
	"github.com/hupe1980/rankselect/internal/resource"
	"github.com/hupe1980/rankselect/persistence"
)

var (
	// ErrEmptyVector is returned when an index is built from zero words.
	ErrEmptyVector = errors.New("empty bit vector")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrTooLarge is returned for vectors longer than index.MaxBits.
	ErrTooLarge = errors.New("bit vector too large")

	// ErrOutOfRange is returned by RankOf for positions outside [0, n].
	ErrOutOfRange = errors.New("rank position out of range")

	// ErrNotFound is returned by SelectOf when there is no r-th set bit.
	ErrNotFound = errors.New("select target not found")

	// ErrUnknownKind is returned for unregistered index kinds.
	ErrUnknownKind = errors.New("unknown index kind")

	// ErrNotTunable is returned by RebuildWithK on kinds without a k.
	ErrNotTunable = errors.New("index kind has no superblock parameter")

	// ErrMemoryLimitExceeded is returned when a build would exceed the
	// ResourceController budget.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrClosed is returned by operations on a closed Index.
	ErrClosed = errors.New("index closed")
)

// ErrCorruptSnapshot indicates a snapshot that failed validation.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrCorruptSnapshot struct {
	Name  string
	cause error
}

func (e *ErrCorruptSnapshot) Error() string {
	return fmt.Sprintf("corrupt snapshot %q: %v", e.Name, e.cause)
}

func (e *ErrCorruptSnapshot) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, index.ErrEmptyVector):
		return fmt.Errorf("%w: %w", ErrEmptyVector, err)
	case errors.Is(err, index.ErrInvalidK):
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	case errors.Is(err, index.ErrTooLarge):
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	case errors.Is(err, index.ErrOutOfRange):
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	case errors.Is(err, index.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, index.ErrUnknownKind):
		return fmt.Errorf("%w: %w", ErrUnknownKind, err)
	case errors.Is(err, resource.ErrMemoryLimitExceeded):
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	}
	return err
}

// translateSnapshotError wraps format and integrity failures in
// ErrCorruptSnapshot and leaves storage errors alone.
func translateSnapshotError(name string, err error) error {
	if err == nil {
		return nil
	}
	if persistence.IsChecksumMismatch(err) ||
		errors.Is(err, persistence.ErrCorrupt) ||
		errors.Is(err, persistence.ErrInvalidMagic) ||
		errors.Is(err, persistence.ErrInvalidVersion) ||
		errors.Is(err, persistence.ErrInvalidKind) ||
		errors.Is(err, persistence.ErrInvalidCompression) ||
		errors.Is(err, compress.ErrCorrupt) {
		return &ErrCorruptSnapshot{Name: name, cause: err}
	}
	return translateError(err)
}
