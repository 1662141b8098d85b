package index

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyVector is returned when an index is built from zero words.
	ErrEmptyVector = errors.New("empty bit vector")

	// ErrInvalidK is returned when the superblock parameter k is less than 1.
	ErrInvalidK = errors.New("k must be positive")

	// ErrTooLarge is returned when a vector exceeds MaxBits.
	ErrTooLarge = errors.New("bit vector too large")

	// ErrOutOfRange is returned by RankOf for positions outside [0, n].
	ErrOutOfRange = errors.New("rank position out of range")

	// ErrNotFound is returned by SelectOf when no r-th set bit exists.
	ErrNotFound = errors.New("select target not found")

	// ErrUnknownKind is returned by Build for unregistered kinds.
	ErrUnknownKind = errors.New("unknown index kind")
)

// MaxBits is the largest supported vector length. Counts are stored as uint32.
const MaxBits = 1<<32 - 64

// ValidateK checks the superblock parameter.
func ValidateK(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	return nil
}

// ValidateLen checks that n bits can be indexed.
func ValidateLen(n int) error {
	if n <= 0 {
		return ErrEmptyVector
	}
	if uint64(n) > MaxBits {
		return fmt.Errorf("%w: %d bits exceeds %d", ErrTooLarge, n, uint64(MaxBits))
	}
	return nil
}
