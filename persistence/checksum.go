package persistence

import (
	"errors"
	"fmt"

	rshash "github.com/hupe1980/rankselect/internal/hash"
)

// Checksum returns the CRC32-Castagnoli of the little-endian words, the
// value stored in Header.Checksum.
func Checksum(words []uint64) uint32 {
	return rshash.Words(words)
}

func verifyChecksum(words []uint64, expected uint32) error {
	if actual := Checksum(words); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// ChecksumMismatchError is returned when a payload fails verification.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err wraps a ChecksumMismatchError.
func IsChecksumMismatch(err error) bool {
	var cm *ChecksumMismatchError
	return errors.As(err, &cm)
}
