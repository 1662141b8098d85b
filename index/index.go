package index

import "strings"

// RankSelect answers rank and select queries over a fixed bit vector.
type RankSelect interface {
	// Rank returns the number of set bits among positions 1..i.
	// ok is false if i < 0 or i > Len().
	Rank(i int) (count int, ok bool)

	// Select returns the position of the r-th set bit.
	// ok is false if r < 1, r > Len() or r > Ones().
	Select(r int) (pos int, ok bool)

	// Rebuild replaces the indexed vector and all derived tables.
	// On error the previous state is left untouched.
	Rebuild(words []uint64) error

	// Len returns the number of bits n.
	Len() int

	// Ones returns the total number of set bits.
	Ones() int

	// Kind identifies the implementation.
	Kind() Kind

	// SizeInBytes returns the memory held by stored and derived tables.
	SizeInBytes() int
}

// Tunable is implemented by indexes whose layout depends on the superblock
// parameter k (number of 32-bit blocks per superblock).
type Tunable interface {
	RankSelect

	// K returns the current superblock parameter.
	K() int

	// RebuildWithK replaces the indexed vector and the superblock parameter.
	RebuildWithK(words []uint64, k int) error
}

// Exporter is implemented by indexes that can reproduce the vector they
// were built from, which snapshots rely on.
type Exporter interface {
	// AppendWords appends the indexed vector to dst and returns the result.
	AppendWords(dst []uint64) []uint64
}

// Kind identifies a rank/select implementation.
type Kind uint8

// Kinds. The zero value is reserved for "unknown" so that it can be detected
// in persisted headers.
const (
	KindUnknown Kind = iota
	KindNaive
	KindSpaceEfficient
	KindLookUp
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNaive:
		return "naive"
	case KindSpaceEfficient:
		return "space-efficient"
	case KindLookUp:
		return "lookup"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. Short names used by the benchmark tooling
// ("na", "se", "lu") are accepted as well.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "naive", "na":
		return KindNaive, true
	case "space-efficient", "spaceefficient", "twolevel", "se":
		return KindSpaceEfficient, true
	case "lookup", "look-up", "lu":
		return KindLookUp, true
	default:
		return KindUnknown, false
	}
}

// AllKinds returns every known kind in a stable order.
func AllKinds() []Kind {
	return []Kind{KindNaive, KindLookUp, KindSpaceEfficient}
}
