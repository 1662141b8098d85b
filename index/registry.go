package index

import (
	"fmt"
	"sort"
	"sync"
)

// Builder constructs an index of one kind. k is the superblock parameter;
// implementations that do not use it ignore it.
type Builder func(words []uint64, k int) (RankSelect, error)

var (
	buildersMu sync.RWMutex
	builders   = map[Kind]Builder{}
)

// Register registers the builder for a kind.
//
// Implementations call this from an init() function.
func Register(kind Kind, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[kind] = b
}

// Build constructs an index of the given kind.
func Build(kind Kind, words []uint64, k int) (RankSelect, error) {
	buildersMu.RLock()
	b, ok := builders[kind]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return b(words, k)
}

// Registered returns the registered kinds in ascending order.
func Registered() []Kind {
	buildersMu.RLock()
	defer buildersMu.RUnlock()

	kinds := make([]Kind, 0, len(builders))
	for k := range builders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
