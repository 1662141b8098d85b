// Package indextest provides shared assertions for index implementations.
package indextest

import (
	"testing"

	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/index"
	"github.com/stretchr/testify/require"
)

// ScenarioBits is the 8-bit example vector, padded to 64 bits when parsed.
const ScenarioBits = "10110100"

// ScenarioRanks[i-1] is rank(i) for i in 1..8 over ScenarioBits.
var ScenarioRanks = []int{1, 1, 2, 3, 3, 4, 4, 4}

// ScenarioSelects[r-1] is select(r) for r in 1..4 over ScenarioBits.
var ScenarioSelects = []int{1, 3, 4, 6}

// CheckScenario asserts the answers for ScenarioBits.
func CheckScenario(t testing.TB, rs index.RankSelect) {
	t.Helper()

	for i, want := range ScenarioRanks {
		got, ok := rs.Rank(i + 1)
		require.True(t, ok, "rank(%d)", i+1)
		require.Equal(t, want, got, "rank(%d)", i+1)
	}
	for r, want := range ScenarioSelects {
		got, ok := rs.Select(r + 1)
		require.True(t, ok, "select(%d)", r+1)
		require.Equal(t, want, got, "select(%d)", r+1)
	}
	_, ok := rs.Select(len(ScenarioSelects) + 1)
	require.False(t, ok, "select(5) must be not-found")
}

// CheckContract compares every rank and select answer of rs against prefix
// sums computed directly from words, and checks the out-of-range contract.
// The cost is O(n) queries; keep n in the low thousands.
func CheckContract(t testing.TB, rs index.RankSelect, words []uint64) {
	t.Helper()

	bits := bitvec.Unpack(nil, words)
	n := len(bits)
	require.Equal(t, n, rs.Len())

	prefix := make([]int, n+1)
	for i, b := range bits {
		prefix[i+1] = prefix[i] + int(b)
	}
	require.Equal(t, prefix[n], rs.Ones(), "ones")

	for i := 0; i <= n; i++ {
		got, ok := rs.Rank(i)
		require.True(t, ok, "rank(%d)", i)
		require.Equal(t, prefix[i], got, "rank(%d)", i)
	}

	r := 0
	for i, b := range bits {
		if b == 0 {
			continue
		}
		r++
		got, ok := rs.Select(r)
		require.True(t, ok, "select(%d)", r)
		require.Equal(t, i+1, got, "select(%d)", r)
	}

	CheckOutOfRange(t, rs)
}

// CheckOutOfRange asserts the failure indicators at the edges of the domain.
func CheckOutOfRange(t testing.TB, rs index.RankSelect) {
	t.Helper()

	n, ones := rs.Len(), rs.Ones()
	for _, i := range []int{-1, n + 1, n + 64} {
		_, ok := rs.Rank(i)
		require.False(t, ok, "rank(%d) must be out of range", i)
	}
	for _, r := range []int{-1, 0, ones + 1, n + 1} {
		_, ok := rs.Select(r)
		require.False(t, ok, "select(%d) must be not-found", r)
	}
	got, ok := rs.Rank(0)
	require.True(t, ok)
	require.Zero(t, got)
}

// CheckEqual asserts that a and b answer every query identically.
func CheckEqual(t testing.TB, a, b index.RankSelect) {
	t.Helper()

	require.Equal(t, a.Len(), b.Len())
	require.Equal(t, a.Ones(), b.Ones())
	for i := -1; i <= a.Len()+1; i++ {
		ra, oka := a.Rank(i)
		rb, okb := b.Rank(i)
		require.Equal(t, oka, okb, "rank(%d) ok: %s vs %s", i, a.Kind(), b.Kind())
		require.Equal(t, ra, rb, "rank(%d): %s vs %s", i, a.Kind(), b.Kind())
	}
	for r := -1; r <= a.Ones()+1; r++ {
		sa, oka := a.Select(r)
		sb, okb := b.Select(r)
		require.Equal(t, oka, okb, "select(%d) ok: %s vs %s", r, a.Kind(), b.Kind())
		require.Equal(t, sa, sb, "select(%d): %s vs %s", r, a.Kind(), b.Kind())
	}
}
