// Package verify runs randomized consistency checks over the rank/select
// kinds.
//
// For every seed and vector size, the naive index is checked for
// monotonicity and for rank/select being inverse with the leftmost
// tie-break. The lookup and space-efficient indexes are then compared with
// the naive one query by query. Instances are rebuilt in place between
// sizes, so the checks also cover table reuse.
package verify
