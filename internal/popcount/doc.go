// Package popcount counts set bits in 32- and 64-bit words.
//
// The default kernel decomposes a word into bytes and sums lookups into a
// 256-entry table that is built once at package init and shared by every
// caller. A hardware kernel (POPCNT on amd64, CNT on arm64) can be selected
// with the RANKSELECT_POPCOUNT environment variable:
//
//	RANKSELECT_POPCOUNT=table     # byte table (default)
//	RANKSELECT_POPCOUNT=hardware  # math/bits, only honoured if the CPU supports it
//
// Both kernels return identical results; the choice only affects speed.
package popcount
