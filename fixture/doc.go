// Package fixture reads and runs regression fixtures for rank/select
// indexes.
//
// A fixture is a pair of text files. The .in file holds the bit vector on
// its first line as space-separated signed decimal 64-bit words, followed by
// one query per line:
//
//	-5476377146882523136
//	R 4
//	Select 3
//
// Lines whose operation starts with "R" are rank queries; "S" lines are
// select queries. The .ans file holds one integer per query, with -1 for an
// out-of-range rank or a select with no answer.
package fixture
