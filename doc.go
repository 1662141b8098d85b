// Package rankselect answers rank and select queries over static bit vectors.
//
// For a vector of n bits with positions numbered 1..n, rank(i) is the number
// of set bits among positions 1..i and select(r) is the smallest position
// whose rank is r. Three implementations trade memory for speed:
//
//   - Naive scans an unpacked 0/1 array. It is the correctness oracle.
//   - SpaceEfficient keeps a cumulative count per superblock of k 32-bit
//     blocks and popcounts the rest. Select binary-searches over rank.
//   - LookUp precomputes rank for every position. Rank is one array access.
//
// # Quick Start
//
//	words := bitvec.MustParse("10110100") // padded to 64 bits
//	idx, err := rankselect.NewSpaceEfficient(words, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r, _ := idx.Rank(4)   // 3
//	p, _ := idx.Select(4) // 6
//
// # Bit Order
//
// Position 1 is the most significant bit of words[0]; position 64 is its
// least significant bit, and position 65 starts words[1]. Vectors are always
// a whole number of 64-bit words.
//
// # Failure Reporting
//
// Rank and Select return an ok flag rather than an error, so hot loops do
// not allocate. RankOf and SelectOf wrap the flags in ErrOutOfRange and
// ErrNotFound.
//
// # Snapshots
//
// Save and Load persist the vector (not the derived tables) to any
// blobstore.BlobStore, optionally compressed with LZ4 or ZSTD:
//
//	store := blobstore.NewLocalStore("./snapshots")
//	err := idx.Save(ctx, store, "bits.rsnp")
//	idx2, err := rankselect.Load(ctx, store, "bits.rsnp")
//
// # Observability
//
// WithLogger and WithMetricsCollector attach structured logging and
// operation metrics; WithResourceController caps the table memory shared by
// a group of indexes.
//
// # Tooling
//
// Package fixture replays .in/.ans regression files, package verify checks
// the fast indexes against Naive on random vectors, and package bench times
// queries and finds the largest vector a memory budget admits. The
// cmd/rankselect binary exposes all of them.
package rankselect
