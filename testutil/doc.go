// Package testutil provides deterministic generators for tests, verification
// runs and benchmarks.
//
// This package is intended for use in tests, benchmarks and the tooling under
// cmd/. It generates random bit vectors and query sets from a fixed seed so
// that failures can be reproduced.
//
// # Random Bit Vectors
//
//	rng := testutil.NewRNG(seed)
//	words, err := rng.BitVector(1024)     // 1024 uniformly random bits
//	sparse, err := rng.DensityVector(1024, 0.01)
//
// # Query Sets
//
//	queries := rng.Queries(1500, 1024)   // 1500 values in [2, n) plus n and 1
package testutil
