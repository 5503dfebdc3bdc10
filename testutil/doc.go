// Package testutil provides testing utilities for pagedseq.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(seed)
//	ints := rng.Ints(1000, 1<<20)   // values in [0, 1<<20)
//	words := rng.Words(100, 8)      // lowercase strings of length 8
//	rec := rng.Records(50)          // small structs for codec round-trips
package testutil
