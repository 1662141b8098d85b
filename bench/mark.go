package bench

import (
	"math"
	"time"
)

// sink keeps query results observable so the loops are not optimized away.
var sink int

// Mark runs f over queries reps times and returns the mean and standard
// deviation of the per-query time in nanoseconds.
func Mark(f func(int) int, queries []int, reps int) (mean, sdev float64) {
	if reps < 1 || len(queries) == 0 {
		return 0, 0
	}

	var st, sst float64
	acc := 0
	for j := 0; j < reps; j++ {
		start := time.Now()
		for _, q := range queries {
			acc += f(q)
		}
		t := float64(time.Since(start).Nanoseconds()) / float64(len(queries))
		st += t
		sst += t * t
	}
	sink += acc

	mean = st / float64(reps)
	if reps > 1 {
		// Rounding can push the variance slightly negative.
		sdev = math.Sqrt(math.Max(0, (sst-mean*mean*float64(reps))/float64(reps-1)))
	}
	return mean, sdev
}

// WarmUp runs f over queries rounds times.
func WarmUp(f func(int) int, queries []int, rounds int) {
	acc := 0
	for i := 0; i < rounds; i++ {
		for _, q := range queries {
			acc += f(q)
		}
	}
	sink += acc
}
