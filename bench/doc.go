// Package bench measures rank and select query latency and the largest
// vector each kind can index under a memory budget.
//
// Queries runs a doubling experiment over vector sizes and writes one CSV
// row per kind, method, size, seed and k:
//
//	Algo,method,size,q,seed,k,Mean,Sdev
//
// Mean and Sdev are nanoseconds per query over Repetitions timed passes.
//
// Break doubles the vector size until building an index is refused by the
// resource controller and writes one Algo,size,seed row per successful
// build.
package bench
