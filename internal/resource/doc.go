// Package resource limits the memory held by indexes and paces snapshot IO.
//
// A Controller tracks three budgets:
//
//   - Memory: a hard byte budget for index tables (non-blocking, fail-fast)
//   - Workers: the number of concurrent verification or benchmark jobs
//   - IO: a token bucket for snapshot uploads and downloads
//
// The break-it experiment builds ever larger indexes against a fixed memory
// budget until AcquireMemory refuses:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(size)
//
// All methods are safe for concurrent use and are no-ops on a nil Controller.
package resource
