// Package resource implements a Controller that bounds the resources used by
// paged sequences and their snapshots.
//
//   - Memory: page allocations are charged against a byte budget (non-blocking, fail-fast)
//   - Concurrency: snapshot page encoders hold a background slot while they run
//   - IO: snapshot streams are throttled by a token bucket
//
// # Memory
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//	seq, _ := pagedseq.New[int64](4096, pagedseq.WithMemoryAcquirer(rc))
//
// AcquireMemory never blocks; it returns ErrMemoryLimitExceeded when the
// reservation does not fit.
//
// # IO
//
//	w := resource.NewRateLimitedWriter(ctx, file, rc)
//
// Writes and reads larger than the limiter burst are split into burst-sized
// chunks.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
