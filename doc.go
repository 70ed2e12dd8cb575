// Package respool provides admission control and live-resizable scheduling
// for CPU-bound and I/O-bound work.
//
// A Manager owns one bounded CPU worker pool and a registry of per-key
// resizable semaphores for I/O. Both limits can be changed while work is in
// flight: a pool resize swaps in a fresh pool and drains the old one behind
// the scenes, and a semaphore resize takes effect without revoking permits
// already held.
//
// # Quick Start
//
//	ctx := context.Background()
//	m, err := respool.New(respool.Config{
//	    CPUPoolSize:    4,
//	    DefaultIOLimit: 2,
//	})
//	if err != nil {
//	    panic(err)
//	}
//	defer m.Close()
//
//	// CPU-bound work runs on the worker pool.
//	sum, err := respool.DoCPU(ctx, m, "checksum", func(ctx context.Context) (uint32, error) {
//	    return crc32.ChecksumIEEE(payload), nil
//	})
//
//	// I/O-bound work is throttled per resource key; identifiers sharing a
//	// key share permits.
//	data, err := respool.DoIO(ctx, m, "/mnt/media/a.mkv", "read", func(ctx context.Context) ([]byte, error) {
//	    return os.ReadFile("/mnt/media/a.mkv")
//	})
//
// # Live Resizing
//
//	m.ResizeCPUPool(8)             // future CPU tasks see 8 workers
//	m.ResizeIOLimit("/mnt/media", 4) // key's semaphore grows to 4
//
// Growing a semaphore never fabricates permits: availability rises only as
// current holders release. Shrinking clamps availability immediately but
// never revokes a permit somebody holds.
//
// # Key Features
//
//   - Bounded CPU pool with graceful drain on live resize
//   - Per-key I/O semaphores, created lazily, resizable at runtime
//   - Optional strict-FIFO admission (WithFairIO) and a global I/O rate
//     limit (WithIORate)
//   - Pluggable key resolution (see the pathkey package for filesystem
//     mount and device resolvers)
//   - Per-task queue/execution metrics via MetricsCollector (in-memory,
//     logging and Redis-backed sinks included)
//   - Structured logging via log/slog
package respool
