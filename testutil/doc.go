// Package testutil provides testing utilities for respool.
//
// This package is intended for use in tests only. It provides metrics
// collectors for asserting on recorded tasks and a seeded RNG for
// de-synchronizing concurrent workloads.
//
// # Recording Metrics
//
//	rec := testutil.NewRecorder()
//	m, _ := respool.New(cfg, respool.WithMetricsCollector(rec))
//	// ... submit work ...
//	require.Len(t, rec.ByResource(respool.ResourceIO), 3)
//	require.Empty(t, rec.Failed())
//
// # Jittered Workloads
//
//	rng := testutil.NewRNG(42)
//	d := rng.Jitter(time.Millisecond, 4*time.Millisecond)
package testutil
