// Package testutil provides testing utilities for slotmap.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic random source, churn workload generation and a
// map-backed shadow model to check containers against.
//
// # Random Workloads
//
//	rng := testutil.NewRNG(seed)
//	ops := rng.Churn(10_000, 0.4) // 40% erases, 60% inserts
//
// # Shadow Model
//
//	shadow := testutil.NewShadow[slotmap.Slot, int]()
//	shadow.Put(s, 42)
//	for k, v := range shadow.All() { ... }
package testutil
