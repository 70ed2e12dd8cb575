// Package pathkey provides filesystem-aware resource key resolvers.
//
// A resolver maps a path-like identifier to the resource key whose semaphore
// throttles it, so that all paths on the same physical resource share one
// concurrency budget.
//
// Three resolvers are provided:
//
//   - Mount resolves a path to the longest configured mount point that
//     contains it. Purely lexical, works on any platform.
//   - Device resolves a path to the "major:minor" device number of the
//     filesystem holding it (on Unix; elsewhere it falls back to the path's
//     volume). No configuration needed, but it stats the path.
//   - Cached wraps any resolver with an LRU cache and collapses concurrent
//     lookups for the same identifier into one call.
//
// Typical wiring:
//
//	resolver := pathkey.NewCached(pathkey.NewDevice(), 1024)
//	m, err := respool.New(cfg, respool.WithResolver(resolver))
package pathkey
