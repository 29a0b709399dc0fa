// Package tasks orchestrates collection fetches across services with real-time progress reporting.
//
// # Core Operations
//
// The [Loader] resolves adapters through the service registry and exposes:
//
//  1. [Loader.LoadCollections] : List the collections of one service
//  2. [Loader.LoadTracks] : Fetch the ordered tracks of one collection
//  3. [Loader.LoadExport] : Fetch tracks together with collection metadata
//  4. [Loader.Search] : Query every registered service for public collections
//  5. [Loader.BulkFetch] : Fetch several collections with a worker pool
//
// Adapter errors propagate unchanged so callers can match them against the
// sentinels in [shared].
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # Combination
//
// [Combine] concatenates track lists in call order. No cross-service
// deduplication happens; services share no reliable track identifier.
//
// # Bulk Fetches
//
// [Loader.BulkFetch] runs a bounded worker pool behind a shared rate limiter
// and re-assembles results in request order, so concatenating a bulk result's
// tracks is equivalent to fetching the collections one at a time.
package tasks
