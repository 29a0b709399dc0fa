// Package repositories persists collection snapshots to SQLite.
//
// A snapshot is an immutable record of one fetch: the collection metadata
// plus its tracks in fetch order. [SnapshotRepository.Save] writes both in a
// single transaction; [SnapshotRepository.Export] rebuilds the original
// [models.CollectionExport] for offline rendering.
//
// Snapshots exist for inspection and replay only. The fetch path never reads
// them, so a fetch always reflects the live service.
package repositories
