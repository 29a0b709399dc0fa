// Package models defines the service-independent data model shared by every
// layer of soundtable.
//
// The package contains only value types:
//   - [Track] : one song/audio item, normalized from any service
//   - [CollectionInfo] : a playlist or service-derived collection
//   - [CollectionExport] : a collection with its fully fetched track listing
//   - [ConnectionResult] : outcome of a service connectivity probe
//
// [ServiceType] is the closed enumeration of supported services. Adapters in
// internal/services translate each service's native API responses into these
// types; nothing below this package depends on a concrete service.
//
// Tracks carry a map of per-service external identifiers rather than a single
// ID because the same underlying song has no guaranteed shared identifier
// across services.
package models
