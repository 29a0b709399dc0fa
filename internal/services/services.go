// package services defines interface Adapter for interacting with music service HTTP APIs
//
// Last.fm, Spotify, YouTube
package services

import (
	"context"

	"github.com/soundtable/soundtable/internal/models"
)

// Adapter is the capability interface every music service translates itself
// through. Each concrete adapter owns its own credential state and HTTP
// client; the registry owns the adapters but never mutates them.
type Adapter interface {
	// Type returns the service type tag for this adapter.
	Type() models.ServiceType

	// Name returns the human-readable service name (e.g., "Last.fm")
	Name() string

	// ListCollections retrieves the playlists/collections available to the
	// configured account. An account with zero collections yields an empty
	// slice, not an error.
	ListCollections(ctx context.Context) ([]models.CollectionInfo, error)

	// FetchTracks retrieves every track in the given collection, preserving
	// the service's native ordering. A mid-pagination failure fails the whole
	// call; no partial result is returned.
	FetchTracks(ctx context.Context, collectionID string) ([]models.Track, error)

	// SearchCollections searches the service for public collections matching
	// the query. Services without collection search return an empty slice.
	SearchCollections(ctx context.Context, query string, limit int) ([]models.CollectionInfo, error)

	// TestConnection performs the cheapest possible authenticated round trip.
	// It never returns an error: every failure is folded into the result's
	// Message with OK set to false.
	TestConnection(ctx context.Context) models.ConnectionResult
}
