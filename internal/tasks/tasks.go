// package tasks implements collection aggregation across the configured services.
//
// The core abstraction is Loader, which resolves adapters through the service
// registry and fetches collections and tracks. Operations emit progress
// updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/services"
	"github.com/soundtable/soundtable/internal/shared"
)

// Loader orchestrates fetches against registered service adapters.
type Loader struct {
	registry *services.Registry
}

// NewLoader creates a Loader backed by the given registry.
func NewLoader(registry *services.Registry) *Loader {
	return &Loader{registry: registry}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls a fetch.
func (l *Loader) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update
	}
}

// LoadCollections lists the collections of a single service.
func (l *Loader) LoadCollections(ctx context.Context, serviceType models.ServiceType, progress chan<- ProgressUpdate) ([]models.CollectionInfo, error) {
	adapter, err := l.registry.Get(serviceType)
	if err != nil {
		return nil, err
	}

	l.sendProgress(progress, fetchCollectionsUpdate(1, 1, adapter.Name()))

	collections, err := adapter.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	l.sendProgress(progress, collectionsLoadedUpdate(1, 1, adapter.Name(), len(collections)))
	return collections, nil
}

// LoadTracks fetches the ordered tracks of one collection. Adapter errors are
// returned unchanged so callers can match them against the shared sentinels.
func (l *Loader) LoadTracks(ctx context.Context, serviceType models.ServiceType, collectionID string, progress chan<- ProgressUpdate) ([]models.Track, error) {
	adapter, err := l.registry.Get(serviceType)
	if err != nil {
		return nil, err
	}

	l.sendProgress(progress, fetchTracksUpdate(1, 1, adapter.Name(), collectionID))

	tracks, err := adapter.FetchTracks(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	l.sendProgress(progress, tracksLoadedUpdate(1, 1, collectionID, len(tracks)))
	return tracks, nil
}

// LoadExport fetches a collection's tracks together with its metadata. The
// metadata comes from the service's collection listing when the collection
// appears there; otherwise a minimal record is synthesized from the ID.
func (l *Loader) LoadExport(ctx context.Context, serviceType models.ServiceType, collectionID string, progress chan<- ProgressUpdate) (*models.CollectionExport, error) {
	adapter, err := l.registry.Get(serviceType)
	if err != nil {
		return nil, err
	}

	info := models.CollectionInfo{
		ID:      collectionID,
		Name:    collectionID,
		Service: serviceType,
	}
	if collections, err := adapter.ListCollections(ctx); err == nil {
		for _, candidate := range collections {
			if candidate.ID == collectionID {
				info = candidate
				break
			}
		}
	}

	l.sendProgress(progress, fetchTracksUpdate(1, 1, adapter.Name(), info.Name))

	tracks, err := adapter.FetchTracks(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	info.TrackCount = len(tracks)

	l.sendProgress(progress, tracksLoadedUpdate(1, 1, info.Name, len(tracks)))
	return &models.CollectionExport{Collection: info, Tracks: tracks}, nil
}

// Search queries every registered service for public collections matching the
// query, concatenating results in the stable service enumeration order.
func (l *Loader) Search(ctx context.Context, query string, limit int, progress chan<- ProgressUpdate) ([]models.CollectionInfo, error) {
	available := l.registry.Available()
	if len(available) == 0 {
		return nil, fmt.Errorf("%w: no services registered", shared.ErrNotConfigured)
	}

	results := []models.CollectionInfo{}
	for i, serviceType := range available {
		adapter, err := l.registry.Get(serviceType)
		if err != nil {
			return nil, err
		}

		l.sendProgress(progress, searchUpdate(i+1, len(available), adapter.Name(), query))

		found, err := adapter.SearchCollections(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}

	return results, nil
}

// Combine concatenates track lists in call order. Tracks appearing in more
// than one list are kept as-is; services share no reliable track identifier,
// so no cross-service deduplication is attempted.
func Combine(lists ...[]models.Track) []models.Track {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	combined := make([]models.Track, 0, total)
	for _, list := range lists {
		combined = append(combined, list...)
	}
	return combined
}
