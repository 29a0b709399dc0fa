package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/services"
	"github.com/soundtable/soundtable/internal/shared"
)

type mockAdapter struct {
	serviceType models.ServiceType
	name        string
	collections []models.CollectionInfo
	tracks      map[string][]models.Track
	searchHits  []models.CollectionInfo

	listErr   error
	fetchErr  error
	searchErr error

	fetchCalls int
}

func (m *mockAdapter) Type() models.ServiceType { return m.serviceType }
func (m *mockAdapter) Name() string             { return m.name }

func (m *mockAdapter) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.collections, nil
}

func (m *mockAdapter) FetchTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	tracks, ok := m.tracks[collectionID]
	if !ok {
		return nil, shared.ErrCollectionNotFound
	}
	return tracks, nil
}

func (m *mockAdapter) SearchCollections(ctx context.Context, query string, limit int) ([]models.CollectionInfo, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchHits, nil
}

func (m *mockAdapter) TestConnection(ctx context.Context) models.ConnectionResult {
	return models.ConnectionResult{OK: true, Message: "ok"}
}

func threeTracks() []models.Track {
	return []models.Track{
		{Artist: "ArtistX", Title: "Song1"},
		{Artist: "ArtistY", Title: "Song2"},
		{Artist: "ArtistZ", Title: "Song3"},
	}
}

func TestLoaderLoadTracks(t *testing.T) {
	t.Run("returns tracks in adapter order", func(t *testing.T) {
		registry := services.NewRegistry()
		registry.Register(&mockAdapter{
			serviceType: models.ServiceLastFM,
			name:        "Last.fm",
			tracks:      map[string][]models.Track{"favorites": threeTracks()},
		})
		loader := NewLoader(registry)

		tracks, err := loader.LoadTracks(context.Background(), models.ServiceLastFM, "favorites", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}

		want := []string{"ArtistX - Song1", "ArtistY - Song2", "ArtistZ - Song3"}
		for i, w := range want {
			if tracks[i].String() != w {
				t.Errorf("track %d: expected %q, got %q", i, w, tracks[i])
			}
		}
	})

	t.Run("unregistered service fails without a fetch", func(t *testing.T) {
		spotify := &mockAdapter{serviceType: models.ServiceSpotify, name: "Spotify"}
		registry := services.NewRegistry()
		registry.Register(spotify)
		loader := NewLoader(registry)

		_, err := loader.LoadTracks(context.Background(), models.ServiceYouTube, "pl1", nil)
		if !errors.Is(err, shared.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
		if spotify.fetchCalls != 0 {
			t.Errorf("expected no fetch calls, got %d", spotify.fetchCalls)
		}
	})

	t.Run("adapter errors propagate unchanged", func(t *testing.T) {
		rateErr := &shared.RateLimitError{Service: "Spotify"}
		registry := services.NewRegistry()
		registry.Register(&mockAdapter{
			serviceType: models.ServiceSpotify,
			name:        "Spotify",
			fetchErr:    rateErr,
		})
		loader := NewLoader(registry)

		_, err := loader.LoadTracks(context.Background(), models.ServiceSpotify, "pl1", nil)
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}

		var got *shared.RateLimitError
		if !errors.As(err, &got) || got != rateErr {
			t.Errorf("expected the adapter's error unchanged, got %v", err)
		}
	})

	t.Run("reports progress without blocking", func(t *testing.T) {
		registry := services.NewRegistry()
		registry.Register(&mockAdapter{
			serviceType: models.ServiceLastFM,
			name:        "Last.fm",
			tracks:      map[string][]models.Track{"favorites": threeTracks()},
		})
		loader := NewLoader(registry)

		// Unbuffered with no reader: sends must be skipped, not block.
		blocked := make(chan ProgressUpdate)
		if _, err := loader.LoadTracks(context.Background(), models.ServiceLastFM, "favorites", blocked); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		buffered := make(chan ProgressUpdate, 8)
		if _, err := loader.LoadTracks(context.Background(), models.ServiceLastFM, "favorites", buffered); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(buffered)

		var updates []ProgressUpdate
		for update := range buffered {
			updates = append(updates, update)
		}
		if len(updates) == 0 {
			t.Fatal("expected at least one progress update")
		}
		if updates[0].Phase != FetchTracks {
			t.Errorf("expected fetch_tracks phase, got %s", updates[0].Phase)
		}
	})
}

func TestLoaderLoadCollections(t *testing.T) {
	registry := services.NewRegistry()
	registry.Register(&mockAdapter{
		serviceType: models.ServiceSpotify,
		name:        "Spotify",
		collections: []models.CollectionInfo{
			{ID: "pl1", Name: "Morning Mix", Service: models.ServiceSpotify},
			{ID: "pl2", Name: "Evening Mix", Service: models.ServiceSpotify},
		},
	})
	loader := NewLoader(registry)

	t.Run("lists registered service", func(t *testing.T) {
		collections, err := loader.LoadCollections(context.Background(), models.ServiceSpotify, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(collections) != 2 {
			t.Fatalf("expected 2 collections, got %d", len(collections))
		}
	})

	t.Run("unregistered service", func(t *testing.T) {
		_, err := loader.LoadCollections(context.Background(), models.ServiceLastFM, nil)
		if !errors.Is(err, shared.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})
}

func TestLoaderLoadExport(t *testing.T) {
	t.Run("resolves metadata from the listing", func(t *testing.T) {
		registry := services.NewRegistry()
		registry.Register(&mockAdapter{
			serviceType: models.ServiceSpotify,
			name:        "Spotify",
			collections: []models.CollectionInfo{
				{ID: "pl1", Name: "Morning Mix", Service: models.ServiceSpotify, Owner: "User"},
			},
			tracks: map[string][]models.Track{"pl1": threeTracks()},
		})
		loader := NewLoader(registry)

		export, err := loader.LoadExport(context.Background(), models.ServiceSpotify, "pl1", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if export.Collection.Name != "Morning Mix" || export.Collection.Owner != "User" {
			t.Errorf("expected listing metadata, got %+v", export.Collection)
		}
		if export.Collection.TrackCount != 3 {
			t.Errorf("expected track count 3, got %d", export.Collection.TrackCount)
		}
		if len(export.Tracks) != 3 {
			t.Errorf("expected 3 tracks, got %d", len(export.Tracks))
		}
	})

	t.Run("synthesizes metadata when listing misses the collection", func(t *testing.T) {
		registry := services.NewRegistry()
		registry.Register(&mockAdapter{
			serviceType: models.ServiceSpotify,
			name:        "Spotify",
			listErr:     errors.New("listing unavailable"),
			tracks:      map[string][]models.Track{"pl9": threeTracks()},
		})
		loader := NewLoader(registry)

		export, err := loader.LoadExport(context.Background(), models.ServiceSpotify, "pl9", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if export.Collection.ID != "pl9" || export.Collection.Service != models.ServiceSpotify {
			t.Errorf("expected synthesized metadata, got %+v", export.Collection)
		}
	})
}

func TestLoaderSearch(t *testing.T) {
	t.Run("concatenates results in service order", func(t *testing.T) {
		registry := services.NewRegistry()
		registry.Register(&mockAdapter{
			serviceType: models.ServiceYouTube,
			name:        "YouTube",
			searchHits:  []models.CollectionInfo{{ID: "yt1", Service: models.ServiceYouTube}},
		})
		registry.Register(&mockAdapter{
			serviceType: models.ServiceSpotify,
			name:        "Spotify",
			searchHits:  []models.CollectionInfo{{ID: "sp1", Service: models.ServiceSpotify}},
		})
		loader := NewLoader(registry)

		results, err := loader.Search(context.Background(), "jazz", 10, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		// Spotify precedes YouTube in the stable enumeration order.
		if results[0].ID != "sp1" || results[1].ID != "yt1" {
			t.Errorf("expected [sp1 yt1], got [%s %s]", results[0].ID, results[1].ID)
		}
	})

	t.Run("no registered services", func(t *testing.T) {
		loader := NewLoader(services.NewRegistry())
		_, err := loader.Search(context.Background(), "jazz", 10, nil)
		if !errors.Is(err, shared.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})
}

func TestCombine(t *testing.T) {
	t.Run("concatenates in call order", func(t *testing.T) {
		first := threeTracks()
		second := []models.Track{{Artist: "ArtistW", Title: "Song4"}}

		combined := Combine(first, second)
		if len(combined) != len(first)+len(second) {
			t.Fatalf("expected %d tracks, got %d", len(first)+len(second), len(combined))
		}
		if combined[0].Title != "Song1" || combined[3].Title != "Song4" {
			t.Errorf("unexpected order: first=%q last=%q", combined[0], combined[3])
		}
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		list := threeTracks()
		combined := Combine(list, list)
		if len(combined) != 6 {
			t.Errorf("expected 6 tracks, got %d", len(combined))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Combine(); len(got) != 0 {
			t.Errorf("expected empty result, got %d", len(got))
		}
		if got := Combine(nil, []models.Track{}); len(got) != 0 {
			t.Errorf("expected empty result, got %d", len(got))
		}
	})
}
