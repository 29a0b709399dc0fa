package services

import (
	"context"
	"errors"
	"testing"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
)

type stubAdapter struct {
	serviceType models.ServiceType
	name        string
	connection  models.ConnectionResult
}

func (s *stubAdapter) Type() models.ServiceType { return s.serviceType }
func (s *stubAdapter) Name() string             { return s.name }
func (s *stubAdapter) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	return []models.CollectionInfo{}, nil
}
func (s *stubAdapter) FetchTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	return []models.Track{}, nil
}
func (s *stubAdapter) SearchCollections(ctx context.Context, query string, limit int) ([]models.CollectionInfo, error) {
	return []models.CollectionInfo{}, nil
}
func (s *stubAdapter) TestConnection(ctx context.Context) models.ConnectionResult {
	return s.connection
}

func TestRegistry(t *testing.T) {
	t.Run("empty registry", func(t *testing.T) {
		registry := NewRegistry()

		if available := registry.Available(); len(available) != 0 {
			t.Errorf("expected no available services, got %v", available)
		}

		_, err := registry.Get(models.ServiceSpotify)
		if err == nil {
			t.Fatal("expected error for unregistered service")
		}
		if !errors.Is(err, shared.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("register and get", func(t *testing.T) {
		registry := NewRegistry()
		adapter := &stubAdapter{serviceType: models.ServiceLastFM, name: "Last.fm"}
		registry.Register(adapter)

		got, err := registry.Get(models.ServiceLastFM)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != Adapter(adapter) {
			t.Error("expected registered adapter to be returned")
		}

		if !registry.Configured(models.ServiceLastFM) {
			t.Error("expected lastfm to be configured")
		}
		if registry.Configured(models.ServiceYouTube) {
			t.Error("expected youtube to not be configured")
		}
	})

	t.Run("register replaces existing adapter", func(t *testing.T) {
		registry := NewRegistry()
		first := &stubAdapter{serviceType: models.ServiceSpotify, name: "first"}
		second := &stubAdapter{serviceType: models.ServiceSpotify, name: "second"}

		registry.Register(first)
		registry.Register(second)

		got, err := registry.Get(models.ServiceSpotify)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Name() != "second" {
			t.Errorf("expected replacement adapter, got %s", got.Name())
		}

		if available := registry.Available(); len(available) != 1 {
			t.Errorf("expected 1 available service, got %d", len(available))
		}
	})

	t.Run("available is in enumeration order", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&stubAdapter{serviceType: models.ServiceYouTube})
		registry.Register(&stubAdapter{serviceType: models.ServiceLastFM})

		available := registry.Available()
		if len(available) != 2 {
			t.Fatalf("expected 2 available services, got %d", len(available))
		}
		if available[0] != models.ServiceLastFM || available[1] != models.ServiceYouTube {
			t.Errorf("expected [lastfm youtube], got %v", available)
		}
	})

	t.Run("TestAll", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&stubAdapter{
			serviceType: models.ServiceLastFM,
			connection:  models.ConnectionResult{OK: true, Message: "ok"},
		})
		registry.Register(&stubAdapter{
			serviceType: models.ServiceSpotify,
			connection:  models.ConnectionResult{OK: false, Message: "bad credentials"},
		})

		results := registry.TestAll(context.Background())
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if !results[models.ServiceLastFM].OK {
			t.Error("expected lastfm probe to succeed")
		}
		if results[models.ServiceSpotify].OK {
			t.Error("expected spotify probe to fail")
		}
	})
}
