package repositories

import (
	"database/sql"
	"testing"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleExport() *models.CollectionExport {
	return &models.CollectionExport{
		Collection: models.CollectionInfo{
			ID:      "pl1",
			Name:    "Morning Mix",
			Service: models.ServiceSpotify,
			Owner:   "User",
		},
		Tracks: []models.Track{
			{Artist: "ArtistX", Title: "Song1", Album: "Album1", Duration: 241, ExternalIDs: map[string]string{"spotify": "t1"}},
			{Artist: "ArtistY", Title: "Song2", Duration: 180},
			{Artist: "ArtistZ", Title: "Song3"},
		},
	}
}

func TestSnapshotRepository(t *testing.T) {
	t.Run("Save", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db)

		snapshot, err := repo.Save(sampleExport())
		if err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		if snapshot.ID == "" {
			t.Error("snapshot ID should be set after save")
		}
		if snapshot.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", snapshot.Sequence)
		}
		if snapshot.TrackCount != 3 {
			t.Errorf("expected track count 3, got %d", snapshot.TrackCount)
		}

		t.Run("nil export", func(t *testing.T) {
			if _, err := repo.Save(nil); err == nil {
				t.Error("expected error for nil export")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db)

		saved, err := repo.Save(sampleExport())
		if err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		retrieved, err := repo.Get(saved.ID)
		if err != nil {
			t.Fatalf("failed to get snapshot: %v", err)
		}
		if retrieved.CollectionName != "Morning Mix" {
			t.Errorf("expected collection name 'Morning Mix', got %s", retrieved.CollectionName)
		}
		if retrieved.Service != models.ServiceSpotify {
			t.Errorf("expected service spotify, got %s", retrieved.Service)
		}
		if retrieved.Owner != "User" {
			t.Errorf("expected owner 'User', got %s", retrieved.Owner)
		}

		t.Run("missing snapshot", func(t *testing.T) {
			if _, err := repo.Get("nonexistent"); err == nil {
				t.Error("expected error for missing snapshot")
			}
		})
	})

	t.Run("Export", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db)

		saved, err := repo.Save(sampleExport())
		if err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		export, err := repo.Export(saved.ID)
		if err != nil {
			t.Fatalf("failed to rebuild export: %v", err)
		}

		if export.Collection.ID != "pl1" {
			t.Errorf("expected collection pl1, got %s", export.Collection.ID)
		}
		if len(export.Tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(export.Tracks))
		}

		want := []string{"Song1", "Song2", "Song3"}
		for i, w := range want {
			if export.Tracks[i].Title != w {
				t.Errorf("track %d: expected %s, got %s", i, w, export.Tracks[i].Title)
			}
		}
		if export.Tracks[0].Duration != 241 || export.Tracks[0].Album != "Album1" {
			t.Errorf("track fields not round-tripped: %+v", export.Tracks[0])
		}
		if export.Tracks[0].ExternalID(models.ServiceSpotify) != "t1" {
			t.Errorf("expected external ID t1, got %v", export.Tracks[0].ExternalIDs)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db)

		first := sampleExport()
		if _, err := repo.Save(first); err != nil {
			t.Fatalf("failed to save first snapshot: %v", err)
		}

		second := sampleExport()
		second.Collection.Service = models.ServiceLastFM
		second.Collection.Name = "Loved Tracks"
		if _, err := repo.Save(second); err != nil {
			t.Fatalf("failed to save second snapshot: %v", err)
		}

		all, err := repo.List("")
		if err != nil {
			t.Fatalf("failed to list snapshots: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 snapshots, got %d", len(all))
		}
		if all[0].Sequence > all[1].Sequence {
			t.Error("expected snapshots ordered by sequence")
		}

		lastfm, err := repo.List(models.ServiceLastFM)
		if err != nil {
			t.Fatalf("failed to list filtered snapshots: %v", err)
		}
		if len(lastfm) != 1 || lastfm[0].CollectionName != "Loved Tracks" {
			t.Errorf("unexpected filtered result: %+v", lastfm)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db)

		saved, err := repo.Save(sampleExport())
		if err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		if err := repo.Delete(saved.ID); err != nil {
			t.Fatalf("failed to delete snapshot: %v", err)
		}
		if _, err := repo.Get(saved.ID); err == nil {
			t.Error("expected error after delete")
		}

		var trackCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM snapshot_tracks WHERE snapshot_id = ?", saved.ID).Scan(&trackCount); err != nil {
			t.Fatalf("failed to count tracks: %v", err)
		}
		if trackCount != 0 {
			t.Errorf("expected 0 orphaned tracks, got %d", trackCount)
		}

		t.Run("missing snapshot", func(t *testing.T) {
			if err := repo.Delete("nonexistent"); err == nil {
				t.Error("expected error for missing snapshot")
			}
		})
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "snapshots")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "snapshots")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected consecutive sequences, got %d then %d", first, second)
	}
}
