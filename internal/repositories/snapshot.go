package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
)

// Snapshot records the metadata of one saved collection fetch.
type Snapshot struct {
	ID             string             `json:"id"`
	Sequence       int                `json:"sequence"`
	Service        models.ServiceType `json:"service"`
	CollectionID   string             `json:"collection_id"`
	CollectionName string             `json:"collection_name"`
	Owner          string             `json:"owner,omitempty"`
	TrackCount     int                `json:"track_count"`
	CreatedAt      time.Time          `json:"created_at"`
}

// SnapshotRepository persists collection exports and their ordered tracks.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save inserts a snapshot of the export with a generated ID and sequence.
// The snapshot row and all track rows commit in a single transaction.
func (r *SnapshotRepository) Save(export *models.CollectionExport) (*Snapshot, error) {
	if export == nil {
		return nil, fmt.Errorf("%w: nil export", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(r.db, "snapshots")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	snapshot := &Snapshot{
		ID:             shared.GenerateID(),
		Sequence:       sequence,
		Service:        export.Collection.Service,
		CollectionID:   export.Collection.ID,
		CollectionName: export.Collection.Name,
		Owner:          export.Collection.Owner,
		TrackCount:     len(export.Tracks),
		CreatedAt:      time.Now(),
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO snapshots (id, sequence, service, collection_id, collection_name, owner, track_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		snapshot.ID,
		snapshot.Sequence,
		string(snapshot.Service),
		snapshot.CollectionID,
		snapshot.CollectionName,
		snapshot.Owner,
		snapshot.TrackCount,
		snapshot.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for position, track := range export.Tracks {
		_, err = tx.Exec(`
			INSERT INTO snapshot_tracks (id, snapshot_id, position, artist, title, album, duration, source_url, external_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			shared.GenerateID(),
			snapshot.ID,
			position,
			track.Artist,
			track.Title,
			track.Album,
			track.Duration,
			track.SourceURL,
			track.ExternalID(snapshot.Service),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert snapshot track %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return snapshot, nil
}

// Get retrieves a snapshot's metadata by ID.
func (r *SnapshotRepository) Get(id string) (*Snapshot, error) {
	row := r.db.QueryRow(`
		SELECT id, sequence, service, collection_id, collection_name, owner, track_count, created_at
		FROM snapshots
		WHERE id = ?
	`, id)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Export rebuilds the full collection export from a saved snapshot, tracks in
// their original order.
func (r *SnapshotRepository) Export(id string) (*models.CollectionExport, error) {
	snapshot, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT artist, title, album, duration, source_url, external_id
		FROM snapshot_tracks
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		var (
			track      models.Track
			album      sql.NullString
			sourceURL  sql.NullString
			externalID sql.NullString
		)
		if err := rows.Scan(&track.Artist, &track.Title, &album, &track.Duration, &sourceURL, &externalID); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot track: %w", err)
		}
		track.Album = album.String
		track.SourceURL = sourceURL.String
		if externalID.String != "" {
			track.ExternalIDs = map[string]string{string(snapshot.Service): externalID.String}
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &models.CollectionExport{
		Collection: models.CollectionInfo{
			ID:         snapshot.CollectionID,
			Name:       snapshot.CollectionName,
			Service:    snapshot.Service,
			TrackCount: snapshot.TrackCount,
			Owner:      snapshot.Owner,
		},
		Tracks: tracks,
	}, nil
}

// List retrieves snapshot metadata in save order, optionally filtered by service.
func (r *SnapshotRepository) List(service models.ServiceType) ([]*Snapshot, error) {
	query := `
		SELECT id, sequence, service, collection_id, collection_name, owner, track_count, created_at
		FROM snapshots
	`
	args := []any{}
	if service != "" {
		query += " WHERE service = ?"
		args = append(args, string(service))
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

// Delete removes a snapshot and its tracks.
func (r *SnapshotRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Tracks are removed explicitly rather than relying on the cascade,
	// which only fires when the foreign_keys pragma is enabled.
	if _, err := tx.Exec("DELETE FROM snapshot_tracks WHERE snapshot_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete snapshot tracks: %w", err)
	}

	result, err := tx.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("snapshot not found: %s", id)
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var (
		snapshot Snapshot
		service  string
		owner    sql.NullString
	)

	err := row.Scan(
		&snapshot.ID,
		&snapshot.Sequence,
		&service,
		&snapshot.CollectionID,
		&snapshot.CollectionName,
		&owner,
		&snapshot.TrackCount,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snapshot.Service = models.ServiceType(service)
	snapshot.Owner = owner.String
	return &snapshot, nil
}
