package main

import (
	"context"
	"fmt"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/repositories"
	"github.com/soundtable/soundtable/internal/shared"
	"github.com/soundtable/soundtable/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CollectionsList lists the collections of one service.
func (r *Runner) CollectionsList(ctx context.Context, cmd *cli.Command) error {
	serviceType, err := r.parseServiceArg(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("listing collections", "service", serviceType)

	collections, err := r.loader.LoadCollections(ctx, serviceType, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(collections, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Collections on %s", serviceType))
	if len(collections) == 0 {
		r.writePlain("No collections found.\n")
		return nil
	}
	for _, collection := range collections {
		r.writePlain("%-36s %s", collection.ID, collection.Name)
		if collection.TrackCount > 0 {
			r.writePlain(" (%d tracks)", collection.TrackCount)
		}
		r.writePlain("\n")
	}
	return nil
}

// TracksList fetches and prints the tracks of one collection, optionally
// saving a snapshot.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	serviceType, err := r.parseServiceArg(cmd)
	if err != nil {
		return err
	}
	collectionID := cmd.String("id")

	r.logger.Info("fetching tracks", "service", serviceType, "collection", collectionID)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}()

	export, err := r.loader.LoadExport(ctx, serviceType, collectionID, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	if cmd.Bool("save") {
		if err := r.saveSnapshot(export); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d tracks)", export.Collection.Name, len(export.Tracks)))
	for i, track := range export.Tracks {
		r.writePlain("%3d. %s", i+1, track.String())
		if track.Duration > 0 {
			r.writePlain(" [%s]", shared.FormatDuration(track.Duration))
		}
		r.writePlain("\n")
	}
	return nil
}

// SearchRun searches every configured service for public collections.
func (r *Runner) SearchRun(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	limit := int(cmd.Int("limit"))

	r.logger.Info("searching services", "query", query, "limit", limit)

	results, err := r.loader.Search(ctx, query, limit, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	if len(results) == 0 {
		r.writePlain("No collections found.\n")
		return nil
	}
	for _, collection := range results {
		r.writePlain("[%s] %-36s %s", collection.Service, collection.ID, collection.Name)
		if collection.Owner != "" {
			r.writePlain(" by %s", collection.Owner)
		}
		r.writePlain("\n")
	}
	return nil
}

// saveSnapshot persists the export to the snapshot database.
func (r *Runner) saveSnapshot(export *models.CollectionExport) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	snapshot, err := repositories.NewSnapshotRepository(db).Save(export)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.Info("snapshot saved", "id", snapshot.ID, "tracks", snapshot.TrackCount)
	r.writePlain("✓ Snapshot saved: %s\n", snapshot.ID)
	return nil
}

// parseServiceArg reads and validates the "service" argument.
func (r *Runner) parseServiceArg(cmd *cli.Command) (models.ServiceType, error) {
	raw := cmd.StringArg("service")
	if raw == "" {
		return "", fmt.Errorf("%w: service (lastfm, spotify, or youtube)", shared.ErrMissingArgument)
	}
	return models.ParseServiceType(raw)
}
