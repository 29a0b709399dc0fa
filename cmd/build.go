package main

import (
	"context"
	"fmt"

	"github.com/soundtable/soundtable/internal/formatter"
	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/repositories"
	"github.com/soundtable/soundtable/internal/shared"
	"github.com/soundtable/soundtable/internal/tasks"
	"github.com/urfave/cli/v3"
)

// BuildRun fetches one or more collections and renders them into Tabletop
// Simulator music player files. With --snapshot it renders a saved snapshot
// instead of fetching.
func (r *Runner) BuildRun(ctx context.Context, cmd *cli.Command) error {
	snapshotID := cmd.String("snapshot")
	ids := cmd.StringSlice("id")

	var export *models.CollectionExport
	var err error

	switch {
	case snapshotID != "":
		export, err = r.snapshotExport(snapshotID)
	case len(ids) > 0:
		export, err = r.fetchExport(ctx, cmd, ids)
	default:
		return fmt.Errorf("%w: either --id or --snapshot", shared.ErrMissingArgument)
	}
	if err != nil {
		return err
	}

	opts := formatter.PlayerOpts{
		PlayerName: cmd.String("name"),
		Volume:     cmd.Float("volume"),
		Pitch:      cmd.Float("pitch"),
	}
	if opts.PlayerName == "" {
		opts.PlayerName = r.config.Output.PlayerName
	}
	if opts.Volume <= 0 {
		opts.Volume = r.config.Output.Volume
	}
	if opts.Pitch <= 0 {
		opts.Pitch = r.config.Output.Pitch
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = r.config.Output.Path
	}

	player := formatter.NewMusicPlayer(export, opts)
	result, err := formatter.WriteOutput(player, outputDir)
	if err != nil {
		return err
	}

	r.logger.Info("build complete", "tracks", len(player.Playlist), "dir", result.Directory)

	r.writePlainHeader(fmt.Sprintf("Built %s (%d tracks)", player.Name, len(player.Playlist)))
	for _, path := range result.Files() {
		r.writePlain("  %s\n", path)
	}
	return nil
}

// snapshotExport rebuilds an export from the snapshot database.
func (r *Runner) snapshotExport(snapshotID string) (*models.CollectionExport, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return repositories.NewSnapshotRepository(db).Export(snapshotID)
}

// fetchExport fetches the named collections live, concatenating multiple
// collections in flag order.
func (r *Runner) fetchExport(ctx context.Context, cmd *cli.Command, ids []string) (*models.CollectionExport, error) {
	serviceType, err := r.parseServiceArg(cmd)
	if err != nil {
		return nil, err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			r.writePlain("  %s\n", update.Message)
		}
	}()
	defer func() {
		close(progressCh)
		<-drained
	}()

	if len(ids) == 1 {
		return r.loader.LoadExport(ctx, serviceType, ids[0], progressCh)
	}

	requests := make([]tasks.FetchRequest, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, tasks.FetchRequest{Service: serviceType, CollectionID: id})
	}

	result, err := r.loader.BulkFetch(ctx, progressCh, requests, tasks.BulkFetchOpts{
		NumWorkers: int(cmd.Int("workers")),
	})
	if err != nil {
		return nil, err
	}
	if result.SuccessfulFetches == 0 {
		return nil, fmt.Errorf("all %d fetches failed, first error: %w", result.TotalCollections, result.Results[0].Error)
	}
	for _, res := range result.Results {
		if !res.Success {
			r.logger.Warn("fetch failed", "collection", res.Request.CollectionID, "error", res.Error)
		}
	}

	tracks := result.Tracks()
	return &models.CollectionExport{
		Collection: models.CollectionInfo{
			ID:         ids[0],
			Name:       fmt.Sprintf("%d collections", len(ids)),
			Service:    serviceType,
			TrackCount: len(tracks),
		},
		Tracks: tracks,
	}, nil
}
