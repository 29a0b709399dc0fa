package main

import (
	"context"
	"fmt"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/repositories"
	"github.com/soundtable/soundtable/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheList lists saved snapshots, optionally filtered by service.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	var serviceType models.ServiceType
	if raw := cmd.String("service"); raw != "" {
		parsed, err := models.ParseServiceType(raw)
		if err != nil {
			return err
		}
		serviceType = parsed
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	snapshots, err := repositories.NewSnapshotRepository(db).List(serviceType)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshots, true)
	}

	r.writePlainHeader("Saved Snapshots")
	if len(snapshots) == 0 {
		r.writePlain("No snapshots saved. Use 'soundtable tracks <service> --id <id> --save'.\n")
		return nil
	}
	for _, snapshot := range snapshots {
		r.writePlain("%s  [%s] %s (%d tracks) %s\n",
			snapshot.ID,
			snapshot.Service,
			snapshot.CollectionName,
			snapshot.TrackCount,
			snapshot.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

// CacheShow prints a saved snapshot with its tracks.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	snapshotID := cmd.StringArg("id")
	if snapshotID == "" {
		return fmt.Errorf("%w: snapshot id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	export, err := repositories.NewSnapshotRepository(db).Export(snapshotID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, true)
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

// CacheDelete removes a saved snapshot.
func (r *Runner) CacheDelete(ctx context.Context, cmd *cli.Command) error {
	snapshotID := cmd.StringArg("id")
	if snapshotID == "" {
		return fmt.Errorf("%w: snapshot id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewSnapshotRepository(db).Delete(snapshotID); err != nil {
		return err
	}

	r.logger.Info("snapshot deleted", "id", snapshotID)
	r.writePlain("✓ Snapshot deleted: %s\n", snapshotID)
	return nil
}
