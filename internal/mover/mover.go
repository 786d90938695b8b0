// Package mover relocates accepted or declined media out of staging: the
// physical file and its database row move together, and any divergence is
// surfaced as a consistency failure rather than retried.
package mover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shelf/internal/config"
	"shelf/internal/fileutil"
	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/services"
	"shelf/internal/staging"
	"shelf/internal/store"
	"shelf/internal/validation"
)

// Mover migrates validated records between lifecycle zones.
type Mover struct {
	cfg    *config.Config
	zones  *store.Zones
	logger *slog.Logger
}

// New constructs a mover over the three zone stores.
func New(cfg *config.Config, zones *store.Zones, logger *slog.Logger) *Mover {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Mover{
		cfg:    cfg,
		zones:  zones,
		logger: logger.With(logging.String(logging.FieldComponent, "mover")),
	}
}

// Promote moves every record of the response into the production zone.
func (m *Mover) Promote(ctx context.Context, resp *validation.Response) error {
	return m.moveToZone(ctx, resp, store.ZoneProduction)
}

// Reject moves every record of the response into the rejection zone.
func (m *Mover) Reject(ctx context.Context, resp *validation.Response) error {
	return m.moveToZone(ctx, resp, store.ZoneRejection)
}

// moveToZone walks the response table by table. Each record is joined to its
// staging row by sourcePath; the record's (possibly operator-edited)
// filePath names the current physical location. A record failure aborts its
// table: by then earlier records may already have migrated, so the error is
// reported as unclear state for the operator to inspect, never retried
// automatically. Emptied staging directories are pruned afterwards.
func (m *Mover) moveToZone(ctx context.Context, resp *validation.Response, zone store.Zone) error {
	target := m.zones.ForZone(zone)
	targetDir := store.DirFor(m.cfg, zone)
	if target == nil || targetDir == "" {
		return services.Wrap(services.ErrConfiguration, "moving", "resolve zone", string(zone), nil)
	}

	for _, t := range media.Types() {
		desc := media.DescriptorFor(t)
		records, ok := resp.Tables[desc.Table]
		if !ok || len(records) == 0 {
			continue
		}
		if err := m.moveTable(ctx, desc, records, target, targetDir); err != nil {
			return err
		}
		m.logger.Info("migrated table",
			logging.String(logging.FieldTable, desc.Table),
			logging.String(logging.FieldZone, string(zone)),
			logging.Int("count", len(records)),
		)
	}

	result := staging.PruneEmptyDirs(m.cfg.Paths.StagingDir, m.logger)
	if len(result.Errors) > 0 {
		m.logger.Warn("staging prune finished with errors",
			logging.Int("failed", len(result.Errors)),
		)
	}
	return nil
}

func (m *Mover) moveTable(ctx context.Context, desc media.Descriptor, records []validation.Record, target *store.Store, targetDir string) error {
	if err := target.EnsureTable(ctx, desc); err != nil {
		return services.Wrap(services.ErrTransient, "moving", "ensure target table", desc.Table, err)
	}

	destDir := filepath.Join(targetDir, desc.Subdir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "moving", "ensure target directory", destDir, err)
	}

	migrated := 0
	for _, record := range records {
		if err := m.moveRecord(ctx, desc, record, target, destDir); err != nil {
			return m.tableFailure(desc.Table, migrated, len(records), err)
		}
		migrated++
	}
	return nil
}

// moveRecord performs the four coupled steps for one record: verify the
// current file, move it, insert the target row, delete the staging row.
func (m *Mover) moveRecord(ctx context.Context, desc media.Descriptor, record validation.Record, target *store.Store, destDir string) error {
	current := record.FilePath
	if !fileutil.Exists(current) {
		return services.Wrap(services.ErrNotFound, "moving", "verify source file", current, nil)
	}

	dest := filepath.Join(destDir, filepath.Base(current))
	if fileutil.Exists(dest) {
		return services.Wrap(services.ErrValidation, "moving", "check destination",
			fmt.Sprintf("Destination already occupied: %s", dest), nil)
	}

	if err := fileutil.MoveFile(current, dest); err != nil {
		return services.Wrap(services.ErrTransient, "moving", "move file", current, err)
	}

	moved := record.Media
	moved.FilePath = dest
	if err := target.Insert(ctx, moved); err != nil {
		// The file is already at dest but no target row exists.
		return services.Wrap(services.ErrConsistency, "moving", "insert target row", dest, err)
	}

	count, err := m.zones.Staging.DeleteByFilePath(ctx, desc.Table, record.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrConsistency, "moving", "delete staging row", record.SourcePath, err)
	}
	if count != 1 {
		return services.Wrap(services.ErrConsistency, "moving", "delete staging row",
			fmt.Sprintf("Expected one staging row for %s, deleted %d", record.SourcePath, count), nil)
	}

	m.logger.Info("moved record",
		logging.String(logging.FieldTable, desc.Table),
		logging.String("from", current),
		logging.String("to", dest),
	)
	return nil
}

// tableFailure reports a mid-table abort. Once any record has migrated the
// table is in a partially moved state the operator must inspect by hand.
func (m *Mover) tableFailure(table string, migrated, total int, err error) error {
	if migrated == 0 {
		return err
	}
	return services.Wrap(services.ErrConsistency, "moving", table,
		fmt.Sprintf("State unclear: %d of %d records migrated before failure", migrated, total), err)
}
