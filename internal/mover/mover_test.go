package mover_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shelf/internal/config"
	"shelf/internal/fileutil"
	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/mover"
	"shelf/internal/services"
	"shelf/internal/staging"
	"shelf/internal/store"
	"shelf/internal/testsupport"
	"shelf/internal/validation"
)

type fixture struct {
	cfg   *config.Config
	zones *store.Zones
	mover *mover.Mover
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	zones := testsupport.MustOpenZones(t, cfg)
	return &fixture{
		cfg:   cfg,
		zones: zones,
		mover: mover.New(cfg, zones, logging.NewNop()),
	}
}

// stageMovie writes a staging file and its database row, returning the
// validation record an operator would submit untouched.
func (f *fixture) stageMovie(t *testing.T, name, title string, year int) validation.Record {
	t.Helper()
	path := filepath.Join(f.cfg.Paths.StagingDir, "movies", name)
	testsupport.WriteFile(t, path, 64)

	m := media.Media{Type: media.TypeMovie, FilePath: path, Title: title, ReleaseYear: &year}
	indexer := staging.NewIndexer(f.zones.Staging, logging.NewNop())
	if _, err := indexer.IndexBatch(context.Background(), media.DescriptorFor(media.TypeMovie), []media.Media{m}); err != nil {
		t.Fatalf("stage %s: %v", name, err)
	}
	return validation.Record{SourcePath: path, Media: m}
}

func responseFor(records ...validation.Record) *validation.Response {
	return &validation.Response{Tables: map[string][]validation.Record{
		"movies": records,
	}}
}

func TestPromoteMovesFileAndRowTogether(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.stageMovie(t, "the.matrix.mkv", "The Matrix", 1999)

	if err := f.mover.Promote(ctx, responseFor(record)); err != nil {
		t.Fatalf("Promote: %v", err)
	}

	dest := filepath.Join(f.cfg.Paths.ProductionDir, "movies", "the.matrix.mkv")
	if !fileutil.Exists(dest) {
		t.Fatalf("file missing from production zone: %s", dest)
	}
	if fileutil.Exists(record.SourcePath) {
		t.Fatal("file still present in staging")
	}

	rows, err := f.zones.Production.SelectAll(ctx, media.DescriptorFor(media.TypeMovie))
	if err != nil {
		t.Fatalf("read production table: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 production row, got %d", len(rows))
	}
	if rows[0].FilePath != dest {
		t.Fatalf("production row path %q, expected %q", rows[0].FilePath, dest)
	}
	if rows[0].Title != "The Matrix" {
		t.Fatalf("production row title %q", rows[0].Title)
	}

	stagingRows, err := f.zones.Staging.SelectAll(ctx, media.DescriptorFor(media.TypeMovie))
	if err != nil {
		t.Fatalf("read staging table: %v", err)
	}
	if len(stagingRows) != 0 {
		t.Fatalf("staging row survived promotion: %v", stagingRows)
	}
}

func TestRejectMovesIntoRejectionZone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.stageMovie(t, "dud.mkv", "Dud", 2001)

	if err := f.mover.Reject(ctx, responseFor(record)); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	dest := filepath.Join(f.cfg.Paths.RejectionDir, "movies", "dud.mkv")
	if !fileutil.Exists(dest) {
		t.Fatalf("file missing from rejection zone: %s", dest)
	}
	rows, err := f.zones.Rejection.SelectAll(ctx, media.DescriptorFor(media.TypeMovie))
	if err != nil {
		t.Fatalf("read rejection table: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 rejection row, got %d", len(rows))
	}
}

func TestPromoteJoinsByCorrelationKeyAfterPathEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.stageMovie(t, "misnamed.mkv", "Proper Title", 1984)

	// The operator renamed the staged file and updated filePath, keeping
	// sourcePath as the join key.
	edited := filepath.Join(f.cfg.Paths.StagingDir, "movies", "proper.title.mkv")
	if err := fileutil.MoveFile(record.FilePath, edited); err != nil {
		t.Fatalf("rename staged file: %v", err)
	}
	record.FilePath = edited

	if err := f.mover.Promote(ctx, responseFor(record)); err != nil {
		t.Fatalf("Promote: %v", err)
	}

	dest := filepath.Join(f.cfg.Paths.ProductionDir, "movies", "proper.title.mkv")
	if !fileutil.Exists(dest) {
		t.Fatalf("renamed file missing from production zone: %s", dest)
	}
	stagingRows, err := f.zones.Staging.SelectAll(ctx, media.DescriptorFor(media.TypeMovie))
	if err != nil {
		t.Fatalf("read staging table: %v", err)
	}
	if len(stagingRows) != 0 {
		t.Fatalf("staging row keyed by sourcePath should be gone, got %v", stagingRows)
	}
}

func TestPromoteMissingFileIsNotFound(t *testing.T) {
	f := newFixture(t)
	record := f.stageMovie(t, "ghost.mkv", "Ghost", 1990)
	record.FilePath = filepath.Join(f.cfg.Paths.StagingDir, "movies", "gone.mkv")

	err := f.mover.Promote(context.Background(), responseFor(record))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Nothing moved; the staging row must survive.
	rows, readErr := f.zones.Staging.SelectAll(context.Background(), media.DescriptorFor(media.TypeMovie))
	if readErr != nil {
		t.Fatalf("read staging table: %v", readErr)
	}
	if len(rows) != 1 {
		t.Fatalf("staging row should survive a failed move, got %d rows", len(rows))
	}
}

func TestPromoteOccupiedDestinationIsRejected(t *testing.T) {
	f := newFixture(t)
	record := f.stageMovie(t, "clash.mkv", "Clash", 2000)
	testsupport.WriteFile(t, filepath.Join(f.cfg.Paths.ProductionDir, "movies", "clash.mkv"), 8)

	err := f.mover.Promote(context.Background(), responseFor(record))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for occupied destination, got %v", err)
	}
}

func TestPromoteMissingStagingRowIsStateUnclear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.stageMovie(t, "orphan.mkv", "Orphan", 2010)

	// Simulate an out-of-band deletion of the staging row.
	if _, err := f.zones.Staging.DeleteByFilePath(ctx, "movies", record.SourcePath); err != nil {
		t.Fatalf("delete staging row: %v", err)
	}

	err := f.mover.Promote(ctx, responseFor(record))
	if !errors.Is(err, services.ErrConsistency) {
		t.Fatalf("expected ErrConsistency, got %v", err)
	}
}

func TestPromotePartialFailureReportsMigratedCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	good := f.stageMovie(t, "good.mkv", "Good", 1999)
	bad := f.stageMovie(t, "bad.mkv", "Bad", 2001)
	bad.FilePath = filepath.Join(f.cfg.Paths.StagingDir, "movies", "vanished.mkv")

	err := f.mover.Promote(ctx, responseFor(good, bad))
	if !errors.Is(err, services.ErrConsistency) {
		t.Fatalf("expected ErrConsistency for mid-table abort, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected the underlying cause preserved, got %v", err)
	}

	// The first record migrated before the abort.
	if !fileutil.Exists(filepath.Join(f.cfg.Paths.ProductionDir, "movies", "good.mkv")) {
		t.Fatal("migrated record should stay migrated")
	}
}

func TestPromotePrunesEmptiedStagingDirs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.stageMovie(t, "solo.mkv", "Solo", 2018)

	if err := f.mover.Promote(ctx, responseFor(record)); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.StagingDir, "movies")); !os.IsNotExist(err) {
		t.Fatal("expected emptied movies staging dir to be pruned")
	}
}
