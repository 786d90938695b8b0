package staging_test

import (
	"context"
	"testing"

	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/staging"
	"shelf/internal/store"
	"shelf/internal/testsupport"
)

func newIndexer(t *testing.T) (*staging.Indexer, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg, store.ZoneStaging)
	return staging.NewIndexer(st, logging.NewNop()), st
}

func TestIndexBatchInsertsRecords(t *testing.T) {
	indexer, st := newIndexer(t)
	ctx := context.Background()
	desc := media.DescriptorFor(media.TypeMovie)
	year := 1999
	batch := []media.Media{
		{Type: media.TypeMovie, FilePath: "/staging/movies/a.mkv", Title: "A", ReleaseYear: &year},
		{Type: media.TypeMovie, FilePath: "/staging/movies/b.mkv"},
	}

	count, err := indexer.IndexBatch(ctx, desc, batch)
	if err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 inserted, got %d", count)
	}

	records, err := st.SelectAll(ctx, desc)
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
}

func TestIndexBatchDropsShapeInvalidRecords(t *testing.T) {
	indexer, _ := newIndexer(t)
	ctx := context.Background()
	desc := media.DescriptorFor(media.TypeMovie)
	batch := []media.Media{
		{Type: media.TypeMovie, Title: "no path"},
		{Type: media.TypeMovie, FilePath: "/staging/movies/ok.mkv", Title: "OK"},
	}

	count, err := indexer.IndexBatch(ctx, desc, batch)
	if err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 inserted, got %d", count)
	}
}

func TestIndexBatchEmptyIsNoop(t *testing.T) {
	indexer, st := newIndexer(t)
	ctx := context.Background()
	desc := media.DescriptorFor(media.TypeMovie)

	count, err := indexer.IndexBatch(ctx, desc, nil)
	if err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 inserted, got %d", count)
	}
	exists, err := st.TableExists(ctx, desc.Table)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if exists {
		t.Fatal("empty batch should not provision the table")
	}
}

func TestRemoveAlreadyIndexedFiltersAcrossTables(t *testing.T) {
	indexer, _ := newIndexer(t)
	ctx := context.Background()

	movieDesc := media.DescriptorFor(media.TypeMovie)
	showDesc := media.DescriptorFor(media.TypeShow)
	if _, err := indexer.IndexBatch(ctx, movieDesc, []media.Media{
		{Type: media.TypeMovie, FilePath: "/staging/movies/seen.mkv", Title: "Seen"},
	}); err != nil {
		t.Fatalf("seed movie: %v", err)
	}
	if _, err := indexer.IndexBatch(ctx, showDesc, []media.Media{
		{Type: media.TypeShow, FilePath: "/staging/shows/seen.mkv", Title: "Seen"},
	}); err != nil {
		t.Fatalf("seed show: %v", err)
	}

	paths := []string{
		"/staging/movies/seen.mkv",
		"/staging/movies/new.mkv",
		"/staging/shows/seen.mkv",
		"/staging/shows/new.mkv",
	}
	fresh, err := indexer.RemoveAlreadyIndexed(ctx, paths)
	if err != nil {
		t.Fatalf("RemoveAlreadyIndexed: %v", err)
	}
	expected := []string{"/staging/movies/new.mkv", "/staging/shows/new.mkv"}
	if len(fresh) != len(expected) {
		t.Fatalf("fresh = %v, expected %v", fresh, expected)
	}
	for i := range expected {
		if fresh[i] != expected[i] {
			t.Fatalf("fresh[%d] = %q, expected %q", i, fresh[i], expected[i])
		}
	}

	// A second pass over the same inputs filters the same set again.
	again, err := indexer.RemoveAlreadyIndexed(ctx, paths)
	if err != nil {
		t.Fatalf("second RemoveAlreadyIndexed: %v", err)
	}
	if len(again) != len(fresh) {
		t.Fatalf("repeat filter diverged: %v vs %v", again, fresh)
	}
}

func TestRemoveAlreadyIndexedEmptyDatabase(t *testing.T) {
	indexer, _ := newIndexer(t)
	paths := []string{"/staging/movies/a.mkv", "/staging/movies/b.mkv"}

	fresh, err := indexer.RemoveAlreadyIndexed(context.Background(), paths)
	if err != nil {
		t.Fatalf("RemoveAlreadyIndexed: %v", err)
	}
	if len(fresh) != len(paths) {
		t.Fatalf("expected all paths fresh against an empty database, got %v", fresh)
	}
}
