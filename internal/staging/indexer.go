// Package staging owns the write and read paths of the staging zone: batch
// indexing of freshly extracted records, duplicate filtering against every
// variant table, and cleanup of emptied staging directories.
package staging

import (
	"context"
	"log/slog"

	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/services"
	"shelf/internal/store"
)

// Indexer persists extracted records into the staging database.
type Indexer struct {
	store  *store.Store
	logger *slog.Logger
}

// NewIndexer constructs an indexer over the staging store.
func NewIndexer(st *store.Store, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Indexer{store: st, logger: logger.With(logging.String(logging.FieldComponent, "staging"))}
}

// IndexBatch provisions the variant table when missing and inserts every
// record of the batch. Returns the number of rows inserted; zero is not an
// error. Table creation and insertion are independent steps, so an empty
// table left by an interrupted run is reused on retry.
func (i *Indexer) IndexBatch(ctx context.Context, desc media.Descriptor, batch []media.Media) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	if err := i.store.EnsureTable(ctx, desc); err != nil {
		return 0, services.Wrap(services.ErrTransient, "staging", "ensure table", "Failed to provision staging table", err)
	}

	inserted := 0
	for _, record := range batch {
		if !record.ShapeValid() {
			i.logger.Warn("dropping record without file path",
				logging.String(logging.FieldTable, desc.Table),
			)
			continue
		}
		if err := i.store.Insert(ctx, record); err != nil {
			return inserted, services.Wrap(services.ErrTransient, "staging", "insert record", record.FilePath, err)
		}
		inserted++
	}
	i.logger.Info("indexed staging batch",
		logging.String(logging.FieldTable, desc.Table),
		logging.Int("count", inserted),
	)
	return inserted, nil
}

// RemoveAlreadyIndexed filters out paths already present in any variant
// table of the staging database, preserving input order. A failed lookup
// aborts the whole filter: proceeding would re-extract (and re-bill)
// metadata the pipeline cannot know is persisted.
func (i *Indexer) RemoveAlreadyIndexed(ctx context.Context, paths []string) ([]string, error) {
	tables := media.Tables()
	fresh := make([]string, 0, len(paths))

	for _, path := range paths {
		indexed := false
		for _, table := range tables {
			found, err := i.store.ContainsFilePath(ctx, table, path)
			if err != nil {
				return nil, services.Wrap(services.ErrTransient, "staging", "duplicate lookup", path, err)
			}
			if found {
				indexed = true
				break
			}
		}
		if !indexed {
			fresh = append(fresh, path)
		}
	}
	return fresh, nil
}
