// Package pipeline drives the ingestion and promotion runs end to end:
// scan, duplicate filter, extraction, staging on the way in; validation and
// zone moves on the way out. Runs are serialized by a file lock so at most
// one mutating job touches the zones at a time.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"shelf/internal/config"
	"shelf/internal/extractor"
	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/mover"
	"shelf/internal/scanner"
	"shelf/internal/services"
	"shelf/internal/staging"
	"shelf/internal/store"
	"shelf/internal/validation"
)

// Pipeline wires the ingestion and promotion stages over the zone stores.
type Pipeline struct {
	cfg       *config.Config
	zones     *store.Zones
	extractor *extractor.Extractor
	indexer   *staging.Indexer
	mover     *mover.Mover
	logger    *slog.Logger
	lock      *flock.Flock
}

// New constructs the pipeline. The completion client may be nil when only
// the promotion path is exercised; ingestion then fails with a
// configuration error.
func New(cfg *config.Config, zones *store.Zones, client extractor.CompletionClient, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	var ext *extractor.Extractor
	if client != nil {
		ext = extractor.New(client, cfg.Ingest.BatchSize, logger)
	}
	return &Pipeline{
		cfg:       cfg,
		zones:     zones,
		extractor: ext,
		indexer:   staging.NewIndexer(zones.Staging, logger),
		mover:     mover.New(cfg, zones, logger),
		logger:    logger.With(logging.String(logging.FieldComponent, "pipeline")),
		lock:      flock.New(filepath.Join(cfg.Paths.LogDir, "shelf.lock")),
	}
}

// IngestResult summarizes one variant's ingestion run.
type IngestResult struct {
	Type      media.Type `json:"videoType"`
	Scanned   int        `json:"scanned"`
	Fresh     int        `json:"fresh"`
	Extracted int        `json:"extracted"`
	Indexed   int        `json:"indexed"`
}

// Ingest runs the ingestion path for one variant: scan the variant's
// staging directory, drop already-indexed paths, derive metadata, persist
// candidate rows.
func (p *Pipeline) Ingest(ctx context.Context, t media.Type) (IngestResult, error) {
	result := IngestResult{Type: t}

	release, err := p.acquireRunLock()
	if err != nil {
		return result, err
	}
	defer release()

	return p.ingestLocked(ctx, t)
}

// IngestAll runs every variant sequentially. A failed variant does not stop
// its siblings; their errors are joined and reported together.
func (p *Pipeline) IngestAll(ctx context.Context) ([]IngestResult, error) {
	release, err := p.acquireRunLock()
	if err != nil {
		return nil, err
	}
	defer release()

	var results []IngestResult
	var errs []error
	for _, t := range media.Types() {
		result, err := p.ingestLocked(ctx, t)
		results = append(results, result)
		if err != nil {
			if ctx.Err() != nil {
				return results, err
			}
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

func (p *Pipeline) ingestLocked(ctx context.Context, t media.Type) (IngestResult, error) {
	result := IngestResult{Type: t}
	ctx = services.WithStage(ctx, "ingest")
	logger := logging.WithContext(ctx, p.logger)

	if p.extractor == nil {
		return result, services.Wrap(services.ErrConfiguration, "ingest", "check oracle", "No completion client configured", nil)
	}
	if err := p.cfg.RequireLLM(); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "ingest", "check oracle", "Oracle credentials missing", err)
	}

	desc := media.DescriptorFor(t)
	root := filepath.Join(p.cfg.Paths.StagingDir, desc.Subdir)
	paths := scanner.Scan(root, desc.Extensions, p.logger)
	result.Scanned = len(paths)
	if len(paths) == 0 {
		return result, nil
	}

	fresh, err := p.indexer.RemoveAlreadyIndexed(ctx, paths)
	if err != nil {
		return result, err
	}
	result.Fresh = len(fresh)
	if len(fresh) == 0 {
		logger.Info("no new files discovered", logging.String(logging.FieldVideoType, string(t)))
		return result, nil
	}

	records, err := p.extractor.Extract(ctx, t, fresh)
	if err != nil {
		return result, services.Wrap(services.ErrExternalService, "ingest", "extract metadata", string(t), err)
	}
	result.Extracted = len(records)

	for _, batch := range groupByType(records) {
		count, err := p.indexer.IndexBatch(ctx, media.DescriptorFor(batch[0].Type), batch)
		result.Indexed += count
		if err != nil {
			return result, err
		}
	}

	logger.Info("ingestion run complete",
		logging.String(logging.FieldVideoType, string(t)),
		logging.Int("scanned", result.Scanned),
		logging.Int("fresh", result.Fresh),
		logging.Int("indexed", result.Indexed),
	)
	return result, nil
}

// Pending assembles the current validation request from the staging zone.
// Read-only, so it runs without the pipeline lock.
func (p *Pipeline) Pending(ctx context.Context) (validation.Request, error) {
	return validation.BuildRequest(ctx, p.zones.Staging, p.logger)
}

// Accept validates the operator's response and promotes its records to the
// production zone.
func (p *Pipeline) Accept(ctx context.Context, resp *validation.Response) error {
	return p.resolve(ctx, resp, p.mover.Promote)
}

// Reject validates the operator's response and moves its records to the
// rejection zone.
func (p *Pipeline) Reject(ctx context.Context, resp *validation.Response) error {
	return p.resolve(ctx, resp, p.mover.Reject)
}

func (p *Pipeline) resolve(ctx context.Context, resp *validation.Response, move func(context.Context, *validation.Response) error) error {
	release, err := p.acquireRunLock()
	if err != nil {
		return err
	}
	defer release()

	resp.Normalize()
	if err := resp.Validate(); err != nil {
		return err
	}
	return move(services.WithStage(ctx, "resolve"), resp)
}

// acquireRunLock serializes mutating runs. Contention is an immediate
// error; callers retry on their own schedule rather than queueing.
func (p *Pipeline) acquireRunLock() (func(), error) {
	ok, err := p.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "acquire run lock", p.lock.Path(), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "pipeline", "acquire run lock", "Another run is active", nil)
	}
	return func() {
		if err := p.lock.Unlock(); err != nil {
			p.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}, nil
}

// groupByType splits extracted records into single-variant batches,
// preserving relative order within each batch.
func groupByType(records []media.Media) [][]media.Media {
	index := make(map[media.Type]int)
	var groups [][]media.Media
	for _, record := range records {
		at, ok := index[record.Type]
		if !ok {
			at = len(groups)
			index[record.Type] = at
			groups = append(groups, nil)
		}
		groups[at] = append(groups[at], record)
	}
	return groups
}
