// Package extractor turns discovered file paths into typed media records by
// querying the completion oracle in bounded batches.
package extractor

import (
	"context"
	"log/slog"
	"strings"

	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/oracle"
)

// DefaultBatchSize bounds the paths submitted per oracle call to keep token
// usage per request predictable.
const DefaultBatchSize = 30

// CompletionClient is the oracle surface the extractor needs.
type CompletionClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Extractor batches paths, queries the oracle, and builds media records from
// the parsed responses.
type Extractor struct {
	client    CompletionClient
	batchSize int
	logger    *slog.Logger
}

// New constructs an extractor. A batchSize of zero or less selects the
// default.
func New(client CompletionClient, batchSize int, logger *slog.Logger) *Extractor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		client:    client,
		batchSize: batchSize,
		logger:    logger.With(logging.String(logging.FieldComponent, "extractor")),
	}
}

// Extract derives one record per input path, heuristically, preserving the
// input order across batches. Batches are issued sequentially, one call in
// flight, to respect external rate and cost limits. A failed batch (a
// transport error or an unparseable payload) contributes zero records and
// is logged for manual re-extraction; sibling batches still run. Only
// context cancellation aborts the loop.
func (e *Extractor) Extract(ctx context.Context, t media.Type, paths []string) ([]media.Media, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	prompt := PromptFor(t)

	var records []media.Media
	for start := 0; start < len(paths); start += e.batchSize {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		end := min(start+e.batchSize, len(paths))
		batch := paths[start:end]

		batchRecords, err := e.extractBatch(ctx, prompt, batch)
		if err != nil {
			e.logger.Error("batch extraction failed",
				logging.String(logging.FieldVideoType, string(t)),
				logging.Int("batch_start", start),
				logging.Int("batch_size", len(batch)),
				logging.Error(err),
			)
			continue
		}
		records = append(records, batchRecords...)
	}
	return records, nil
}

// extractBatch performs one oracle call and converts its payload. The
// returned records follow the oracle's array order, which the prompt pins to
// the input order.
func (e *Extractor) extractBatch(ctx context.Context, prompt string, batch []string) ([]media.Media, error) {
	content, err := e.client.CompleteJSON(ctx, prompt, strings.Join(batch, "\n"))
	if err != nil {
		return nil, err
	}

	objects, err := oracle.ExtractObjectArray(content)
	if err != nil {
		return nil, err
	}
	if len(objects) != len(batch) {
		e.logger.Warn("oracle returned unexpected record count",
			logging.Int("want", len(batch)),
			logging.Int("got", len(objects)),
		)
	}

	records := make([]media.Media, 0, len(objects))
	for _, obj := range objects {
		record, factoryErr := media.FromObject(obj)
		if factoryErr != nil {
			e.logger.Warn("dropping malformed oracle object", logging.Error(factoryErr))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
