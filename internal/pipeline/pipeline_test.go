package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"shelf/internal/config"
	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/pipeline"
	"shelf/internal/services"
	"shelf/internal/store"
	"shelf/internal/testsupport"
	"shelf/internal/validation"
)

// responseFrom echoes a pending request back unedited, the way an operator
// accepting everything as-is would.
func responseFrom(req validation.Request) *validation.Response {
	return &validation.Response{Tables: req.Tables}
}

// echoOracle answers every extraction batch with one complete movie object
// per input line.
type echoOracle struct {
	calls int
}

func (o *echoOracle) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	o.calls++
	paths := strings.Split(userPrompt, "\n")
	objects := make([]map[string]any, 0, len(paths))
	for i, path := range paths {
		objects = append(objects, map[string]any{
			"videoType":   "movie",
			"filePath":    path,
			"title":       fmt.Sprintf("Movie %d", i),
			"releaseYear": 1990 + i,
		})
	}
	payload, err := json.Marshal(objects)
	return string(payload), err
}

type fixture struct {
	cfg    *config.Config
	zones  *store.Zones
	oracle *echoOracle
	pl     *pipeline.Pipeline
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	zones := testsupport.MustOpenZones(t, cfg)
	oracle := &echoOracle{}
	return &fixture{
		cfg:    cfg,
		zones:  zones,
		oracle: oracle,
		pl:     pipeline.New(cfg, zones, oracle, logging.NewNop()),
	}
}

func (f *fixture) stageMovies(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		testsupport.WriteFile(t, filepath.Join(f.cfg.Paths.StagingDir, "movies", name), 2048)
	}
}

func TestIngestScansExtractsAndIndexes(t *testing.T) {
	f := newFixture(t)
	f.stageMovies(t, "alpha.mkv", "bravo.mkv")

	result, err := f.pl.Ingest(context.Background(), media.TypeMovie)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Scanned != 2 || result.Fresh != 2 || result.Extracted != 2 || result.Indexed != 2 {
		t.Fatalf("unexpected counters: %+v", result)
	}

	rows, err := f.zones.Staging.SelectAll(context.Background(), media.DescriptorFor(media.TypeMovie))
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 staged rows, got %d", len(rows))
	}
}

func TestIngestSecondRunSkipsIndexedFiles(t *testing.T) {
	f := newFixture(t)
	f.stageMovies(t, "alpha.mkv", "bravo.mkv")

	if _, err := f.pl.Ingest(context.Background(), media.TypeMovie); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	oracleCalls := f.oracle.calls

	result, err := f.pl.Ingest(context.Background(), media.TypeMovie)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if result.Scanned != 2 || result.Fresh != 0 || result.Indexed != 0 {
		t.Fatalf("unexpected counters on rerun: %+v", result)
	}
	if f.oracle.calls != oracleCalls {
		t.Errorf("rerun queried the oracle %d more times", f.oracle.calls-oracleCalls)
	}
}

func TestIngestAllCoversEveryVariant(t *testing.T) {
	f := newFixture(t)
	f.stageMovies(t, "alpha.mkv")

	results, err := f.pl.IngestAll(context.Background())
	if err != nil {
		t.Fatalf("IngestAll: %v", err)
	}
	if len(results) != len(media.Types()) {
		t.Fatalf("expected %d results, got %d", len(media.Types()), len(results))
	}
	total := 0
	for _, result := range results {
		total += result.Indexed
	}
	if total != 1 {
		t.Errorf("expected 1 indexed record across variants, got %d", total)
	}
}

func TestIngestWithoutCredentials(t *testing.T) {
	f := newFixture(t, testsupport.WithLLMKey(""))
	f.stageMovies(t, "alpha.mkv")

	_, err := f.pl.Ingest(context.Background(), media.TypeMovie)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestIngestWithoutCompletionClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	zones := testsupport.MustOpenZones(t, cfg)
	pl := pipeline.New(cfg, zones, nil, logging.NewNop())

	_, err := pl.Ingest(context.Background(), media.TypeMovie)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestIngestRefusedWhileRunLockHeld(t *testing.T) {
	f := newFixture(t)
	f.stageMovies(t, "alpha.mkv")

	held := flock.New(filepath.Join(f.cfg.Paths.LogDir, "shelf.lock"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire external lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = f.pl.Ingest(context.Background(), media.TypeMovie)
	if !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
}

func TestAcceptPromotesPendingRecords(t *testing.T) {
	f := newFixture(t)
	f.stageMovies(t, "alpha.mkv", "bravo.mkv")
	ctx := context.Background()

	if _, err := f.pl.Ingest(ctx, media.TypeMovie); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	req, err := f.pl.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(req.Tables["movies"]) != 2 {
		t.Fatalf("expected 2 pending movies, got %d", len(req.Tables["movies"]))
	}

	resp := responseFrom(req)
	if err := f.pl.Accept(ctx, resp); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	produced, err := f.zones.Production.SelectAll(ctx, media.DescriptorFor(media.TypeMovie))
	if err != nil {
		t.Fatalf("SelectAll production: %v", err)
	}
	if len(produced) != 2 {
		t.Fatalf("expected 2 production rows, got %d", len(produced))
	}
	remaining, err := f.pl.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending after accept: %v", err)
	}
	if !remaining.IsEmpty() {
		t.Errorf("staging zone still holds records after acceptance")
	}
}

func TestRejectMovesRecordsToRejectionZone(t *testing.T) {
	f := newFixture(t)
	f.stageMovies(t, "alpha.mkv")
	ctx := context.Background()

	if _, err := f.pl.Ingest(ctx, media.TypeMovie); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	req, err := f.pl.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}

	resp := responseFrom(req)
	if err := f.pl.Reject(ctx, resp); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	rejected, err := f.zones.Rejection.SelectAll(ctx, media.DescriptorFor(media.TypeMovie))
	if err != nil {
		t.Fatalf("SelectAll rejection: %v", err)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected row, got %d", len(rejected))
	}
}

func TestAcceptRefusesIncompleteResponse(t *testing.T) {
	f := newFixture(t)
	f.stageMovies(t, "alpha.mkv")
	ctx := context.Background()

	if _, err := f.pl.Ingest(ctx, media.TypeMovie); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	req, err := f.pl.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}

	resp := responseFrom(req)
	resp.Tables["movies"][0].Title = ""
	if err := f.pl.Accept(ctx, resp); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	remaining, err := f.pl.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending after refusal: %v", err)
	}
	if remaining.IsEmpty() {
		t.Errorf("refused response must leave the staging zone untouched")
	}
}
