// Package validation assembles the human-review contract: staged records
// grouped by table for the operator, and the all-or-nothing checks applied
// to the operator's accept/reject response before any file moves.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/services"
	"shelf/internal/store"
)

// Record is one staged media entry inside a request or response. SourcePath
// is the staged file path echoed back unmodified by the operator; it is the
// correlation key joining a response record to its staging row, so edits to
// filePath or metadata never mispair records.
type Record struct {
	SourcePath     string `json:"sourcePath"`
	SuggestedTitle string `json:"suggestedTitle,omitempty"`
	media.Media
}

// Request groups every staged record by variant table for operator review.
type Request struct {
	ID     string              `json:"id"`
	Tables map[string][]Record `json:"tables"`
}

// Response mirrors the request shape with operator edits applied. Edited
// fields are authoritative.
type Response struct {
	Tables map[string][]Record `json:"tables"`
}

// IsEmpty reports whether the request holds no records at all.
func (r Request) IsEmpty() bool {
	for _, records := range r.Tables {
		if len(records) > 0 {
			return false
		}
	}
	return true
}

// BuildRequest reads every provisioned variant table from the staging
// database and assembles a review request. Rows failing the minimal shape
// check are silently excluded; they cannot be moved and will be picked up
// again after manual repair.
func BuildRequest(ctx context.Context, staging *store.Store, logger *slog.Logger) (Request, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	request := Request{
		ID:     uuid.NewString(),
		Tables: make(map[string][]Record),
	}

	for _, t := range media.Types() {
		desc := media.DescriptorFor(t)
		exists, err := staging.TableExists(ctx, desc.Table)
		if err != nil {
			return Request{}, services.Wrap(services.ErrTransient, "validation", "check table", desc.Table, err)
		}
		if !exists {
			continue
		}
		rows, err := staging.SelectAll(ctx, desc)
		if err != nil {
			return Request{}, services.Wrap(services.ErrTransient, "validation", "read table", desc.Table, err)
		}

		records := make([]Record, 0, len(rows))
		for _, row := range rows {
			if !row.ShapeValid() {
				logger.Warn("excluding malformed staging row",
					logging.String(logging.FieldTable, desc.Table),
				)
				continue
			}
			record := Record{SourcePath: row.FilePath, Media: row}
			if strings.TrimSpace(row.Title) == "" {
				record.SuggestedTitle = media.DeriveTitle(row.FilePath)
			}
			records = append(records, record)
		}
		if len(records) > 0 {
			request.Tables[desc.Table] = records
		}
	}
	return request, nil
}

// Normalize strips any sentinel values an operator (or a round-tripped
// oracle payload) left in the response, converting them to the absent
// representation so completeness checks are structural.
func (r *Response) Normalize() {
	for table, records := range r.Tables {
		desc, ok := media.DescriptorForTable(table)
		for i := range records {
			if ok {
				records[i].Type = desc.Type
			}
			records[i].Media = normalizeMedia(records[i].Media)
		}
		r.Tables[table] = records
	}
}

// Validate applies the all-or-nothing response check: every table must map
// to known-variant records, every record must carry its correlation key, and
// no record may retain an unknown field. A single violation rejects the
// whole response; nothing is partially promoted.
func (r *Response) Validate() error {
	if len(r.Tables) == 0 {
		return services.Wrap(services.ErrValidation, "validation", "check response", "Response contains no tables", nil)
	}
	for table, records := range r.Tables {
		if _, ok := media.DescriptorForTable(table); !ok {
			return services.Wrap(services.ErrValidation, "validation", "check response",
				fmt.Sprintf("Unknown table %q", table), nil)
		}
		for i, record := range records {
			if strings.TrimSpace(record.SourcePath) == "" {
				return services.Wrap(services.ErrValidation, "validation", "check response",
					fmt.Sprintf("Record %d in %s is missing sourcePath", i, table), nil)
			}
			if !record.IsComplete() {
				return services.Wrap(services.ErrValidation, "validation", "check response",
					fmt.Sprintf("Record %q in %s still has unknown fields: %s",
						record.SourcePath, table, strings.Join(record.UnknownFields(), ", ")), nil)
			}
		}
	}
	return nil
}

func normalizeMedia(m media.Media) media.Media {
	if strings.EqualFold(strings.TrimSpace(m.Title), "placeholder") {
		m.Title = ""
	}
	m.ReleaseYear = dropSentinel(m.ReleaseYear)
	m.SeasonNumber = dropSentinel(m.SeasonNumber)
	m.EpisodeNumber = dropSentinel(m.EpisodeNumber)
	if m.Artist != nil && strings.EqualFold(strings.TrimSpace(*m.Artist), "placeholder") {
		m.Artist = nil
	}
	return m
}

func dropSentinel(value *int) *int {
	if value != nil && *value == -1 {
		return nil
	}
	return value
}
