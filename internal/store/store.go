package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"shelf/internal/media"
)

// Zone identifies one lifecycle stage of the library.
type Zone string

const (
	ZoneStaging    Zone = "staging"
	ZoneProduction Zone = "production"
	ZoneRejection  Zone = "rejection"
)

// Store manages one zone database backed by SQLite.
type Store struct {
	db   *sql.DB
	zone Zone
	path string
}

// Open initializes or connects to a zone database.
func Open(zone Zone, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	return &Store{db: db, zone: zone, path: dbPath}, nil
}

// Zone returns the lifecycle zone this store backs.
func (s *Store) Zone() Zone { return s.zone }

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// TableExists reports whether the variant table has been provisioned.
func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name=?",
		table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return count > 0, nil
}

// EnsureTable provisions the variant table when absent. A table left behind
// by an interrupted earlier run is reused as-is, so creation is safe to
// retry.
func (s *Store) EnsureTable(ctx context.Context, desc media.Descriptor) error {
	if _, err := s.db.ExecContext(ctx, DDL(desc)); err != nil {
		return fmt.Errorf("create table %s: %w", desc.Table, err)
	}
	return nil
}

// Insert appends one record to its variant table. file_path uniqueness is
// enforced by the schema, so a duplicate insert fails rather than silently
// overwriting.
func (s *Store) Insert(ctx context.Context, m media.Media) error {
	desc := media.DescriptorFor(m.Type)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	columns := []string{"file_path", "title"}
	values := []any{m.FilePath, nullableString(m.Title)}
	for _, field := range desc.Fields {
		columns = append(columns, columnName(field.Name))
		values = append(values, fieldValue(m, field.Name))
	}
	columns = append(columns, "created_at", "updated_at")
	values = append(values, now, now)

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		desc.Table,
		strings.Join(columns, ", "),
		placeholders(len(columns)),
	)
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("insert into %s: %w", desc.Table, err)
	}
	return nil
}

// SelectAll reads every record of a variant table in insertion order.
func (s *Store) SelectAll(ctx context.Context, desc media.Descriptor) ([]media.Media, error) {
	columns := []string{"file_path", "title"}
	for _, field := range desc.Fields {
		columns = append(columns, columnName(field.Name))
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY rowid",
		strings.Join(columns, ", "),
		desc.Table,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", desc.Table, err)
	}
	defer rows.Close()

	var records []media.Media
	for rows.Next() {
		record, scanErr := scanRecord(rows, desc)
		if scanErr != nil {
			return nil, fmt.Errorf("scan %s row: %w", desc.Table, scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", desc.Table, err)
	}
	return records, nil
}

// DeleteByFilePath removes the row keyed by file_path and returns how many
// rows went away.
func (s *Store) DeleteByFilePath(ctx context.Context, table, filePath string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE file_path = ?", table),
		filePath,
	)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for %s: %w", table, err)
	}
	return count, nil
}

// ContainsFilePath reports whether the table holds a row for the path. A
// missing table reads as "not present".
func (s *Store) ContainsFilePath(ctx context.Context, table, filePath string) (bool, error) {
	exists, err := s.TableExists(ctx, table)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	var count int
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE file_path = ?", table),
		filePath,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("lookup %s in %s: %w", filePath, table, err)
	}
	return count > 0, nil
}

// Backup snapshots the database into destPath using VACUUM INTO, producing a
// consistent copy without blocking readers.
func (s *Store) Backup(ctx context.Context, destPath string) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("vacuum %s into %s: %w", s.zone, destPath, err)
	}
	return nil
}

func scanRecord(rows *sql.Rows, desc media.Descriptor) (media.Media, error) {
	record := media.Media{Type: desc.Type}

	var title sql.NullString
	dests := []any{&record.FilePath, &title}

	intFields := make(map[string]*sql.NullInt64, len(desc.Fields))
	textFields := make(map[string]*sql.NullString, len(desc.Fields))
	for _, field := range desc.Fields {
		switch field.Kind {
		case media.FieldInteger:
			holder := new(sql.NullInt64)
			intFields[field.Name] = holder
			dests = append(dests, holder)
		case media.FieldText:
			holder := new(sql.NullString)
			textFields[field.Name] = holder
			dests = append(dests, holder)
		}
	}

	if err := rows.Scan(dests...); err != nil {
		return media.Media{}, err
	}

	if title.Valid {
		record.Title = title.String
	}
	for name, holder := range intFields {
		if !holder.Valid {
			continue
		}
		value := int(holder.Int64)
		switch name {
		case media.FieldReleaseYear:
			record.ReleaseYear = &value
		case media.FieldSeasonNumber:
			record.SeasonNumber = &value
		case media.FieldEpisodeNumber:
			record.EpisodeNumber = &value
		}
	}
	for name, holder := range textFields {
		if !holder.Valid || holder.String == "" {
			continue
		}
		if name == media.FieldArtist {
			value := holder.String
			record.Artist = &value
		}
	}
	return record, nil
}

func fieldValue(m media.Media, fieldName string) any {
	switch fieldName {
	case media.FieldReleaseYear:
		return nullableInt(m.ReleaseYear)
	case media.FieldSeasonNumber:
		return nullableInt(m.SeasonNumber)
	case media.FieldEpisodeNumber:
		return nullableInt(m.EpisodeNumber)
	case media.FieldArtist:
		if m.Artist == nil {
			return nil
		}
		return *m.Artist
	default:
		return nil
	}
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
