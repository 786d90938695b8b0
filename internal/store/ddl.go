package store

import (
	"fmt"
	"strings"

	"shelf/internal/media"
)

// DDL derives the CREATE TABLE statement for a variant from its static
// schema descriptor: TEXT for string fields, nullable INTEGER for numeric
// fields, a unique constraint on file_path, and bookkeeping timestamps. The
// statement is idempotent so an interrupted run that created the table but
// inserted nothing can simply retry.
func DDL(desc media.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", desc.Table)
	b.WriteString("    id INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	b.WriteString("    file_path TEXT NOT NULL UNIQUE,\n")
	b.WriteString("    title TEXT,\n")
	for _, field := range desc.Fields {
		switch field.Kind {
		case media.FieldInteger:
			fmt.Fprintf(&b, "    %s INTEGER,\n", columnName(field.Name))
		case media.FieldText:
			fmt.Fprintf(&b, "    %s TEXT,\n", columnName(field.Name))
		}
	}
	b.WriteString("    created_at TEXT NOT NULL,\n")
	b.WriteString("    updated_at TEXT NOT NULL\n")
	b.WriteString(")")
	return b.String()
}

// columnName converts a canonical camelCase field name to its snake_case
// database column.
func columnName(fieldName string) string {
	var b strings.Builder
	for _, r := range fieldName {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
