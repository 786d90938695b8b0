package store

import (
	"strings"
	"testing"

	"shelf/internal/media"
)

func TestDDLPerVariant(t *testing.T) {
	showDDL := DDL(media.DescriptorFor(media.TypeShow))
	for _, fragment := range []string{
		"CREATE TABLE IF NOT EXISTS shows",
		"file_path TEXT NOT NULL UNIQUE",
		"title TEXT",
		"release_year INTEGER",
		"season_number INTEGER",
		"episode_number INTEGER",
		"created_at TEXT NOT NULL",
		"updated_at TEXT NOT NULL",
	} {
		if !strings.Contains(showDDL, fragment) {
			t.Errorf("shows DDL missing %q:\n%s", fragment, showDDL)
		}
	}

	standupDDL := DDL(media.DescriptorFor(media.TypeStandup))
	if !strings.Contains(standupDDL, "artist TEXT") {
		t.Errorf("standup DDL missing artist column:\n%s", standupDDL)
	}

	miscDDL := DDL(media.DescriptorFor(media.TypeMisc))
	if strings.Contains(miscDDL, "release_year") {
		t.Errorf("misc DDL should not declare variant fields:\n%s", miscDDL)
	}
}

func TestColumnName(t *testing.T) {
	cases := map[string]string{
		"releaseYear":   "release_year",
		"seasonNumber":  "season_number",
		"episodeNumber": "episode_number",
		"artist":        "artist",
	}
	for input, expected := range cases {
		if got := columnName(input); got != expected {
			t.Errorf("columnName(%q) = %q, expected %q", input, got, expected)
		}
	}
}
