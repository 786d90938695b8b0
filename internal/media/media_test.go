package media

import (
	"testing"
)

func TestParseTypeFallsBackToMisc(t *testing.T) {
	cases := []struct {
		input    string
		expected Type
	}{
		{"movie", TypeMovie},
		{"Show", TypeShow},
		{" standup ", TypeStandup},
		{"ANIME", TypeAnime},
		{"animation", TypeAnimation},
		{"misc", TypeMisc},
		{"documentary", TypeMisc},
		{"", TypeMisc},
	}
	for _, tc := range cases {
		if got := ParseType(tc.input); got != tc.expected {
			t.Errorf("ParseType(%q) = %s, expected %s", tc.input, got, tc.expected)
		}
	}
}

func TestIsCompletePerVariant(t *testing.T) {
	year := 1999
	season := 2
	episode := 5
	artist := "Maria Bamford"

	cases := []struct {
		name     string
		media    Media
		complete bool
	}{
		{
			name:     "movie with all fields",
			media:    Media{Type: TypeMovie, FilePath: "/v/movies/m.mkv", Title: "The Matrix", ReleaseYear: &year},
			complete: true,
		},
		{
			name:     "movie missing year",
			media:    Media{Type: TypeMovie, FilePath: "/v/movies/m.mkv", Title: "The Matrix"},
			complete: false,
		},
		{
			name:     "movie missing title",
			media:    Media{Type: TypeMovie, FilePath: "/v/movies/m.mkv", ReleaseYear: &year},
			complete: false,
		},
		{
			name: "show with all fields",
			media: Media{
				Type: TypeShow, FilePath: "/v/shows/s.mkv", Title: "Severance",
				ReleaseYear: &year, SeasonNumber: &season, EpisodeNumber: &episode,
			},
			complete: true,
		},
		{
			name: "show missing episode",
			media: Media{
				Type: TypeShow, FilePath: "/v/shows/s.mkv", Title: "Severance",
				ReleaseYear: &year, SeasonNumber: &season,
			},
			complete: false,
		},
		{
			name:     "standup with artist",
			media:    Media{Type: TypeStandup, FilePath: "/v/standup/b.mkv", Title: "Old Baby", ReleaseYear: &year, Artist: &artist},
			complete: true,
		},
		{
			name:     "standup missing artist",
			media:    Media{Type: TypeStandup, FilePath: "/v/standup/b.mkv", Title: "Old Baby", ReleaseYear: &year},
			complete: false,
		},
		{
			name:     "misc needs only path and title",
			media:    Media{Type: TypeMisc, FilePath: "/v/misc/clip.mp4", Title: "Concert"},
			complete: true,
		},
		{
			name:     "empty path never completes",
			media:    Media{Type: TypeMisc, Title: "Concert"},
			complete: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.media.IsComplete(); got != tc.complete {
				t.Fatalf("IsComplete() = %v, expected %v (missing: %v)", got, tc.complete, tc.media.UnknownFields())
			}
		})
	}
}

func TestUnknownFieldsOrder(t *testing.T) {
	m := Media{Type: TypeShow, FilePath: "/v/shows/s.mkv"}
	got := m.UnknownFields()
	expected := []string{"title", FieldSeasonNumber, FieldEpisodeNumber}
	if len(got) != len(expected) {
		t.Fatalf("UnknownFields() = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("UnknownFields()[%d] = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestDescriptorForEveryType(t *testing.T) {
	for _, typ := range Types() {
		desc := DescriptorFor(typ)
		if desc.Table == "" {
			t.Errorf("descriptor for %s has no table", typ)
		}
		if desc.Subdir == "" {
			t.Errorf("descriptor for %s has no subdirectory", typ)
		}
		if len(desc.Extensions) == 0 {
			t.Errorf("descriptor for %s has no extensions", typ)
		}
		roundTrip, ok := DescriptorForTable(desc.Table)
		if !ok || roundTrip.Type != typ {
			t.Errorf("DescriptorForTable(%q) did not round-trip to %s", desc.Table, typ)
		}
	}
}
