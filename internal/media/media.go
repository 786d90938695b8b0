package media

import (
	"fmt"
	"strings"
)

// Type discriminates the concrete video variants the library indexes.
type Type string

const (
	TypeMovie     Type = "movie"
	TypeShow      Type = "show"
	TypeStandup   Type = "standup"
	TypeAnime     Type = "anime"
	TypeAnimation Type = "animation"
	TypeMisc      Type = "misc"
)

// Types lists every variant in a fixed order used for table iteration.
func Types() []Type {
	return []Type{TypeMovie, TypeShow, TypeStandup, TypeAnime, TypeAnimation, TypeMisc}
}

// ParseType maps a discriminator string to a known variant. Unknown or
// empty discriminators fall back to the misc variant.
func ParseType(value string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case TypeMovie:
		return TypeMovie
	case TypeShow:
		return TypeShow
	case TypeStandup:
		return TypeStandup
	case TypeAnime:
		return TypeAnime
	case TypeAnimation:
		return TypeAnimation
	default:
		return TypeMisc
	}
}

// Media is one indexable video file plus whatever metadata has been derived
// for it so far. Pointer fields are nil while the value is unknown; Title is
// empty while unknown.
type Media struct {
	Type          Type    `json:"videoType"`
	FilePath      string  `json:"filePath"`
	Title         string  `json:"title"`
	ReleaseYear   *int    `json:"releaseYear,omitempty"`
	SeasonNumber  *int    `json:"seasonNumber,omitempty"`
	EpisodeNumber *int    `json:"episodeNumber,omitempty"`
	Artist        *string `json:"artist,omitempty"`
}

// Zero returns an empty instance of the given variant, useful for reading
// variant configuration without a real file behind it.
func Zero(t Type) Media {
	return Media{Type: t}
}

// ShapeValid reports whether the record satisfies the minimal shape the
// pipeline requires before staging or review: a non-empty file path.
func (m Media) ShapeValid() bool {
	return strings.TrimSpace(m.FilePath) != ""
}

// IsComplete reports whether every field the variant schema declares holds a
// known value. Only complete records are eligible to leave staging.
func (m Media) IsComplete() bool {
	if strings.TrimSpace(m.FilePath) == "" || strings.TrimSpace(m.Title) == "" {
		return false
	}
	for _, field := range DescriptorFor(m.Type).Fields {
		switch field.Name {
		case FieldReleaseYear:
			if m.ReleaseYear == nil {
				return false
			}
		case FieldSeasonNumber:
			if m.SeasonNumber == nil {
				return false
			}
		case FieldEpisodeNumber:
			if m.EpisodeNumber == nil {
				return false
			}
		case FieldArtist:
			if m.Artist == nil || strings.TrimSpace(*m.Artist) == "" {
				return false
			}
		}
	}
	return true
}

// UnknownFields names the variant fields that still hold no value, in
// schema order. Used for operator-facing diagnostics.
func (m Media) UnknownFields() []string {
	var missing []string
	if strings.TrimSpace(m.Title) == "" {
		missing = append(missing, "title")
	}
	for _, field := range DescriptorFor(m.Type).Fields {
		switch field.Name {
		case FieldReleaseYear:
			if m.ReleaseYear == nil {
				missing = append(missing, field.Name)
			}
		case FieldSeasonNumber:
			if m.SeasonNumber == nil {
				missing = append(missing, field.Name)
			}
		case FieldEpisodeNumber:
			if m.EpisodeNumber == nil {
				missing = append(missing, field.Name)
			}
		case FieldArtist:
			if m.Artist == nil || strings.TrimSpace(*m.Artist) == "" {
				missing = append(missing, field.Name)
			}
		}
	}
	return missing
}

func (m Media) String() string {
	title := m.Title
	if title == "" {
		title = "<untitled>"
	}
	return fmt.Sprintf("%s %q (%s)", m.Type, title, m.FilePath)
}
