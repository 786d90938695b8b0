package media

import (
	"errors"
	"math"
	"strings"
)

// Sentinel values the extraction oracle substitutes for unknowns. They are
// translated to the absent representation here and never surface elsewhere.
const (
	sentinelString = "placeholder"
	sentinelNumber = -1
)

var (
	errMissingFilePath = errors.New("object missing filePath")
	errMissingTitle    = errors.New("object missing title")
)

// FromObject builds a typed Media record from a decoded oracle object. The
// videoType discriminator selects the variant, defaulting to misc. Objects
// without a usable filePath or without a title key fail the minimal shape
// check and are reported as errors for the caller to drop.
func FromObject(raw map[string]any) (Media, error) {
	m := Media{Type: ParseType(rawString(raw, "videoType"))}

	path, ok := stringField(raw, "filePath")
	if !ok || path == "" {
		return Media{}, errMissingFilePath
	}
	m.FilePath = path

	title, ok := stringField(raw, "title")
	if !ok {
		return Media{}, errMissingTitle
	}
	m.Title = title

	for _, field := range DescriptorFor(m.Type).Fields {
		switch field.Kind {
		case FieldInteger:
			value, known := intField(raw, field.Name)
			if !known {
				continue
			}
			switch field.Name {
			case FieldReleaseYear:
				m.ReleaseYear = &value
			case FieldSeasonNumber:
				m.SeasonNumber = &value
			case FieldEpisodeNumber:
				m.EpisodeNumber = &value
			}
		case FieldText:
			value, known := stringField(raw, field.Name)
			if !known || value == "" {
				continue
			}
			if field.Name == FieldArtist {
				m.Artist = &value
			}
		}
	}
	return m, nil
}

func rawString(raw map[string]any, key string) string {
	if value, ok := raw[key].(string); ok {
		return value
	}
	return ""
}

// stringField returns the normalized value of a string field. The second
// return reports key presence; sentinel and null values count as present but
// normalize to the empty (unknown) string.
func stringField(raw map[string]any, key string) (string, bool) {
	value, ok := raw[key]
	if !ok {
		return "", false
	}
	if value == nil {
		return "", true
	}
	str, ok := value.(string)
	if !ok {
		return "", false
	}
	str = strings.TrimSpace(str)
	if strings.EqualFold(str, sentinelString) {
		return "", true
	}
	return str, true
}

// intField returns the value of a numeric field when it holds a usable
// integer. Sentinel, null, fractional, and non-numeric values all read as
// unknown.
func intField(raw map[string]any, key string) (int, bool) {
	value, ok := raw[key]
	if !ok || value == nil {
		return 0, false
	}
	var number float64
	switch v := value.(type) {
	case float64:
		number = v
	case int:
		number = float64(v)
	case int64:
		number = float64(v)
	default:
		return 0, false
	}
	if number == sentinelNumber || number != math.Trunc(number) {
		return 0, false
	}
	return int(number), true
}
