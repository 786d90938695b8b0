package extractor

import (
	"fmt"
	"strings"

	"shelf/internal/media"
)

// promptHeader is shared by every variant prompt. The ordering and sentinel
// rules matter: downstream parsing requires well-typed, fully present
// fields, and batch correlation relies on the array order matching the
// input order.
const promptHeader = `You derive video metadata from file paths.

You will receive one file path per line. Respond ONLY with a JSON array of
objects, one object per input path, in exactly the same order as the input
lines.

Rules:
- Echo each input path verbatim in the "filePath" field. Never alter it.
- Derive metadata from the path and filename only. Do not invent detail the
  path does not support.
- When a numeric value is unknown, use -1. When a string value is unknown,
  use "placeholder". Never omit a field and never use null.`

var variantInstructions = map[media.Type]string{
	media.TypeMovie: `Each object must have exactly these fields:
  "filePath" (string), "title" (string), "releaseYear" (number),
  "videoType" (always "movie")`,
	media.TypeShow: `Each object must have exactly these fields:
  "filePath" (string), "title" (string), "seasonNumber" (number),
  "episodeNumber" (number), "videoType" (always "show")

The title is the show's name, not the episode name. Season and episode
numbers usually appear as S01E02-style markers in the filename.`,
	media.TypeStandup: `Each object must have exactly these fields:
  "filePath" (string), "title" (string), "artist" (string),
  "releaseYear" (number), "videoType" (always "standup")

The artist is the performing comedian; the title is the special's name.`,
	media.TypeAnime: `Each object must have exactly these fields:
  "filePath" (string), "title" (string), "seasonNumber" (number),
  "episodeNumber" (number), "videoType" (always "anime")

The title is the series name. Absolute episode numbering is common; when no
season marker exists, use season 1.`,
	media.TypeAnimation: `Each object must have exactly these fields:
  "filePath" (string), "title" (string), "seasonNumber" (number),
  "episodeNumber" (number), "videoType" (always "animation")`,
	media.TypeMisc: `Each object must have exactly these fields:
  "filePath" (string), "title" (string), "videoType" (always "misc")`,
}

// PromptFor builds the system prompt for a variant's extraction batch.
func PromptFor(t media.Type) string {
	instructions, ok := variantInstructions[t]
	if !ok {
		instructions = variantInstructions[media.TypeMisc]
	}
	return fmt.Sprintf("%s\n\n%s", promptHeader, strings.TrimSpace(instructions))
}
