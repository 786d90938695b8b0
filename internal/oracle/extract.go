package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoArray indicates no parseable JSON array of objects was found in a
// completion payload.
var ErrNoArray = errors.New("no JSON object array in payload")

// ExtractObjectArray locates the first JSON array of objects inside a free
// text completion. Models wrap payloads in code fences, prose, or trailing
// commentary; the scan walks every '[' in the sanitized text and attempts a
// decode from each, short-circuiting on the first candidate that parses and
// contains at least one object element.
func ExtractObjectArray(content string) ([]map[string]any, error) {
	trimmed := sanitizePayload(content)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrNoArray)
	}

	for offset := 0; offset < len(trimmed); offset++ {
		if trimmed[offset] != '[' {
			continue
		}
		candidate, ok := decodeObjectArray(trimmed[offset:])
		if ok {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w (payload snippet: %s)", ErrNoArray, summarizePayloadSnippet(trimmed))
}

// decodeObjectArray decodes one JSON value from the head of text, ignoring
// trailing junk, and reports whether it is a non-empty array of objects.
func decodeObjectArray(text string) ([]map[string]any, bool) {
	decoder := json.NewDecoder(strings.NewReader(text))
	var raw []json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}
	objects := make([]map[string]any, 0, len(raw))
	for _, element := range raw {
		var obj map[string]any
		if err := json.Unmarshal(element, &obj); err != nil {
			return nil, false
		}
		objects = append(objects, obj)
	}
	return objects, true
}

func sanitizePayload(content string) string {
	return strings.TrimSpace(stripCodeFenceBlock(content))
}

func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func summarizePayloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	clean := replacer.Replace(trimmed)
	clean = strings.Join(strings.Fields(clean), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
