package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Document is the loosely-typed JSON object returned by the model. Every
// recognized field is optional and may be a string, a list, or a nested
// object, so access goes through helper methods instead of a rigid schema.
type Document map[string]any

// DetailedResultsKey is the field holding the per-metric breakdown. It may
// appear at the top level or nested anywhere inside the response.
const DetailedResultsKey = "detailed_results"

// ParseDocument decodes a raw model response into a Document. Markdown code
// fences (``` or ```json) around the payload are stripped first. Empty text
// and undecodable text both produce a GenerationError carrying the raw
// response for diagnostics.
func ParseDocument(raw string) (Document, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return nil, &GenerationError{Reason: "empty model response", Raw: raw}
	}

	var doc Document
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &GenerationError{Reason: fmt.Sprintf("decode model response: %v", err), Raw: raw}
	}
	return doc, nil
}

// FindDetailedResults walks the document depth-first and returns the first
// detailed_results mapping encountered, whether top-level or nested inside
// any sub-object or sub-list. Returns nil when no such mapping exists.
func FindDetailedResults(doc Document) map[string]any {
	found := findKey(map[string]any(doc), DetailedResultsKey)
	if found == nil {
		return nil
	}
	if m, ok := found.(map[string]any); ok {
		return m
	}
	return nil
}

func findKey(node any, key string) any {
	switch v := node.(type) {
	case map[string]any:
		if hit, ok := v[key]; ok {
			return hit
		}
		// Walk children in key order so the result is deterministic when the
		// key occurs in more than one sibling subtree.
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if hit := findKey(v[name], key); hit != nil {
				return hit
			}
		}
	case []any:
		for _, child := range v {
			if hit := findKey(child, key); hit != nil {
				return hit
			}
		}
	}
	return nil
}

// StringField returns the named field flattened to text. Strings pass
// through; lists and nested objects are re-serialized, keeping the field
// usable in digests and emails regardless of the shape the model chose.
func (d Document) StringField(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Stringify renders any JSON value as storable text. Scalars format
// naturally; composites serialize to compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; keep integers unpadded.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
