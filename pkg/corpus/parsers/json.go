// SPDX-License-Identifier: AGPL-3.0-or-later

package parsers

import (
	"encoding/json"
	"fmt"
)

// parseJSON accepts three root shapes: an array of strings, an object
// with a "quotes" array of strings, or an array of objects each
// carrying a "quote" or "text" field and an optional "author" field.
// Entries that fit none of these shapes are skipped silently; a
// top-level syntax error is returned to the caller.
func parseJSON(content []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}

	switch v := raw.(type) {
	case []any:
		return parseJSONArray(v), nil
	case map[string]any:
		if quotesField, ok := v["quotes"]; ok {
			if arr, ok := quotesField.([]any); ok {
				return parseJSONStringArray(arr), nil
			}
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// parseJSONArray handles the root-array case, which may be a mix of
// plain strings and quote/author objects.
func parseJSONArray(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if q, ok := quoteFromObject(v); ok {
				out = append(out, q)
			}
		}
	}
	return out
}

// parseJSONStringArray handles the {"quotes": [...]} shape, which is
// string-only per the spec.
func parseJSONStringArray(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func quoteFromObject(obj map[string]any) (string, bool) {
	var quote string
	if q, ok := obj["quote"].(string); ok {
		quote = q
	} else if t, ok := obj["text"].(string); ok {
		quote = t
	} else {
		return "", false
	}
	if author, ok := obj["author"].(string); ok {
		quote = emDashAuthor(quote, author)
	}
	return quote, true
}
