// SPDX-License-Identifier: AGPL-3.0-or-later

package parsers

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// parseYAML accepts a top-level sequence of scalars, a top-level
// sequence of mappings (each with quote/text + optional author), or
// either of those nested under a top-level "quotes" key. yaml.v3
// decodes mapping keys as strings when unmarshaling into `any`, so the
// same object-shape helper used by the JSON and TOML parsers applies
// here unchanged.
func parseYAML(content []byte) ([]string, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	switch v := doc.(type) {
	case []any:
		return parseYAMLSequence(v), nil
	case map[string]any:
		if quotesField, ok := v["quotes"]; ok {
			if arr, ok := quotesField.([]any); ok {
				return parseYAMLSequence(arr), nil
			}
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func parseYAMLSequence(items []any) []string {
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
