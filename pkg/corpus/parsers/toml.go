// SPDX-License-Identifier: AGPL-3.0-or-later

package parsers

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// parseTOML accepts a top-level `quotes = ["...", ...]` array of
// strings, or one or more `[[quotes]]` array-of-tables entries each
// with a `quote`/`text` string and optional `author`. Both shapes
// decode to the same "quotes" key under go-toml's generic map decode.
func parseTOML(content []byte) ([]string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}

	quotesField, ok := doc["quotes"]
	if !ok {
		return nil, nil
	}
	items, ok := quotesField.([]any)
	if !ok {
		return nil, nil
	}

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
	return out, nil
}
