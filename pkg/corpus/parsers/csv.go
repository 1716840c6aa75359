// SPDX-License-Identifier: AGPL-3.0-or-later

package parsers

import (
	"encoding/csv"
	"fmt"
	"strings"
)

var csvHeaderNames = map[string]bool{
	"quote":   true,
	"text":    true,
	"content": true,
	"quotes":  true,
}

// parseCSV auto-detects the delimiter (comma vs tab, comma on ties)
// from the first line, drops a recognized header row, and treats the
// first column as the quote and an optional second column as author.
func parseCSV(content []byte) ([]string, error) {
	delim := detectDelimiter(content)

	r := csv.NewReader(strings.NewReader(string(content)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = false

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}

	out := make([]string, 0, len(records))
	for i, row := range records {
		if len(row) == 0 {
			continue
		}
		if i == 0 && csvHeaderNames[strings.ToLower(strings.TrimSpace(row[0]))] {
			continue
		}
		quote := row[0]
		if len(row) > 1 && row[1] != "" {
			quote = emDashAuthor(quote, row[1])
		}
		out = append(out, quote)
	}
	return out, nil
}

// detectDelimiter compares comma and tab counts on the first line of
// content, preferring comma on a tie.
func detectDelimiter(content []byte) rune {
	line := firstNonEmptyLine(content)
	commas := strings.Count(line, ",")
	tabs := strings.Count(line, "\t")
	if tabs > commas {
		return '\t'
	}
	return ','
}
