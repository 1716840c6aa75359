// SPDX-License-Identifier: AGPL-3.0-or-later

// Package parsers implements format detection and tolerant parsing for
// the five quote file formats: json, csv, toml, yaml, and plain. Each
// parser is a pure function from bytes to an ordered list of candidate
// quote strings; Dispatch is the single switch over the detected
// format. There is no plugin registry — the format set is closed.
package parsers

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies one of the five supported quote file formats.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatPlain Format = "plain"
)

// DetectFormat determines the format of a file from its name and
// content. A recognized extension always wins; otherwise the content
// is sniffed in the strict priority order json, csv, toml, yaml, plain.
func DetectFormat(path string, content []byte) Format {
	if f, ok := byExtension(path); ok {
		return f
	}
	return sniff(content)
}

func byExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".csv":
		return FormatCSV, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".txt":
		return FormatPlain, true
	default:
		return "", false
	}
}

func sniff(content []byte) Format {
	if looksLikeJSON(content) {
		return FormatJSON
	}
	if looksLikeCSV(content) {
		return FormatCSV
	}
	if looksLikeTOML(content) {
		return FormatTOML
	}
	if looksLikeYAML(content) {
		return FormatYAML
	}
	return FormatPlain
}

func looksLikeJSON(content []byte) bool {
	trimmed := bytes.TrimLeft(content, " \t\r\n")
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == '{' || trimmed[0] == '['
}

func looksLikeCSV(content []byte) bool {
	line := firstNonEmptyLine(content)
	if line == "" {
		return false
	}
	// A TOML array-of-strings assignment (e.g. `quotes = ["a", "b"]`)
	// also contains commas; don't let it shadow the later TOML check.
	if isTOMLLine(strings.TrimSpace(line)) {
		return false
	}
	return strings.Contains(line, ",") || strings.Contains(line, "\t")
}

func looksLikeTOML(content []byte) bool {
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if isTOMLLine(trimmed) {
			return true
		}
	}
	return false
}

// isTOMLLine reports whether a single trimmed, non-empty,
// non-comment line matches a `[section]` header or a `key = value`
// assignment, the two cues that distinguish TOML from plain CSV.
func isTOMLLine(trimmed string) bool {
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return true
	}
	return strings.Contains(trimmed, " = ")
}

func looksLikeYAML(content []byte) bool {
	lines := splitLines(content)
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		return true
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") {
			return true
		}
		if idx := strings.Index(trimmed, ":"); idx > 0 && !strings.HasPrefix(trimmed, "[") {
			return true
		}
	}
	return false
}

func firstNonEmptyLine(content []byte) string {
	for _, line := range splitLines(content) {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func splitLines(content []byte) []string {
	return strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
}

// Dispatch parses content according to format, returning an ordered
// list of candidate quote strings. Any parse-level error is returned
// to the caller so the builder can log it and skip the file — parsing
// never panics on malformed input.
func Dispatch(format Format, content []byte) ([]string, error) {
	switch format {
	case FormatJSON:
		return parseJSON(content)
	case FormatCSV:
		return parseCSV(content)
	case FormatTOML:
		return parseTOML(content)
	case FormatYAML:
		return parseYAML(content)
	default:
		return parsePlain(content), nil
	}
}
