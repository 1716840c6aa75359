// SPDX-License-Identifier: AGPL-3.0-or-later

package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat_ExtensionWins(t *testing.T) {
	// Content that would sniff as plain text, but the extension says csv.
	content := []byte("just one line with no obvious delimiter pattern here")
	assert.Equal(t, FormatCSV, DetectFormat("quotes.csv", content))
}

func TestDetectFormat_ExtensionIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("QUOTES.JSON", []byte(`[]`)))
}

func TestDetectFormat_SniffPriorityOrder(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Format
	}{
		{"json object", `{"quotes": ["a"]}`, FormatJSON},
		{"json array", `["a", "b"]`, FormatJSON},
		{"csv comma", "quote,author\nHello,World", FormatCSV},
		{"csv tab", "quote\tauthor\nHello\tWorld", FormatCSV},
		{"toml section", "# quote file\n[meta]\nversion = 1", FormatTOML},
		{"toml assignment", "quotes = [\"a\", \"b\"]", FormatTOML},
		{"yaml doc start", "---\nquotes:\n  - a", FormatYAML},
		{"yaml sequence", "- a\n- b", FormatYAML},
		{"yaml mapping", "quotes:\n  - a", FormatYAML},
		{"plain", "Just a quote on one line.\nAnd another.", FormatPlain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectFormat("noext", []byte(tc.content)))
		})
	}
}

func TestDetectFormat_EmptyContentIsPlain(t *testing.T) {
	assert.Equal(t, FormatPlain, DetectFormat("noext", []byte("")))
}

func TestDetectFormat_IsStableAcrossRepeatedCalls(t *testing.T) {
	content := []byte(`{"quotes": ["a", "b"]}`)
	first := DetectFormat("noext", content)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, DetectFormat("noext", content))
	}
}

func TestDispatch_PlainNeverErrors(t *testing.T) {
	quotes, err := Dispatch(FormatPlain, []byte("\x00not even valid text\n"))
	assert.NoError(t, err)
	assert.NotNil(t, quotes)
}
