// SPDX-License-Identifier: AGPL-3.0-or-later

// Package corpus builds the immutable, deduplicated quote corpus from
// a configured list of source directories.
package corpus

import (
	"lukechampine.com/blake3"
)

// Fingerprint is a 32-byte content hash used for deduplication.
// Fingerprint equality is treated as content equality.
type Fingerprint [32]byte

// fingerprintOf hashes the normalized content of a quote with Blake3.
func fingerprintOf(content string) Fingerprint {
	return Fingerprint(blake3.Sum256([]byte(content)))
}

// Metadata describes a single build's provenance: how many files were
// scanned, how many candidate strings the parsers produced, and how
// many of those were duplicates.
type Metadata struct {
	FilesScanned      int
	CandidatesParsed  int
	DuplicatesRemoved int
	UniqueQuotes      int
	BuiltAt           int64 // Unix nanoseconds
}

// Corpus is the immutable, deduplicated, ordered set of quotes live at
// a given instant. Once returned by Build, neither Quotes nor Metadata
// is ever mutated.
type Corpus struct {
	Quotes   []string
	Metadata Metadata
}

// Size returns the number of unique quotes in the corpus.
func (c *Corpus) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Quotes)
}

// At returns the quote at index i. Callers must ensure 0 <= i < Size().
func (c *Corpus) At(i int) string {
	return c.Quotes[i]
}

// Empty reports whether the corpus has no quotes at all.
func (c *Corpus) Empty() bool {
	return c.Size() == 0
}
