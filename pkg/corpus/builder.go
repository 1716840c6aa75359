// SPDX-License-Identifier: AGPL-3.0-or-later

package corpus

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fulgidus/quotez/pkg/corpus/parsers"
)

// MaxFileSize is the per-file read cap. The spec requires at least
// 10 MiB; 16 MiB gives quote files generous headroom without letting a
// single runaway file stall a rebuild.
const MaxFileSize = 16 * 1024 * 1024

// Build walks dirs in order, dispatches each regular file to the
// matching format parser, deduplicates candidates by content
// fingerprint, and returns a new immutable Corpus. Build never fails:
// an empty corpus is itself a valid, logged result.
func Build(dirs []string) *Corpus {
	var quotes []string
	seen := make(map[Fingerprint]struct{})
	meta := Metadata{}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			slog.Warn("corpus.directory_unreadable", "dir", dir, "err", err)
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Warn("corpus.walk_error", "path", path, "err", err)
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			meta.FilesScanned++

			content, err := readCapped(path, MaxFileSize)
			if err != nil {
				slog.Warn("corpus.file_unreadable", "path", path, "err", err)
				return nil
			}

			format := parsers.DetectFormat(path, content)
			candidates, err := parsers.Dispatch(format, content)
			if err != nil {
				slog.Warn("corpus.parse_error", "path", path, "format", format, "err", err)
				return nil
			}

			for _, candidate := range candidates {
				normalized := Normalize(candidate)
				if normalized == "" {
					continue
				}
				meta.CandidatesParsed++

				fp := fingerprintOf(normalized)
				if _, dup := seen[fp]; dup {
					continue
				}
				seen[fp] = struct{}{}
				quotes = append(quotes, normalized)
			}
			return nil
		})
		if err != nil {
			slog.Warn("corpus.walk_aborted", "dir", dir, "err", err)
		}
	}

	meta.UniqueQuotes = len(quotes)
	meta.DuplicatesRemoved = meta.CandidatesParsed - meta.UniqueQuotes
	meta.BuiltAt = time.Now().UnixNano()

	if meta.UniqueQuotes == 0 {
		slog.Warn("corpus.empty_build", "files_scanned", meta.FilesScanned)
	}
	slog.Info("corpus.built",
		"files_scanned", meta.FilesScanned,
		"candidates_parsed", meta.CandidatesParsed,
		"duplicates_removed", meta.DuplicatesRemoved,
		"unique_quotes", meta.UniqueQuotes,
	)

	return &Corpus{Quotes: quotes, Metadata: meta}
}

// readCapped reads at most limit+1 bytes from path, returning an error
// if the file exceeds limit so the caller can skip it with a warning
// instead of silently truncating quote content.
func readCapped(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("file exceeds %d byte read cap", limit)
	}
	return content, nil
}
