// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watcher detects changes under a set of directories by
// comparing file modification times between polls. It is the sole
// authority on whether a corpus rebuild is warranted; any faster
// notification mechanism (see the fsnotify hint wired into the
// supervisor) can only make the watcher poll sooner, never change
// what Poll itself decides.
package watcher

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"
)

// Watcher holds the directories to scan, the mtime snapshot adopted by
// the last Commit, and the snapshot observed by the most recent Poll.
type Watcher struct {
	dirs      []string
	snapshots map[string]time.Time
	pending   map[string]time.Time
}

// New creates a Watcher over dirs with an empty snapshot; the first
// Poll reports changed=true whenever at least one regular file exists,
// because nothing has been observed yet.
func New(dirs []string) *Watcher {
	return &Watcher{
		dirs:      dirs,
		snapshots: make(map[string]time.Time),
	}
}

// Poll walks the configured directories, stats every regular file, and
// reports whether any file is new, modified, or has disappeared since
// the previous Poll. It does not refresh the snapshot itself — call
// Commit after a successful rebuild.
func (w *Watcher) Poll() (changed bool) {
	current := make(map[string]time.Time, len(w.snapshots))

	for _, dir := range w.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				slog.Warn("watcher.stat_error", "path", path, "err", err)
				return nil
			}
			mtime := info.ModTime()
			current[path] = mtime

			if prev, ok := w.snapshots[path]; !ok || !prev.Equal(mtime) {
				changed = true
			}
			return nil
		})
		if err != nil {
			slog.Warn("watcher.poll_error", "dir", dir, "err", err)
		}
	}

	for path := range w.snapshots {
		if _, ok := current[path]; !ok {
			changed = true
		}
	}

	w.pending = current
	return changed
}

// Commit replaces the stored snapshot with the one observed by the
// most recent Poll. Call it after a rebuild has successfully completed
// for the corresponding change.
func (w *Watcher) Commit() {
	if w.pending != nil {
		w.snapshots = w.pending
		w.pending = nil
	}
}
