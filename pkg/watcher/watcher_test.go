// SPDX-License-Identifier: AGPL-3.0-or-later

package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_FirstCallAlwaysReportsChanged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	w := New([]string{dir})
	assert.True(t, w.Poll())
}

func TestPoll_NoChangeAfterCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	w := New([]string{dir})
	w.Poll()
	w.Commit()

	assert.False(t, w.Poll())
}

func TestPoll_DetectsModifiedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w := New([]string{dir})
	w.Poll()
	w.Commit()

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	assert.True(t, w.Poll())
}

func TestPoll_DetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	w := New([]string{dir})
	w.Poll()
	w.Commit()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("y"), 0o644))
	assert.True(t, w.Poll())
}

func TestPoll_DetectsDeletedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w := New([]string{dir})
	w.Poll()
	w.Commit()

	require.NoError(t, os.Remove(path))
	assert.True(t, w.Poll())
}

func TestCommit_WithoutPriorPollIsANoOp(t *testing.T) {
	w := New([]string{t.TempDir()})
	assert.NotPanics(t, func() { w.Commit() })
}

func TestPoll_WithoutCommitKeepsReportingChanged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	w := New([]string{dir})
	assert.True(t, w.Poll())
	// No Commit call: the snapshot was never adopted, so the same
	// change is still "new" on the next poll.
	assert.True(t, w.Poll())
}
