// SPDX-License-Identifier: AGPL-3.0-or-later

package supervisor

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulgidus/quotez/pkg/selector"
	"github.com/fulgidus/quotez/pkg/server"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	srv, err := server.Listen("127.0.0.1", 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

// TestServeUDPJob_DrainsPendingTCPJobFirst exercises the spec's
// "TCP before UDP within one turn" rule: when a TCP connection is
// already waiting to be handed off at the moment a UDP datagram is
// serviced, serveUDPJob must serve that TCP connection before replying
// to the UDP client.
func TestServeUDPJob_DrainsPendingTCPJobFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Hello.\n")

	srv := newTestServer(t)
	sup := New(srv, []string{dir}, selector.ModeSequential, time.Hour, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.AcceptLoop(ctx)

	conn, err := net.Dial("tcp", srv.TCPAddr().String())
	require.NoError(t, err)
	defer conn.Close()

	// Give AcceptLoop time to accept the connection and block trying to
	// hand it to tcpJobs, so it is genuinely "pending" below.
	time.Sleep(50 * time.Millisecond)

	clientUDP, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	defer clientUDP.Close()
	clientAddr := clientUDP.LocalAddr().(*net.UDPAddr)

	sup.serveUDPJob(clientAddr)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	tcpBuf := make([]byte, 64)
	n, err := conn.Read(tcpBuf)
	require.NoError(t, err)
	assert.Equal(t, "Hello.\n", string(tcpBuf[:n]))

	require.NoError(t, clientUDP.SetReadDeadline(time.Now().Add(2*time.Second)))
	udpBuf := make([]byte, 64)
	n, _, err = clientUDP.ReadFromUDP(udpBuf)
	require.NoError(t, err)
	assert.Equal(t, "Hello.\n", string(udpBuf[:n]))
}

// TestMaybeRebuild_NoFilesystemChangeKeepsSameCorpus demonstrates that
// an fsnotify hint alone is never sufficient to trigger a rebuild:
// maybeRebuild defers entirely to the watcher's own mtime poll, which
// reports no change here because nothing on disk actually changed.
func TestMaybeRebuild_NoFilesystemChangeKeepsSameCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Quote one.\n")

	srv := newTestServer(t)
	sup := New(srv, []string{dir}, selector.ModeRandom, time.Hour, false)

	before := sup.Corpus()
	sup.maybeRebuild()
	assert.Same(t, before, sup.Corpus())
}

// TestMaybeRebuild_FilesystemChangeSwapsCorpusAndResetsSelector checks
// the ordering the spec mandates: a real change makes maybeRebuild
// build a fresh corpus, atomically publish it, and reset the selector
// for the new size.
func TestMaybeRebuild_FilesystemChangeSwapsCorpusAndResetsSelector(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Quote one.\nQuote two.\n")

	srv := newTestServer(t)
	sup := New(srv, []string{dir}, selector.ModeSequential, time.Hour, false)
	before := sup.Corpus()
	require.Equal(t, 2, before.Size())

	// Advance the selector so Reset's effect (position back to 0) is observable.
	sup.sel.Next()

	writeFile(t, dir, "b.txt", "Quote three.\n")
	sup.maybeRebuild()

	after := sup.Corpus()
	assert.NotSame(t, before, after)
	assert.Equal(t, 3, after.Size())

	idx, ok := sup.sel.Next()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

// TestStartFsnotify_DisabledReturnsAnInertChannel confirms that
// disabling the fast path leaves the supervisor purely poll-driven:
// the returned channel never fires.
func TestStartFsnotify_DisabledReturnsAnInertChannel(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t)
	sup := New(srv, []string{dir}, selector.ModeRandom, time.Hour, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := sup.startFsnotify(ctx)
	select {
	case <-events:
		t.Fatal("expected no fsnotify events when fsnotify is disabled")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWaitDuration_NeverExceedsMinWaitOrPollingInterval(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t)

	short := New(srv, []string{dir}, selector.ModeRandom, 10*time.Millisecond, false)
	assert.Equal(t, 10*time.Millisecond, short.waitDuration())

	long := New(srv, []string{dir}, selector.ModeRandom, time.Hour, false)
	assert.Equal(t, minWait, long.waitDuration())
}
