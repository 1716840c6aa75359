// SPDX-License-Identifier: AGPL-3.0-or-later

// Package supervisor drives the main loop: it is the single goroutine
// that owns the live corpus pointer, the selector, and the watcher's
// snapshot, and the only caller of Selector.Next. Two auxiliary
// goroutines (the server's TCP accept loop and UDP receive loop)
// perform blocking I/O only and hand finished jobs to this loop over
// channels, reproducing the serialized-mutation guarantee of a
// select()-based event loop without a manual readiness multiplexer.
package supervisor

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fulgidus/quotez/internal/metrics"
	"github.com/fulgidus/quotez/pkg/corpus"
	"github.com/fulgidus/quotez/pkg/selector"
	"github.com/fulgidus/quotez/pkg/server"
	"github.com/fulgidus/quotez/pkg/watcher"
)

// minWait caps the readiness-wait timeout: the loop wakes at least this
// often to check the polling deadline. A polling interval shorter than
// minWait is used as the timeout instead.
const minWait = 100 * time.Millisecond

// Supervisor owns the corpus pointer, the selector, and the watcher,
// and drives the accept/poll loop for the lifetime of the process.
type Supervisor struct {
	dirs            []string
	pollingInterval time.Duration
	fsnotifyEnabled bool

	srv *server.Server
	sel *selector.Selector
	wch *watcher.Watcher

	corpus atomic.Pointer[corpus.Corpus]
}

// New builds a Supervisor. It performs the initial corpus build
// synchronously so the server never serves an uninitialized corpus.
func New(srv *server.Server, dirs []string, mode selector.Mode, pollingInterval time.Duration, fsnotifyEnabled bool) *Supervisor {
	s := &Supervisor{
		dirs:            dirs,
		pollingInterval: pollingInterval,
		fsnotifyEnabled: fsnotifyEnabled,
		srv:             srv,
		wch:             watcher.New(dirs),
	}

	initial := corpus.Build(dirs)
	s.corpus.Store(initial)
	s.wch.Poll()
	s.wch.Commit()

	s.sel = selector.New(mode, initial.Size())
	metrics.RecordBuild(initial.Metadata.UniqueQuotes, initial.Metadata.DuplicatesRemoved)

	return s
}

// Corpus returns the currently live corpus snapshot. Safe to call
// concurrently; the corpus itself is immutable once published.
func (s *Supervisor) Corpus() *corpus.Corpus {
	return s.corpus.Load()
}

// Run drives the accept/poll loop until ctx is canceled.
func (s *Supervisor) Run(ctx context.Context) {
	fsEvents := s.startFsnotify(ctx)

	lastPoll := time.Now()
	waitTimeout := s.waitDuration()
	timer := time.NewTimer(waitTimeout)
	defer timer.Stop()

	dirty := false

	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-s.srv.TCPJobs():
			server.ServeTCP(conn, s.corpus.Load(), s.sel)
			metrics.Requests.WithLabelValues("tcp").Inc()
			if s.corpus.Load().Empty() {
				metrics.EmptyCorpusRequests.WithLabelValues("tcp").Inc()
			}
			continue

		case addr := <-s.srv.UDPJobs():
			s.serveUDPJob(addr)
			continue

		case <-fsEvents:
			dirty = true
			continue

		case <-timer.C:
			if dirty || time.Since(lastPoll) >= s.pollingInterval {
				s.maybeRebuild()
				lastPoll = time.Now()
				dirty = false
			}
			timer.Reset(s.waitDuration())
		}
	}
}

// serveUDPJob prioritizes draining any pending TCP job before handling
// a UDP one, matching the spec's "TCP before UDP within one turn" rule
// even though the two arrive on separate channels.
func (s *Supervisor) serveUDPJob(addr *net.UDPAddr) {
	select {
	case conn := <-s.srv.TCPJobs():
		server.ServeTCP(conn, s.corpus.Load(), s.sel)
		metrics.Requests.WithLabelValues("tcp").Inc()
		if s.corpus.Load().Empty() {
			metrics.EmptyCorpusRequests.WithLabelValues("tcp").Inc()
		}
	default:
	}

	server.ServeUDP(s.srv.UDPConn(), addr, s.corpus.Load(), s.sel)
	metrics.Requests.WithLabelValues("udp").Inc()
	if s.corpus.Load().Empty() {
		metrics.EmptyCorpusRequests.WithLabelValues("udp").Inc()
	}
}

// waitDuration returns the readiness-wait timeout: the smaller of the
// configured polling interval and minWait, so a long polling interval
// never stalls request dispatch and a very short one is still honored.
func (s *Supervisor) waitDuration() time.Duration {
	if s.pollingInterval < minWait {
		return s.pollingInterval
	}
	return minWait
}

// maybeRebuild polls the watcher and, on change, builds a fresh corpus
// and atomically swaps it in, then resets the selector for the new
// size. The old corpus continues serving requests until this swap.
func (s *Supervisor) maybeRebuild() {
	if !s.wch.Poll() {
		return
	}

	slog.Info("watcher.change_detected")
	fresh := corpus.Build(s.dirs)
	s.corpus.Store(fresh)
	s.wch.Commit()
	s.sel.Reset(fresh.Size())
	metrics.RecordBuild(fresh.Metadata.UniqueQuotes, fresh.Metadata.DuplicatesRemoved)
}

// startFsnotify registers an fsnotify watch on the configured
// directories and returns a channel that receives a value whenever a
// filesystem event arrives. It never influences whether a rebuild
// happens — only how soon the next Poll runs. A failure to start
// fsnotify (e.g. inotify watch limits exhausted) degrades to pure
// polling, logged once.
func (s *Supervisor) startFsnotify(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	if !s.fsnotifyEnabled {
		return out
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("watcher.fsnotify_unavailable", "err", err)
		return out
	}

	for _, dir := range s.dirs {
		if err := fsw.Add(dir); err != nil {
			slog.Warn("watcher.fsnotify_add_failed", "dir", dir, "err", err)
		}
	}

	go func() {
		defer fsw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-fsw.Events:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				slog.Debug("watcher.fsnotify_error", "err", err)
			}
		}
	}()

	return out
}
