// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics declares the small set of Prometheus counters and
// gauges quotezd exposes when metrics.listen_addr is configured. The
// registry always exists; only the HTTP listener is conditional, so
// instrumentation calls never need to check whether metrics are
// enabled.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CorpusQuotes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quotezd_corpus_quotes",
		Help: "Number of unique quotes in the currently live corpus.",
	})

	CorpusRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotezd_corpus_rebuilds_total",
		Help: "Total number of corpus builds, including the initial startup build.",
	})

	CorpusDuplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotezd_corpus_duplicates_total",
		Help: "Cumulative duplicate quotes removed across all builds, including the initial startup build.",
	})

	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quotezd_requests_total",
		Help: "Total number of requests served, by transport.",
	}, []string{"transport"})

	EmptyCorpusRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quotezd_empty_corpus_total",
		Help: "Requests served while the corpus was empty, by transport.",
	}, []string{"transport"})
)

// RecordBuild updates the corpus gauges/counters after a rebuild.
func RecordBuild(uniqueQuotes, duplicatesRemoved int) {
	CorpusQuotes.Set(float64(uniqueQuotes))
	CorpusRebuilds.Inc()
	CorpusDuplicates.Add(float64(duplicatesRemoved))
}

// Serve starts the /metrics HTTP listener on addr and blocks until ctx
// is canceled. It is a no-op if addr is empty.
func Serve(ctx context.Context, addr string) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics.http.start", "addr", addr, "path", "/metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Warn("metrics.http.error", "err", err)
	}
}
