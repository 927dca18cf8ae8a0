package watch

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

// runStatus tracks the last run outcome for the health endpoint.
type runStatus struct {
	mu         sync.RWMutex
	lastError  error
	hasGoodRun bool
}

func (s *runStatus) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

func (s *runStatus) setSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = nil
	s.hasGoodRun = true
}

// healthy reports false only when the daemon has never completed a run.
// After a first success the build tree stays servable, so later failures
// degrade to warnings.
func (s *runStatus) healthy() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastError != nil && !s.hasGoodRun {
		return false, s.lastError
	}
	return true, nil
}

// startMetricsServer serves /metrics and /healthz when watch.metrics_addr is
// configured. Returns nil when disabled.
func (d *Daemon) startMetricsServer() *http.Server {
	addr := d.cfg.Watch.MetricsAddr
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(d.registry))
	mux.HandleFunc("/healthz", d.handleHealth)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		slog.Info("Metrics endpoint listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}

func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if ok, lastErr := d.status.healthy(); !ok {
		http.Error(w, lastErr.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
