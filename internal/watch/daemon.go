// Package watch implements the standalone watch daemon: filesystem events on
// the resolved readme sources trigger debounced full regeneration runs, with
// an optional interval-based refresh and a metrics endpoint.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/readmegen/internal/config"
	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
	"git.home.luguber.info/inful/readmegen/internal/plugin"
	"git.home.luguber.info/inful/readmegen/internal/project"
	"git.home.luguber.info/inful/readmegen/internal/util/sets"
)

// Daemon regenerates readme artifacts continuously. Every disk change to a
// resolved source file, and optionally every refresh interval, executes one
// full run.
type Daemon struct {
	cfg      *config.Config
	project  *project.Project
	buildDir string

	debounce time.Duration
	interval time.Duration

	registry  *prometheus.Registry
	recorder  *metrics.PrometheusRecorder
	listeners []lifecycle.GenerationListener

	status runStatus
}

// New creates a daemon for the given project. Watch tuning comes from the
// watch section of the configuration.
func New(cfg *config.Config, proj *project.Project, buildDir string) *Daemon {
	registry := prometheus.NewRegistry()
	return &Daemon{
		cfg:      cfg,
		project:  proj,
		buildDir: buildDir,
		debounce: cfg.Watch.DebounceDuration(),
		interval: cfg.Watch.IntervalDuration(),
		registry: registry,
		recorder: metrics.NewPrometheusRecorder(registry),
	}
}

// Subscribe attaches a listener to every run the daemon executes.
func (d *Daemon) Subscribe(l lifecycle.GenerationListener) {
	if l != nil {
		d.listeners = append(d.listeners, l)
	}
}

// Run executes an initial generation, then blocks watching for source
// changes until the context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	sources, dirs, err := d.resolveSources()
	if err != nil {
		return err
	}

	// Generate once up front so the build tree is current even when no
	// source ever changes.
	if err := d.regenerate(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return rgerrors.WatchSetupError(err)
	}
	defer func() { _ = watcher.Close() }()
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return rgerrors.WatchSetupError(fmt.Errorf("watch %s: %w", dir, err))
		}
	}
	slog.Info("Watching readme sources",
		slog.Int("sources", sources.Len()),
		slog.Int("dirs", len(dirs)),
		slog.Duration("debounce", d.debounce))

	rebuildReq := make(chan struct{}, 1)
	trigger := d.newDebouncer(rebuildReq)
	d.startWorker(ctx, rebuildReq)

	srv := d.startMetricsServer()
	sched, err := d.startScheduler(trigger)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return d.shutdown(srv, sched, rebuildReq)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			d.handleEvent(ev, sources, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

// handleEvent filters filesystem noise down to mutations of watched sources.
func (d *Daemon) handleEvent(ev fsnotify.Event, sources sets.Set[string], trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if !sources.Has(filepath.Clean(ev.Name)) {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	slog.Debug("Source change detected",
		logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// newDebouncer returns a trigger that forwards to rebuildReq after the
// debounce window, restarting the window on every call.
func (d *Daemon) newDebouncer(rebuildReq chan struct{}) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d.debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
}

// startWorker processes rebuild requests one at a time. The request channel
// holds at most one entry, so changes arriving during a run collapse into a
// single follow-up run.
func (d *Daemon) startWorker(ctx context.Context, rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				if err := d.regenerate(ctx); err != nil {
					slog.Error("Regeneration run failed", logfields.Error(err))
				}
			}
		}
	}()
}

// regenerate executes one full run over the current configuration.
func (d *Daemon) regenerate(ctx context.Context) error {
	run := lifecycle.NewRun(d.project, d.buildDir, false)
	run.Metrics = d.recorder
	for _, l := range d.listeners {
		run.Subscribe(l)
	}
	if _, err := plugin.RegisterAll(run, d.cfg.Readmes); err != nil {
		d.status.setError(err)
		return err
	}
	if err := run.Execute(ctx); err != nil {
		d.status.setError(err)
		return err
	}
	d.status.setSuccess()
	return nil
}

// shutdown stops the auxiliary servers and the rebuild worker.
func (d *Daemon) shutdown(srv *http.Server, sched gocron.Scheduler, rebuildReq chan struct{}) error {
	slog.Info("Shutting down watch daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics server shutdown error", logfields.Error(err))
		}
	}
	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown error", logfields.Error(err))
		}
	}
	close(rebuildReq)
	return nil
}
