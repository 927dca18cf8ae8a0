// Package lifecycle orchestrates one build run as an ordered sequence of
// phases and dispatches each phase to the hooks that opt into it. Phases
// record timing and classify failures; a warning-classified failure is logged
// and the run continues, anything else aborts.
package lifecycle

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/fileset"
	"git.home.luguber.info/inful/readmegen/internal/format"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
	"git.home.luguber.info/inful/readmegen/internal/naming"
	"git.home.luguber.info/inful/readmegen/internal/project"
	"git.home.luguber.info/inful/readmegen/internal/util/sets"
)

// RunReport carries the observable outcome of a run.
type RunReport struct {
	Start           time.Time
	End             time.Time
	PhaseDurations  map[PhaseName]time.Duration
	PhaseErrorKinds map[PhaseName]PhaseErrorKind
	Errors          []error // fatal errors causing run abortion (at most one today)
	Warnings        []error // non-fatal issues recorded along the way
	Generated       int     // artifacts (re)generated during the run
	Outcome         string  // success | failed | canceled
}

func newRunReport() *RunReport {
	return &RunReport{
		Start:           time.Now(),
		PhaseDurations:  make(map[PhaseName]time.Duration),
		PhaseErrorKinds: make(map[PhaseName]PhaseErrorKind),
	}
}

// Run carries the mutable state of one build across phases: the file set
// being assembled, the registered hooks, and everything those hooks share.
type Run struct {
	ID          string
	Project     *project.Project
	BuildDir    string // build output directory, relative to the project root
	Release     bool
	ReleaseInfo project.ReleaseInfo
	Files       *fileset.Set
	Names       *naming.Resolver
	Watched     sets.Set[string] // source filenames with an active change watcher
	Metrics     metrics.Recorder
	Report      *RunReport

	hooks []Hook

	mu        sync.RWMutex
	listeners []GenerationListener
}

// NewRun constructs a Run for the given project. Release selects whether the
// after-release phase executes.
func NewRun(p *project.Project, buildDir string, release bool) *Run {
	return &Run{
		ID:          uuid.NewString(),
		Project:     p,
		BuildDir:    buildDir,
		Release:     release,
		ReleaseInfo: p.ReleaseInfo(),
		Files:       fileset.NewSet(),
		Names:       naming.NewResolver(format.AllIDs(), config.LocationValues()),
		Watched:     sets.New[string](),
		Metrics:     metrics.NoopRecorder{},
		Report:      newRunReport(),
	}
}

// Register adds a hook to the run. Hooks execute in registration order
// within each phase.
func (r *Run) Register(h Hook) {
	if h == nil {
		return
	}
	r.hooks = append(r.hooks, h)
	slog.Debug("Registered lifecycle hook", logfields.RunID(r.ID), logfields.Plugin(h.PluginName()))
}

// Hooks returns the registered hooks in registration order. The slice is a
// copy; hooks inspect each other through it (peer guards) without being able
// to reorder the run.
func (r *Run) Hooks() []Hook {
	return append([]Hook(nil), r.hooks...)
}

// Subscribe registers a listener for generation events.
func (r *Run) Subscribe(l GenerationListener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// RecordGeneration publishes a generation event to all listeners and updates
// run metrics. Listener failures are logged, never propagated; observation
// must not fail the build.
func (r *Run) RecordGeneration(ctx context.Context, ev GenerationEvent) {
	if ev.RunID == "" {
		ev.RunID = r.ID
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	r.Report.Generated++
	r.Metrics.IncGeneration(ev.Format, ev.Trigger)
	r.Metrics.ObserveArtifactBytes(ev.Format, ev.Bytes)

	r.mu.RLock()
	ls := append([]GenerationListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, l := range ls {
		if err := l.OnGeneration(ctx, ev); err != nil {
			slog.Warn("Generation listener failed",
				logfields.RunID(r.ID), logfields.Format(ev.Format), logfields.Error(err))
		}
	}
}

// BuildPath returns the on-disk path of name inside the build output tree.
func (r *Run) BuildPath(name string) string {
	return filepath.Join(r.Project.Root, filepath.FromSlash(r.BuildDir), filepath.FromSlash(name))
}

// RootPath returns the on-disk path of name in the project root.
func (r *Run) RootPath(name string) string {
	return filepath.Join(r.Project.Root, filepath.FromSlash(name))
}
