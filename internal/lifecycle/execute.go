package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/encoding"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

// Execute runs all phases in order and finalizes the report. The returned
// error is the first fatal (or cancellation) PhaseError, nil when the run
// succeeded, warnings included.
func (r *Run) Execute(ctx context.Context) error {
	phases := []PhaseDef{
		{Name: PhaseGatherFiles, Fn: phaseGather},
		{Name: PhasePruneFiles, Fn: phasePrune},
		{Name: PhaseMungeFiles, Fn: phaseMunge},
		{Name: PhaseSetupInstall, Fn: phaseSetupInstall},
		{Name: PhaseWriteBuild, Fn: phaseWriteBuild},
		{Name: PhaseAfterBuild, Fn: phaseAfterBuild},
	}
	if r.Release {
		phases = append(phases, PhaseDef{Name: PhaseAfterRelease, Fn: phaseAfterRelease})
	}

	err := r.runPhases(ctx, phases)

	r.Report.End = time.Now()
	total := r.Report.End.Sub(r.Report.Start)
	r.Metrics.ObserveRunDuration(total)

	outcome := "success"
	if err != nil {
		outcome = "failed"
		var pe *PhaseError
		if errors.As(err, &pe) && pe.Kind == PhaseErrorCanceled {
			outcome = "canceled"
		}
	}
	r.Report.Outcome = outcome
	r.Metrics.IncRunOutcome(outcome)

	slog.Info("Run finished",
		logfields.RunID(r.ID),
		slog.String("outcome", outcome),
		slog.Int("files", r.Files.Len()),
		slog.Int("generated", r.Report.Generated),
		slog.Int("warnings", len(r.Report.Warnings)),
		logfields.DurationMS(float64(total.Milliseconds())))
	return err
}

// runPhases executes phases in order, recording timing and stopping on first
// fatal error.
func (r *Run) runPhases(ctx context.Context, phases []PhaseDef) error {
	for _, ph := range phases {
		select {
		case <-ctx.Done():
			pe := newCanceled(ph.Name, ctx.Err())
			r.Report.Errors = append(r.Report.Errors, pe)
			r.Report.PhaseErrorKinds[ph.Name] = pe.Kind
			return pe
		default:
		}
		t0 := time.Now()
		err := ph.Fn(ctx, r)
		dur := time.Since(t0)
		r.Report.PhaseDurations[ph.Name] = dur
		r.Metrics.ObservePhaseDuration(string(ph.Name), dur)
		if err == nil {
			r.Metrics.IncPhaseResult(string(ph.Name), metrics.ResultSuccess)
			continue
		}

		var pe *PhaseError
		if !errors.As(err, &pe) {
			// Wrap unknown errors as fatal by default.
			pe = NewFatal(ph.Name, err)
		}
		r.Report.PhaseErrorKinds[ph.Name] = pe.Kind
		switch pe.Kind {
		case PhaseErrorWarning:
			r.Report.Warnings = append(r.Report.Warnings, pe)
			r.Metrics.IncPhaseResult(string(ph.Name), metrics.ResultWarning)
			slog.Warn("Phase finished with warning",
				logfields.RunID(r.ID), logfields.Phase(string(ph.Name)), logfields.Error(pe.Err))
			continue
		default:
			r.Report.Errors = append(r.Report.Errors, pe)
			r.Metrics.IncPhaseResult(string(ph.Name), metrics.ResultFatal)
			return pe
		}
	}
	return nil
}

// dispatch invokes call for every registered hook in order. Warnings are
// collected so one instance cannot starve its peers; any other failure stops
// the phase immediately.
func (r *Run) dispatch(phase PhaseName, call func(Hook) (bool, error)) error {
	var warns []error
	for _, h := range r.hooks {
		handled, err := call(h)
		if !handled || err == nil {
			continue
		}
		var pe *PhaseError
		if errors.As(err, &pe) && pe.Kind == PhaseErrorWarning {
			warns = append(warns, pe.Err)
			continue
		}
		return err
	}
	if len(warns) == 0 {
		return nil
	}
	return NewWarning(phase, errors.Join(warns...))
}

// Individual phase implementations.

// phaseGather loads the project tree into the run's file set, then lets
// hooks contribute their own entries.
func phaseGather(ctx context.Context, r *Run) error {
	set, err := r.Project.Gather(r.BuildDir)
	if err != nil {
		return err
	}
	r.Files = set
	return r.dispatch(PhaseGatherFiles, func(h Hook) (bool, error) {
		g, ok := h.(FileGatherer)
		if !ok {
			return false, nil
		}
		return true, g.GatherFiles(ctx, r)
	})
}

func phasePrune(ctx context.Context, r *Run) error {
	return r.dispatch(PhasePruneFiles, func(h Hook) (bool, error) {
		p, ok := h.(FilePruner)
		if !ok {
			return false, nil
		}
		return true, p.PruneFiles(ctx, r)
	})
}

func phaseMunge(ctx context.Context, r *Run) error {
	return r.dispatch(PhaseMungeFiles, func(h Hook) (bool, error) {
		m, ok := h.(FileMunger)
		if !ok {
			return false, nil
		}
		return true, m.MungeFiles(ctx, r)
	})
}

func phaseSetupInstall(ctx context.Context, r *Run) error {
	return r.dispatch(PhaseSetupInstall, func(h Hook) (bool, error) {
		p, ok := h.(InstallPreparer)
		if !ok {
			return false, nil
		}
		return true, p.SetupInstall(ctx, r)
	})
}

// phaseWriteBuild writes the file set to the build directory, applying each
// file's declared encoding at the filesystem boundary.
func phaseWriteBuild(ctx context.Context, r *Run) error {
	for _, f := range r.Files.List() {
		select {
		case <-ctx.Done():
			return newCanceled(PhaseWriteBuild, ctx.Err())
		default:
		}
		codec, err := encoding.Lookup(f.Encoding())
		if err != nil {
			return fmt.Errorf("write %s: %w", f.Name(), err)
		}
		data, err := codec.Encode(f.Content())
		if err != nil {
			return fmt.Errorf("write %s: %w", f.Name(), err)
		}
		dst := r.BuildPath(f.Name())
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("write %s: %w", f.Name(), err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Name(), err)
		}
	}
	slog.Debug("Wrote build tree",
		logfields.RunID(r.ID), logfields.Path(r.BuildDir), slog.Int("files", r.Files.Len()))
	return nil
}

func phaseAfterBuild(ctx context.Context, r *Run) error {
	return r.dispatch(PhaseAfterBuild, func(h Hook) (bool, error) {
		b, ok := h.(BuildFinisher)
		if !ok {
			return false, nil
		}
		return true, b.AfterBuild(ctx, r)
	})
}

func phaseAfterRelease(ctx context.Context, r *Run) error {
	return r.dispatch(PhaseAfterRelease, func(h Hook) (bool, error) {
		f, ok := h.(ReleaseFinisher)
		if !ok {
			return false, nil
		}
		return true, f.AfterRelease(ctx, r)
	})
}
