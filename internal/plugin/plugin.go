// Package plugin implements the readme generator: one instance per
// configured artifact, each reacting to build lifecycle phases to register,
// prune, generate, and refresh its output file. Configuration is resolved
// once per instance by merging explicit options with name inference and
// defaults.
package plugin

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"git.home.luguber.info/inful/readmegen/internal/config"
	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
	"git.home.luguber.info/inful/readmegen/internal/fileset"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/pod"
)

// Plugin is one readme generator instance.
type Plugin struct {
	name     string
	opts     Options
	pipeline Pipeline

	resolveOnce sync.Once
	resolved    ResolvedConfig
	resolveErr  error

	state State
}

// New constructs an unconfigured instance. Resolution happens on first use
// or via Configure.
func New(name string, opts Options) *Plugin {
	return &Plugin{name: name, opts: opts, state: StateIdle}
}

// PluginName identifies the instance in logs, events, and peer checks.
func (p *Plugin) PluginName() string { return p.name }

// State returns the instance's current protocol state.
func (p *Plugin) State() State { return p.state }

// Configure resolves and validates the effective configuration. Calling it
// before the run starts surfaces contradictory options before any file-set
// mutation.
func (p *Plugin) Configure(run *lifecycle.Run) error {
	_, err := p.resolve(run)
	return err
}

// Config returns the resolved configuration, for inspection tooling.
func (p *Plugin) Config(run *lifecycle.Run) (ResolvedConfig, error) {
	return p.resolve(run)
}

// resolve computes the configuration exactly once; later option changes have
// no effect.
func (p *Plugin) resolve(run *lifecycle.Run) (ResolvedConfig, error) {
	p.resolveOnce.Do(func() {
		p.resolved, p.resolveErr = p.computeConfig(run)
	})
	return p.resolved, p.resolveErr
}

// GatherFiles inserts a placeholder target into the file set for
// build-located instances, unless a file with that name is already present
// (for example checked into the source tree).
func (p *Plugin) GatherFiles(ctx context.Context, run *lifecycle.Run) error {
	cfg, err := p.resolve(run)
	if err != nil {
		return err
	}
	if cfg.Location != config.LocationBuild {
		return nil
	}
	if run.Files.Find(cfg.Filename) != nil {
		slog.Debug("Target already present; skipping placeholder",
			logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Filename(cfg.Filename))
		p.state = StateRegistered
		return nil
	}
	if err := run.Files.Insert(fileset.NewFile(cfg.Filename, "")); err != nil {
		return err
	}
	p.state = StateRegistered
	slog.Debug("Registered placeholder readme",
		logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Filename(cfg.Filename))
	return nil
}

// PruneFiles removes the target from the file set for root-located
// instances, so a checked-in copy does not ship inside the build. The file
// is left alone when a peer instance generates the same filename into the
// build.
func (p *Plugin) PruneFiles(ctx context.Context, run *lifecycle.Run) error {
	cfg, err := p.resolve(run)
	if err != nil {
		return err
	}
	if cfg.Location != config.LocationRoot {
		return nil
	}
	if p.peerOwnsTarget(run, cfg.Filename) {
		slog.Debug("Leaving build copy in place; a peer instance owns it",
			logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Filename(cfg.Filename))
		return nil
	}
	if run.Files.Remove(cfg.Filename) {
		slog.Debug("Pruned readme from build file set",
			logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Filename(cfg.Filename))
	}
	return nil
}

// peerOwnsTarget reports whether another readme instance in the same run
// generates the identical filename into the build output. Pruning in that
// case would destroy the peer's artifact.
func (p *Plugin) peerOwnsTarget(run *lifecycle.Run, filename string) bool {
	for _, h := range run.Hooks() {
		peer, ok := h.(*Plugin)
		if !ok || peer == p {
			continue
		}
		pc, err := peer.resolve(run)
		if err != nil {
			continue
		}
		if pc.Location == config.LocationBuild && pc.Filename == filename {
			return true
		}
	}
	return false
}

// MungeFiles generates the build-located artifact while file contents are
// still editable, then arms a change watcher so edits made by later-ordered
// steps trigger regeneration.
func (p *Plugin) MungeFiles(ctx context.Context, run *lifecycle.Run) error {
	cfg, err := p.resolve(run)
	if err != nil {
		return err
	}
	if cfg.Location != config.LocationBuild || cfg.Refresh != config.RefreshWatch {
		return nil
	}
	if err := p.generateIntoBuild(ctx, run, cfg, "build"); err != nil {
		return err
	}
	p.armWatcher(ctx, run, cfg)
	return nil
}

// SetupInstall is the unconditional-rewrite policy: regenerate the
// build-located artifact right before the build tree is written, without
// watching for further changes.
func (p *Plugin) SetupInstall(ctx context.Context, run *lifecycle.Run) error {
	cfg, err := p.resolve(run)
	if err != nil {
		return err
	}
	if cfg.Location != config.LocationBuild || cfg.Refresh != config.RefreshSetup {
		return nil
	}
	return p.generateIntoBuild(ctx, run, cfg, "setup")
}

// AfterBuild writes root-located artifacts for build-phase instances.
func (p *Plugin) AfterBuild(ctx context.Context, run *lifecycle.Run) error {
	cfg, err := p.resolve(run)
	if err != nil {
		return err
	}
	if cfg.Location != config.LocationRoot || cfg.Phase != config.PhaseBuild {
		return nil
	}
	return p.generateIntoRoot(ctx, run, cfg, "build")
}

// AfterRelease writes root-located artifacts for release-phase instances.
func (p *Plugin) AfterRelease(ctx context.Context, run *lifecycle.Run) error {
	cfg, err := p.resolve(run)
	if err != nil {
		return err
	}
	if cfg.Location != config.LocationRoot || cfg.Phase != config.PhaseRelease {
		return nil
	}
	return p.generateIntoRoot(ctx, run, cfg, "release")
}

// generateIntoBuild recomputes the artifact from the source file's current
// content and overwrites the in-set target in place.
func (p *Plugin) generateIntoBuild(ctx context.Context, run *lifecycle.Run, cfg ResolvedConfig, trigger string) error {
	src := run.Files.Find(cfg.SourceFilename)
	if src == nil {
		return sourceNotFound(p.name, cfg.SourceFilename)
	}
	target := run.Files.Find(cfg.Filename)
	if target == nil {
		return targetMissing(p.name, cfg.Filename)
	}

	markup := p.pipeline.ExtractMarkup(src.Content())
	content := p.pipeline.Render(markup, cfg.Format)
	if enc := pod.DeclaredEncoding(markup); enc != "" {
		target.SetEncoding(enc)
	}
	target.SetContent(content)
	p.state = StateContentGenerated

	run.RecordGeneration(ctx, lifecycle.GenerationEvent{
		Plugin:      p.name,
		Format:      string(cfg.Format.ID),
		Filename:    cfg.Filename,
		Location:    string(cfg.Location),
		Phase:       string(cfg.Phase),
		Trigger:     trigger,
		Bytes:       len(content),
		Fingerprint: artifactFingerprint(content),
		Commit:      run.ReleaseInfo.Commit,
		Tag:         run.ReleaseInfo.Tag,
	})
	slog.Info("Generated readme",
		logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Format(string(cfg.Format.ID)),
		logfields.Filename(cfg.Filename), logfields.Trigger(trigger), slog.Int("bytes", len(content)))
	return nil
}

// generateIntoRoot renders the artifact to bytes and writes it at the
// project root, outside the build tree.
func (p *Plugin) generateIntoRoot(ctx context.Context, run *lifecycle.Run, cfg ResolvedConfig, trigger string) error {
	src := run.Files.Find(cfg.SourceFilename)
	if src == nil {
		return sourceNotFound(p.name, cfg.SourceFilename)
	}

	markup := p.pipeline.ExtractMarkup(src.Content())
	data, err := p.pipeline.RenderBytes(markup, cfg.Format)
	if err != nil {
		return rgerrors.RenderFailed(string(cfg.Format.ID), err)
	}

	dst := run.RootPath(cfg.Filename)
	if _, statErr := os.Stat(dst); statErr == nil {
		slog.Info("Overwriting existing readme file",
			logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Path(dst))
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return rgerrors.OutputError("write "+cfg.Filename, err)
	}
	p.state = StateContentGenerated

	run.RecordGeneration(ctx, lifecycle.GenerationEvent{
		Plugin:      p.name,
		Format:      string(cfg.Format.ID),
		Filename:    cfg.Filename,
		Location:    string(cfg.Location),
		Phase:       string(cfg.Phase),
		Trigger:     trigger,
		Bytes:       len(data),
		Fingerprint: artifactFingerprint(string(data)),
		Commit:      run.ReleaseInfo.Commit,
		Tag:         run.ReleaseInfo.Tag,
	})
	slog.Info("Generated readme at project root",
		logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Format(string(cfg.Format.ID)),
		logfields.Filename(cfg.Filename), logfields.Trigger(trigger), slog.Int("bytes", len(data)))
	return nil
}

// armWatcher registers a change listener for the instance's source file, at
// most one per distinct source filename per run. The listener regenerates
// the artifact when the source content diverges from the last-read baseline.
func (p *Plugin) armWatcher(ctx context.Context, run *lifecycle.Run, cfg ResolvedConfig) {
	if !run.Watched.Add(cfg.SourceFilename) {
		// Another instance already watches this source.
		return
	}
	run.Files.OnChange(func(f *fileset.File) {
		if f.Name() != cfg.SourceFilename {
			return
		}
		if !p.pipeline.Changed(f.Content()) {
			return
		}
		slog.Info("Source modified after read; regenerating readme",
			logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Source(cfg.SourceFilename))
		if err := p.generateIntoBuild(ctx, run, cfg, "watch"); err != nil {
			// The listener fires inside another step's mutation, so the
			// failure cannot abort that step from here. Record and log it.
			run.Report.Warnings = append(run.Report.Warnings, err)
			slog.Error("Regeneration failed",
				logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Error(err))
			return
		}
		p.state = StateRegenerated
	})
	p.state = StateWatching
}

// RegisterAll constructs and registers one plugin per configured instance,
// then eagerly resolves every configuration so contradictory options abort
// before any phase touches the file set.
func RegisterAll(run *lifecycle.Run, instances []config.ReadmeConfig) ([]*Plugin, error) {
	plugins := make([]*Plugin, 0, len(instances))
	for _, rc := range instances {
		p := New(rc.Name, Options{
			Type:           rc.Type,
			Filename:       rc.Filename,
			SourceFilename: rc.SourceFilename,
			Location:       rc.Location,
			Phase:          rc.Phase,
			Refresh:        rc.Refresh,
		})
		run.Register(p)
		plugins = append(plugins, p)
	}
	for _, p := range plugins {
		if err := p.Configure(run); err != nil {
			return nil, err
		}
	}
	return plugins, nil
}
