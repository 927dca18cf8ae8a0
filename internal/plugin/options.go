package plugin

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/config"
	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
	"git.home.luguber.info/inful/readmegen/internal/format"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
)

// Options are the explicit per-instance settings. Empty fields fall through
// to name inference and then to defaults during resolution.
type Options struct {
	Type           string
	Filename       string
	SourceFilename string
	Location       string
	Phase          string
	Refresh        string
}

// ResolvedConfig is the fully-populated effective configuration of one
// instance. Immutable once computed.
type ResolvedConfig struct {
	Format         format.Spec
	Filename       string
	SourceFilename string
	Location       config.Location
	Phase          config.Phase
	Refresh        config.Refresh
}

// computeConfig merges explicit options, name inference, and defaults into a
// ResolvedConfig. Precedence per field: explicit > inferred > default; only
// type and location can be inferred from the name.
func (p *Plugin) computeConfig(run *lifecycle.Run) (ResolvedConfig, error) {
	inf := run.Names.Resolve(p.name)

	formatID := strings.ToLower(strings.TrimSpace(p.opts.Type))
	if formatID == "" {
		formatID = inf.Format.UnwrapOr(string(format.Text))
	}
	spec, err := format.Lookup(format.ID(formatID))
	if err != nil {
		return ResolvedConfig{}, rgerrors.Wrap(err,
			rgerrors.CategoryValidation, rgerrors.SeverityFatal,
			"unknown readme type for instance "+p.name)
	}

	locationStr := p.opts.Location
	if locationStr == "" {
		locationStr = inf.Location.UnwrapOr(string(config.LocationBuild))
	}
	location, err := config.ParseLocation(locationStr)
	if err != nil {
		return ResolvedConfig{}, invalidConfiguration(p.name, err.Error())
	}

	phase := config.PhaseBuild
	if p.opts.Phase != "" {
		phase, err = config.ParsePhase(p.opts.Phase)
		if err != nil {
			return ResolvedConfig{}, invalidConfiguration(p.name, err.Error())
		}
	}

	refresh := config.RefreshWatch
	if p.opts.Refresh != "" {
		refresh, err = config.ParseRefresh(p.opts.Refresh)
		if err != nil {
			return ResolvedConfig{}, invalidConfiguration(p.name, err.Error())
		}
	}

	if location == config.LocationBuild && phase == config.PhaseRelease {
		return ResolvedConfig{}, invalidConfiguration(p.name,
			"location=build cannot pair with phase=release; release-time content cannot reach an already-written build")
	}
	if location == config.LocationBuild && spec.ID == format.Pod {
		slog.Warn("Readme of type pod in the build tree risks colliding with packaging conventions",
			logfields.Plugin(p.name), logfields.Filename(spec.OutputFilename))
	}

	filename := p.opts.Filename
	if filename == "" {
		filename = spec.OutputFilename
	}

	source := p.opts.SourceFilename
	if source == "" {
		source, err = run.Project.DefaultSourceFile()
		if err != nil {
			return ResolvedConfig{}, rgerrors.Wrap(err,
				rgerrors.CategorySource, rgerrors.SeverityFatal,
				"default readme source could not be determined for instance "+p.name)
		}
	}

	cfg := ResolvedConfig{
		Format:         spec,
		Filename:       filename,
		SourceFilename: source,
		Location:       location,
		Phase:          phase,
		Refresh:        refresh,
	}
	slog.Debug("Resolved readme configuration",
		logfields.RunID(run.ID), logfields.Plugin(p.name), logfields.Format(formatID),
		logfields.Filename(cfg.Filename), logfields.Source(cfg.SourceFilename),
		logfields.Location(string(cfg.Location)), logfields.Phase(string(cfg.Phase)))
	return cfg, nil
}
