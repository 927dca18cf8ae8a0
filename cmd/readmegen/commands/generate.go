package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/plugin"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Release  bool   `help:"Run the after-release phase once the build output is written"`
	BuildDir string `name:"build-dir" short:"b" help:"Override the build output directory"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyLogging(cfg.Logging, root.Verbose)
	if err := cfg.Validate(); err != nil {
		return err
	}

	buildDir := cfg.Build.Directory
	if g.BuildDir != "" {
		buildDir = g.BuildDir
	}
	return RunGenerate(context.Background(), cfg, buildDir, g.Release)
}

// RunGenerate executes one full lifecycle run over the configured readme
// instances and reports the outcome on stdout.
func RunGenerate(ctx context.Context, cfg *config.Config, buildDir string, release bool) error {
	// Provide friendly user-facing messages on stdout for CLI integration tests.
	fmt.Println("Starting readme generation")

	listeners, closeSinks, err := generationSinks(cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	run := lifecycle.NewRun(loadProject(cfg), buildDir, release)
	for _, l := range listeners {
		run.Subscribe(l)
	}

	slog.Info("Starting generation run",
		logfields.RunID(run.ID),
		slog.String("dist", cfg.Dist.Name),
		slog.Int("instances", len(cfg.Readmes)),
		slog.Bool("release", release))

	if _, err := plugin.RegisterAll(run, cfg.Readmes); err != nil {
		return err
	}
	if err := run.Execute(ctx); err != nil {
		return err
	}

	for _, w := range run.Report.Warnings {
		slog.Warn("Run finished with a warning", logfields.RunID(run.ID), logfields.Error(w))
	}
	slog.Info("Generation run completed",
		logfields.RunID(run.ID),
		slog.String("outcome", run.Report.Outcome),
		slog.Int("generated", run.Report.Generated),
		logfields.DurationMS(float64(run.Report.End.Sub(run.Report.Start).Milliseconds())))

	fmt.Printf("Generated %d readme artifact(s)\n", run.Report.Generated)
	return nil
}
