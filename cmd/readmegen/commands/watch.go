package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildDir string `name:"build-dir" short:"b" help:"Override the build output directory"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyLogging(cfg.Logging, root.Verbose)
	if err := cfg.Validate(); err != nil {
		return err
	}

	buildDir := cfg.Build.Directory
	if w.BuildDir != "" {
		buildDir = w.BuildDir
	}
	return RunWatch(cfg, buildDir)
}

// RunWatch runs the watch daemon until an interrupt or termination signal
// arrives. History and notification sinks configured for the project receive
// every regeneration the daemon performs.
func RunWatch(cfg *config.Config, buildDir string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	listeners, closeSinks, err := generationSinks(cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	daemon := watch.New(cfg, loadProject(cfg), buildDir)
	for _, l := range listeners {
		daemon.Subscribe(l)
	}

	slog.Info("Starting watch mode",
		slog.String("dist", cfg.Dist.Name),
		slog.Int("instances", len(cfg.Readmes)),
		slog.String("debounce", cfg.Watch.DebounceDuration().String()))

	errChan := make(chan error, 1)
	go func() {
		errChan <- daemon.Run(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("watch daemon error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping watch mode...")
		if err := <-errChan; err != nil {
			return fmt.Errorf("watch daemon error: %w", err)
		}
	}

	slog.Info("Watch mode stopped")
	return nil
}
