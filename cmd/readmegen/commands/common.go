package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/history"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/notify"
	"git.home.luguber.info/inful/readmegen/internal/project"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"readmegen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Run one build lifecycle and write the readme artifacts"`
	Inspect  InspectCmd  `cmd:"" help:"Show the resolved configuration of every readme instance"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Watch readme sources and regenerate on change"`
	History  HistoryCmd  `cmd:"" help:"Show recorded readme generations"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// applyLogging reapplies the default logger once the config file is loaded.
// The -v flag wins over the configured level; logging.format selects between
// the text and json handlers.
func applyLogging(settings config.LoggingSettings, verbose bool) {
	level := slog.LevelInfo
	switch config.NormalizeLogLevel(settings.Level) {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	case config.LogLevelInfo:
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if config.NormalizeLogFormat(settings.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadProject builds the project model from the dist section.
func loadProject(cfg *config.Config) *project.Project {
	return project.New(cfg.Dist.Root, cfg.Dist.Name, cfg.Dist.MainModule)
}

// generationSinks wires the optional history store and notification publisher.
// The returned close function releases whichever sinks were opened; callers
// must invoke it even when the command fails later.
func generationSinks(cfg *config.Config) ([]lifecycle.GenerationListener, func(), error) {
	var listeners []lifecycle.GenerationListener
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.History.Path != "" {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		listeners = append(listeners, history.NewListener(store))
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close history store", logfields.Error(err))
			}
		})
	}

	if cfg.Notify.Enabled {
		pub, err := notify.NewPublisher(cfg.Notify)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		listeners = append(listeners, pub)
		closers = append(closers, func() {
			if err := pub.Close(); err != nil {
				slog.Warn("Failed to close notification publisher", logfields.Error(err))
			}
		})
	}

	return listeners, closeAll, nil
}
