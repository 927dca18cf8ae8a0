package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Dist    DistConfig      `yaml:"dist"`
	Build   BuildConfig     `yaml:"build"`
	Readmes []ReadmeConfig  `yaml:"readmes,omitempty"`
	Watch   WatchConfig     `yaml:"watch,omitempty"`
	History HistoryConfig   `yaml:"history,omitempty"`
	Notify  NotifyConfig    `yaml:"notify,omitempty"`
	Logging LoggingSettings `yaml:"logging,omitempty"`
}

// DistConfig describes the distribution whose README artifacts are managed.
type DistConfig struct {
	Name       string `yaml:"name"`
	Root       string `yaml:"root,omitempty"`
	MainModule string `yaml:"main_module,omitempty"`
}

// BuildConfig describes where finalized build output is written.
type BuildConfig struct {
	Directory string `yaml:"directory,omitempty"`
}

// ReadmeConfig is one plugin instance. Empty fields stay empty here; the
// resolver owns the explicit-over-inferred-over-default merge, so Load must
// not fill them in.
type ReadmeConfig struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type,omitempty"`
	Filename       string `yaml:"filename,omitempty"`
	SourceFilename string `yaml:"source_filename,omitempty"`
	Location       string `yaml:"location,omitempty"`
	Phase          string `yaml:"phase,omitempty"`
	Refresh        string `yaml:"refresh,omitempty"`
}

// WatchConfig tunes the standalone watch daemon. Durations are strings in
// time.ParseDuration syntax.
type WatchConfig struct {
	Debounce    string `yaml:"debounce,omitempty"`
	Interval    string `yaml:"interval,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// DebounceDuration returns the parsed debounce window.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// IntervalDuration returns the parsed periodic-refresh interval, 0 when
// disabled.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// HistoryConfig enables the generation history store when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig enables regeneration event publishing.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// LoggingSettings selects level and output format.
type LoggingSettings struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, rgerrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default returns a configuration with defaults applied and a single
// all-defaults readme instance, for runs driven purely by CLI flags.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Dist.Root == "" {
		c.Dist.Root = "."
	}
	if c.Build.Directory == "" {
		c.Build.Directory = "build"
	}
	if len(c.Readmes) == 0 {
		// One all-defaults instance; the name matches no grammar form on
		// purpose, so type and location fall through to their defaults.
		c.Readmes = []ReadmeConfig{{Name: "Readme"}}
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "500ms"
	}
}

// Validate checks the parts of the configuration that must be rejected
// before a run starts. Per-instance format and location merging has its own
// validation in the resolver.
func (c *Config) Validate() error {
	if c.Dist.Name == "" {
		return rgerrors.ConfigRequired("dist.name")
	}

	seen := make(map[string]struct{}, len(c.Readmes))
	for i, r := range c.Readmes {
		if r.Name == "" {
			return fmt.Errorf("readmes[%d].name is required", i)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("readmes[%d]: duplicate instance name %q", i, r.Name)
		}
		seen[r.Name] = struct{}{}

		if r.Location != "" {
			if _, err := ParseLocation(r.Location); err != nil {
				return fmt.Errorf("readmes[%d].location: %w", i, err)
			}
		}
		if r.Phase != "" {
			if _, err := ParsePhase(r.Phase); err != nil {
				return fmt.Errorf("readmes[%d].phase: %w", i, err)
			}
		}
		if r.Refresh != "" {
			if _, err := ParseRefresh(r.Refresh); err != nil {
				return fmt.Errorf("readmes[%d].refresh: %w", i, err)
			}
		}
	}

	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
	}
	if c.Watch.Interval != "" {
		if _, err := time.ParseDuration(c.Watch.Interval); err != nil {
			return fmt.Errorf("watch.interval: %w", err)
		}
	}
	return nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Dist: DistConfig{
			Name:       "My-Dist",
			Root:       ".",
			MainModule: "lib/My/Dist.pm",
		},
		Build: BuildConfig{
			Directory: "build",
		},
		Readmes: []ReadmeConfig{
			{
				// Name-driven configuration: format and location are read
				// out of the instance name.
				Name: "ReadmeGfmInRoot",
			},
			{
				Name:     "ReadmeTextInBuild",
				Filename: "README",
			},
			{
				Name:     "pod-for-release",
				Type:     "pod",
				Location: "root",
				Phase:    "release",
			},
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "text",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
