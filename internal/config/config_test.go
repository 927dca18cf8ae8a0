package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readmegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
dist:
  name: My-Dist
  root: /tmp/dist
  main_module: lib/My/Dist.pm
build:
  directory: out
readmes:
  - name: ReadmeGfmInRoot
  - name: custom
    type: html
    filename: docs.html
    location: build
    refresh: setup
watch:
  debounce: 250ms
  interval: 1h
  metrics_addr: ":9190"
history:
  path: readmegen-history.db
notify:
  enabled: true
  url: nats://localhost:4222
  subject: readmegen.generated
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "My-Dist", cfg.Dist.Name)
	require.Equal(t, "/tmp/dist", cfg.Dist.Root)
	require.Equal(t, "lib/My/Dist.pm", cfg.Dist.MainModule)
	require.Equal(t, "out", cfg.Build.Directory)
	require.Len(t, cfg.Readmes, 2)
	require.Equal(t, "custom", cfg.Readmes[1].Name)
	require.Equal(t, "setup", cfg.Readmes[1].Refresh)
	require.Equal(t, 250*time.Millisecond, cfg.Watch.DebounceDuration())
	require.Equal(t, time.Hour, cfg.Watch.IntervalDuration())
	require.True(t, cfg.Notify.Enabled)
	require.Equal(t, "readmegen-history.db", cfg.History.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "dist:\n  name: Tiny\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ".", cfg.Dist.Root)
	require.Equal(t, "build", cfg.Build.Directory)
	require.Len(t, cfg.Readmes, 1)
	require.Equal(t, "Readme", cfg.Readmes[0].Name)
	require.Equal(t, 500*time.Millisecond, cfg.Watch.DebounceDuration())
	require.Equal(t, time.Duration(0), cfg.Watch.IntervalDuration())
}

func TestLoad_MissingFile_Fails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("READMEGEN_TEST_DIST", "Env-Dist")
	path := writeConfig(t, "dist:\n  name: ${READMEGEN_TEST_DIST}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Env-Dist", cfg.Dist.Name)
}

func TestValidate_RejectsBadEnumsAndDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing dist name",
			mutate:  func(c *Config) { c.Dist.Name = "" },
			wantErr: "dist.name",
		},
		{
			name: "duplicate instance name",
			mutate: func(c *Config) {
				c.Readmes = []ReadmeConfig{{Name: "same"}, {Name: "same"}}
			},
			wantErr: "duplicate",
		},
		{
			name: "invalid location",
			mutate: func(c *Config) {
				c.Readmes = []ReadmeConfig{{Name: "x", Location: "nowhere"}}
			},
			wantErr: "location",
		},
		{
			name: "invalid phase",
			mutate: func(c *Config) {
				c.Readmes = []ReadmeConfig{{Name: "x", Phase: "deploy"}}
			},
			wantErr: "phase",
		},
		{
			name: "invalid refresh",
			mutate: func(c *Config) {
				c.Readmes = []ReadmeConfig{{Name: "x", Refresh: "sometimes"}}
			},
			wantErr: "refresh",
		},
		{
			name:    "unparseable debounce",
			mutate:  func(c *Config) { c.Watch.Debounce = "soon" },
			wantErr: "watch.debounce",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			cfg.Dist.Name = "Valid"
			test.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readmegen.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.NotEmpty(t, cfg.Readmes)

	require.Error(t, Init(path, false), "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))
}

func TestNormalizers_DefaultAndError(t *testing.T) {
	require.Equal(t, LocationBuild, NormalizeLocation(""))
	require.Equal(t, LocationRoot, NormalizeLocation(" ROOT "))
	require.Equal(t, PhaseRelease, NormalizePhase("Release"))
	require.Equal(t, RefreshWatch, NormalizeRefresh("bogus"))

	_, err := ParseLocation("shelf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "build")
	require.Contains(t, err.Error(), "root")
}
