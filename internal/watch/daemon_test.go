package watch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/project"
)

const watchSource = `package Foo;

=head1 NAME

Foo - a module that does things

=cut

1;
`

type captureListener struct {
	events []lifecycle.GenerationEvent
}

func (c *captureListener) OnGeneration(_ context.Context, ev lifecycle.GenerationEvent) error {
	c.events = append(c.events, ev)
	return nil
}

func newTestDaemon(t *testing.T, readmes []config.ReadmeConfig) (*Daemon, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "Foo.pm"), []byte(watchSource), 0o644))

	cfg := config.Default()
	cfg.Dist.Name = "Foo"
	if readmes != nil {
		cfg.Readmes = readmes
	}
	return New(cfg, project.New(root, "Foo", ""), "build"), root
}

func TestShouldIgnoreEvent(t *testing.T) {
	cases := []struct {
		path   string
		ignore bool
	}{
		{"lib/Foo.pm", false},
		{"README", false},
		{"lib/.Foo.pm.swx", true},
		{"lib/Foo.pm~", true},
		{"lib/Foo.pm.swp", true},
		{"lib/#Foo.pm#", true},
		{"lib/.#Foo.pm", true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ignore, shouldIgnoreEvent(tc.path), "path %s", tc.path)
	}
}

func TestResolveSources_DeduplicatesSharedSource(t *testing.T) {
	d, root := newTestDaemon(t, []config.ReadmeConfig{
		{Name: "ReadmeTextInBuild"},
		{Name: "second", Type: "markdown", Location: "build"},
	})

	sources, dirs, err := d.resolveSources()
	require.NoError(t, err)
	require.Equal(t, 1, sources.Len())
	require.True(t, sources.Has(filepath.Join(root, "lib", "Foo.pm")))
	require.Equal(t, []string{filepath.Join(root, "lib")}, dirs)
}

func TestRegenerate_WritesBuildTreeAndNotifies(t *testing.T) {
	d, root := newTestDaemon(t, nil)
	var cl captureListener
	d.Subscribe(&cl)

	require.NoError(t, d.regenerate(context.Background()))

	data, err := os.ReadFile(filepath.Join(root, "build", "README"))
	require.NoError(t, err)
	require.Contains(t, string(data), "a module that does things")
	require.NotEmpty(t, cl.events)

	ok, _ := d.status.healthy()
	require.True(t, ok)

	mfs, err := d.registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestRegenerate_InvalidConfigurationIsUnhealthy(t *testing.T) {
	d, _ := newTestDaemon(t, []config.ReadmeConfig{
		{Name: "broken", Location: "build", Phase: "release"},
	})

	require.Error(t, d.regenerate(context.Background()))

	ok, lastErr := d.status.healthy()
	require.False(t, ok)
	require.Error(t, lastErr)
}

func TestHandleEvent_FiltersNoise(t *testing.T) {
	d, root := newTestDaemon(t, nil)
	sources, _, err := d.resolveSources()
	require.NoError(t, err)

	var triggered int
	trigger := func() { triggered++ }
	src := filepath.Join(root, "lib", "Foo.pm")

	d.handleEvent(fsnotify.Event{Name: src + ".swp", Op: fsnotify.Write}, sources, trigger)
	d.handleEvent(fsnotify.Event{Name: filepath.Join(root, "lib", "Other.pm"), Op: fsnotify.Write}, sources, trigger)
	d.handleEvent(fsnotify.Event{Name: src, Op: fsnotify.Chmod}, sources, trigger)
	require.Zero(t, triggered)

	d.handleEvent(fsnotify.Event{Name: src, Op: fsnotify.Write}, sources, trigger)
	require.Equal(t, 1, triggered)
}

func TestDebouncer_BurstCoalescesToSingleRequest(t *testing.T) {
	d, _ := newTestDaemon(t, nil)
	d.debounce = 20 * time.Millisecond

	rebuildReq := make(chan struct{}, 1)
	trigger := d.newDebouncer(rebuildReq)

	for range 5 {
		trigger()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-rebuildReq:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for debounced request")
	}

	select {
	case <-rebuildReq:
		t.Fatal("expected only one request for burst")
	case <-time.After(75 * time.Millisecond):
		// ok
	}
}

func TestHealthEndpoint(t *testing.T) {
	d, _ := newTestDaemon(t, nil)

	check := func() int {
		rec := httptest.NewRecorder()
		d.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		return rec.Code
	}

	require.Equal(t, http.StatusOK, check())

	d.status.setError(errors.New("boom"))
	require.Equal(t, http.StatusServiceUnavailable, check())

	d.status.setSuccess()
	require.Equal(t, http.StatusOK, check())

	// After one good run the build tree stays servable through failures.
	d.status.setError(errors.New("boom again"))
	require.Equal(t, http.StatusOK, check())
}
