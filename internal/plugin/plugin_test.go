package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/config"
	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
	"git.home.luguber.info/inful/readmegen/internal/fileset"
	"git.home.luguber.info/inful/readmegen/internal/format"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/pod"
	"git.home.luguber.info/inful/readmegen/internal/project"
)

const moduleSource = `package Foo;

use strict;

=head1 NAME

Foo - a module that does things

=head1 DESCRIPTION

It does B<things> carefully.

=cut

our $VERSION = '0.01';
1;
`

const changedSource = `package Foo;

=head1 NAME

Foo - renamed while munging

=cut

1;
`

func writeModule(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "Foo.pm"), []byte(content), 0o644))
}

func newProjectRun(t *testing.T, release bool) *lifecycle.Run {
	t.Helper()
	root := t.TempDir()
	writeModule(t, root, moduleSource)
	return lifecycle.NewRun(project.New(root, "Foo", ""), "build", release)
}

// seedFiles populates the run's file set directly, for tests that drive
// lifecycle methods by hand instead of going through Execute.
func seedFiles(t *testing.T, run *lifecycle.Run) {
	t.Helper()
	require.NoError(t, run.Files.Insert(fileset.NewFile("lib/Foo.pm", moduleSource)))
}

func TestConfig_DefaultsForNonGrammarName(t *testing.T) {
	run := newProjectRun(t, false)
	p := New("Readme", Options{})

	cfg, err := p.Config(run)
	require.NoError(t, err)
	require.Equal(t, format.Text, cfg.Format.ID)
	require.Equal(t, "README", cfg.Filename)
	require.Equal(t, "lib/Foo.pm", cfg.SourceFilename)
	require.Equal(t, config.LocationBuild, cfg.Location)
	require.Equal(t, config.PhaseBuild, cfg.Phase)
	require.Equal(t, config.RefreshWatch, cfg.Refresh)
}

func TestConfig_NameInference(t *testing.T) {
	run := newProjectRun(t, false)
	p := New("ReadmeMarkdownInRoot", Options{})

	cfg, err := p.Config(run)
	require.NoError(t, err)
	require.Equal(t, format.Markdown, cfg.Format.ID)
	require.Equal(t, "README.mkdn", cfg.Filename)
	require.Equal(t, config.LocationRoot, cfg.Location)
}

func TestConfig_ExplicitOptionsBeatInference(t *testing.T) {
	run := newProjectRun(t, false)
	p := New("ReadmeMarkdownInRoot", Options{Type: "html", Location: "build", Filename: "docs.html"})

	cfg, err := p.Config(run)
	require.NoError(t, err)
	require.Equal(t, format.HTML, cfg.Format.ID)
	require.Equal(t, "docs.html", cfg.Filename)
	require.Equal(t, config.LocationBuild, cfg.Location)
}

func TestConfig_PodSiblingPreferredAsSource(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, moduleSource)
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "Foo.pod"), []byte("=head1 NAME\n\nFoo\n"), 0o644))
	run := lifecycle.NewRun(project.New(root, "Foo", ""), "build", false)

	cfg, err := New("Readme", Options{}).Config(run)
	require.NoError(t, err)
	require.Equal(t, "lib/Foo.pod", cfg.SourceFilename)
}

func TestConfig_UnknownTypeFails(t *testing.T) {
	run := newProjectRun(t, false)

	_, err := New("Readme", Options{Type: "pdf"}).Config(run)
	require.ErrorIs(t, err, format.ErrUnknownFormat)
	require.True(t, rgerrors.IsCategory(err, rgerrors.CategoryValidation))
}

func TestRegisterAll_BuildPlusReleaseFailsBeforeFileSetMutation(t *testing.T) {
	run := newProjectRun(t, false)

	_, err := RegisterAll(run, []config.ReadmeConfig{
		{Name: "broken", Location: "build", Phase: "release"},
	})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	require.True(t, rgerrors.IsCategory(err, rgerrors.CategoryValidation))
	require.Zero(t, run.Files.Len(), "no file-set mutation may precede validation")
}

func TestGatherFiles_InsertsPlaceholder(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	p := New("Readme", Options{})

	require.NoError(t, p.GatherFiles(context.Background(), run))

	target := run.Files.Find("README")
	require.NotNil(t, target)
	require.Empty(t, target.Content())
	require.Equal(t, StateRegistered, p.State())
}

func TestGatherFiles_SkipsWhenTargetAlreadyPresent(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	require.NoError(t, run.Files.Insert(fileset.NewFile("README", "checked in")))
	p := New("Readme", Options{})

	require.NoError(t, p.GatherFiles(context.Background(), run))

	require.Equal(t, "checked in", run.Files.Find("README").Content())
	require.Equal(t, StateRegistered, p.State())
}

func TestMungeFiles_GeneratesContentAndArmsWatcher(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	p := New("Readme", Options{})
	ctx := context.Background()

	require.NoError(t, p.GatherFiles(ctx, run))
	require.NoError(t, p.MungeFiles(ctx, run))

	content := run.Files.Find("README").Content()
	require.Contains(t, content, "Foo - a module that does things")
	require.Equal(t, StateWatching, p.State())
	require.Equal(t, 1, run.Watched.Len())
	require.Equal(t, 1, run.Report.Generated)
}

func TestMungeFiles_SourceWithoutMarkupYieldsEmptyReadme(t *testing.T) {
	run := newProjectRun(t, false)
	require.NoError(t, run.Files.Insert(fileset.NewFile("lib/Foo.pm", "package Foo;\n1;\n")))
	p := New("Readme", Options{})
	ctx := context.Background()

	require.NoError(t, p.GatherFiles(ctx, run))
	require.NoError(t, p.MungeFiles(ctx, run))

	target := run.Files.Find("README")
	require.NotNil(t, target)
	require.Empty(t, target.Content())
}

func TestMungeFiles_MissingSourceFails(t *testing.T) {
	run := newProjectRun(t, false)
	p := New("Readme", Options{SourceFilename: "lib/Missing.pm"})
	ctx := context.Background()

	require.NoError(t, p.GatherFiles(ctx, run))
	err := p.MungeFiles(ctx, run)
	require.ErrorIs(t, err, ErrSourceNotFound)
	require.True(t, rgerrors.IsCategory(err, rgerrors.CategorySource))
}

func TestMungeFiles_PrunedTargetFails(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	p := New("Readme", Options{})
	ctx := context.Background()

	require.NoError(t, p.GatherFiles(ctx, run))
	require.True(t, run.Files.Remove("README"))

	err := p.MungeFiles(ctx, run)
	require.ErrorIs(t, err, ErrTargetFileMissing)
	require.True(t, rgerrors.IsCategory(err, rgerrors.CategoryTarget))
}

func TestWatch_RegeneratesWhenSourceChangesAfterRead(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	p := New("Readme", Options{})
	ctx := context.Background()

	require.NoError(t, p.GatherFiles(ctx, run))
	require.NoError(t, p.MungeFiles(ctx, run))

	run.Files.Find("lib/Foo.pm").SetContent(changedSource)

	content := run.Files.Find("README").Content()
	require.Contains(t, content, "renamed while munging")
	require.NotContains(t, content, "does things")
	require.Equal(t, StateRegenerated, p.State())
	require.Equal(t, 2, run.Report.Generated)
}

func TestWatch_UnchangedRewriteDoesNotRegenerate(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	p := New("Readme", Options{})
	ctx := context.Background()

	require.NoError(t, p.GatherFiles(ctx, run))
	require.NoError(t, p.MungeFiles(ctx, run))

	run.Files.Find("lib/Foo.pm").SetContent(moduleSource)

	require.Equal(t, StateWatching, p.State())
	require.Equal(t, 1, run.Report.Generated)
}

func TestWatch_OneListenerPerSourceAcrossInstances(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	ctx := context.Background()

	plugins, err := RegisterAll(run, []config.ReadmeConfig{
		{Name: "ReadmeTextInBuild"},
		{Name: "second", Type: "markdown", Location: "build"},
	})
	require.NoError(t, err)
	a, b := plugins[0], plugins[1]

	require.NoError(t, a.GatherFiles(ctx, run))
	require.NoError(t, b.GatherFiles(ctx, run))
	require.NoError(t, a.MungeFiles(ctx, run))
	require.NoError(t, b.MungeFiles(ctx, run))
	require.Equal(t, 1, run.Watched.Len(), "shared source must register a single listener")

	run.Files.Find("lib/Foo.pm").SetContent(changedSource)

	require.Contains(t, run.Files.Find("README").Content(), "renamed while munging")
	require.Contains(t, run.Files.Find("README.mkdn").Content(), "a module that does things",
		"instance without the listener keeps its last rendering")
	require.Equal(t, 3, run.Report.Generated)
}

func TestPruneFiles_RemovesCheckedInCopyForRootInstance(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	require.NoError(t, run.Files.Insert(fileset.NewFile("README.mkdn", "stale checked-in copy")))
	p := New("ReadmeMarkdownInRoot", Options{})

	require.NoError(t, p.PruneFiles(context.Background(), run))
	require.Nil(t, run.Files.Find("README.mkdn"))
}

func TestPruneFiles_PeerOwningBuildCopyBlocksPrune(t *testing.T) {
	run := newProjectRun(t, false)
	seedFiles(t, run)
	require.NoError(t, run.Files.Insert(fileset.NewFile("README.mkdn", "")))

	plugins, err := RegisterAll(run, []config.ReadmeConfig{
		{Name: "root-copy", Type: "markdown", Location: "root"},
		{Name: "build-copy", Type: "markdown", Location: "build"},
	})
	require.NoError(t, err)

	require.NoError(t, plugins[0].PruneFiles(context.Background(), run))
	require.NotNil(t, run.Files.Find("README.mkdn"), "peer-owned target must survive pruning")
}

func TestExecute_MarkdownInRootScenario(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, moduleSource)
	// A stale copy both on disk and (via gathering) in the file set.
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.mkdn"), []byte("stale"), 0o644))
	run := lifecycle.NewRun(project.New(root, "Foo", ""), "build", false)

	_, err := RegisterAll(run, []config.ReadmeConfig{
		{Name: "ReadmeMarkdownInRoot"},
	})
	require.NoError(t, err)
	require.NoError(t, run.Execute(context.Background()))

	written, err := os.ReadFile(run.RootPath("README.mkdn"))
	require.NoError(t, err)
	require.Contains(t, string(written), "# NAME")
	require.Contains(t, string(written), "It does **things** carefully.")

	require.Nil(t, run.Files.Find("README.mkdn"), "root artifact must not remain in the build file set")
	_, statErr := os.Stat(run.BuildPath("README.mkdn"))
	require.True(t, os.IsNotExist(statErr), "root artifact must not be written into the build tree")
}

func TestExecute_AllDefaultsScenario(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "Foo.pm"), []byte("package Foo;\n1;\n"), 0o644))
	run := lifecycle.NewRun(project.New(root, "Foo", ""), "build", false)

	_, err := RegisterAll(run, []config.ReadmeConfig{{Name: "Readme"}})
	require.NoError(t, err)
	require.NoError(t, run.Execute(context.Background()))

	target := run.Files.Find("README")
	require.NotNil(t, target, "file set must gain a README even without markup")
	require.Empty(t, target.Content())

	written, err := os.ReadFile(run.BuildPath("README"))
	require.NoError(t, err)
	require.Empty(t, written)
}

func TestExecute_GenerationIsIdempotentAcrossRuns(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, moduleSource)

	generate := func() string {
		run := lifecycle.NewRun(project.New(root, "Foo", ""), "build", false)
		_, err := RegisterAll(run, []config.ReadmeConfig{{Name: "Readme"}})
		require.NoError(t, err)
		require.NoError(t, run.Execute(context.Background()))
		data, err := os.ReadFile(run.BuildPath("README"))
		require.NoError(t, err)
		return string(data)
	}

	first := generate()
	second := generate()
	require.NotEmpty(t, first)
	require.Equal(t, first, second)
}

func TestExecute_PodFormatIsIdentityOverMarkup(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, moduleSource)
	run := lifecycle.NewRun(project.New(root, "Foo", ""), "build", false)

	_, err := RegisterAll(run, []config.ReadmeConfig{
		{Name: "ReadmePodInRoot"},
	})
	require.NoError(t, err)
	require.NoError(t, run.Execute(context.Background()))

	written, err := os.ReadFile(run.RootPath("README.pod"))
	require.NoError(t, err)
	require.Equal(t, pod.Extract(moduleSource), string(written))
}

func TestExecute_ReleasePhaseInstanceSkippedOnPlainBuild(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, moduleSource)

	instances := []config.ReadmeConfig{
		{Name: "release-pod", Type: "pod", Location: "root", Phase: "release"},
	}

	run := lifecycle.NewRun(project.New(root, "Foo", ""), "build", false)
	_, err := RegisterAll(run, instances)
	require.NoError(t, err)
	require.NoError(t, run.Execute(context.Background()))
	_, statErr := os.Stat(run.RootPath("README.pod"))
	require.True(t, os.IsNotExist(statErr))

	release := lifecycle.NewRun(project.New(root, "Foo", ""), "build", true)
	_, err = RegisterAll(release, instances)
	require.NoError(t, err)
	require.NoError(t, release.Execute(context.Background()))
	_, statErr = os.Stat(release.RootPath("README.pod"))
	require.NoError(t, statErr)
}

func TestExecute_SetupRefreshGeneratesWithoutWatcher(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, moduleSource)
	run := lifecycle.NewRun(project.New(root, "Foo", ""), "build", false)

	plugins, err := RegisterAll(run, []config.ReadmeConfig{
		{Name: "Readme", Refresh: "setup"},
	})
	require.NoError(t, err)
	require.NoError(t, run.Execute(context.Background()))

	require.Zero(t, run.Watched.Len(), "setup policy must not arm a watcher")
	require.Equal(t, StateContentGenerated, plugins[0].State())

	written, err := os.ReadFile(run.BuildPath("README"))
	require.NoError(t, err)
	require.Contains(t, string(written), "Foo - a module that does things")
}
