package watch

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/plugin"
	"git.home.luguber.info/inful/readmegen/internal/util/sets"
)

// resolveSources maps the configured instances to the absolute paths of
// their source files, plus the directories to register with the watcher.
// Watching directories and filtering by path is more reliable than watching
// the files themselves; editors replace files on save.
func (d *Daemon) resolveSources() (sets.Set[string], []string, error) {
	run := lifecycle.NewRun(d.project, d.buildDir, false)
	plugins, err := plugin.RegisterAll(run, d.cfg.Readmes)
	if err != nil {
		return nil, nil, err
	}

	srcSet := sets.New[string]()
	dirSet := sets.New[string]()
	for _, p := range plugins {
		rc, err := p.Config(run)
		if err != nil {
			return nil, nil, err
		}
		abs := filepath.Join(d.project.Root, filepath.FromSlash(rc.SourceFilename))
		srcSet.Add(abs)
		dirSet.Add(filepath.Dir(abs))
	}
	return srcSet, sets.Strings(dirSet), nil
}

// shouldIgnoreEvent returns true for filesystem events that should never
// trigger regeneration: hidden files and editor temp/swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return false
}
