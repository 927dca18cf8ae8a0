// Package project models the distribution on disk: its root directory, the
// primary module file the README is derived from, and the gathered file set
// handed to the build lifecycle.
package project

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/fileset"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/pod"
)

// Project is one distribution rooted at a directory.
type Project struct {
	Root     string
	DistName string

	declaredMainModule string
}

// New creates a Project. mainModule may be "" to request inference.
func New(root, distName, mainModule string) *Project {
	return &Project{Root: root, DistName: distName, declaredMainModule: mainModule}
}

// MainModuleName returns the distribution's primary module path, relative to
// the root. Resolution order: the declared module, then the module path
// derived from the distribution name ("My-Dist" declares lib/My/Dist.pm),
// then the shortest module path under lib/.
func (p *Project) MainModuleName() (string, error) {
	if p.declaredMainModule != "" {
		return filepath.ToSlash(p.declaredMainModule), nil
	}

	if p.DistName != "" {
		derived := "lib/" + strings.ReplaceAll(p.DistName, "-", "/") + ".pm"
		if p.exists(derived) {
			return derived, nil
		}
	}

	shortest, err := p.shortestModule()
	if err != nil {
		return "", err
	}
	return shortest, nil
}

// DefaultSourceFile returns the file markup is extracted from when no
// explicit source is configured: the main module, substituting a sibling
// .pod file when one exists on disk.
func (p *Project) DefaultSourceFile() (string, error) {
	main, err := p.MainModuleName()
	if err != nil {
		return "", err
	}
	if sibling := PodSibling(main); p.exists(sibling) {
		return sibling, nil
	}
	return main, nil
}

// PodSibling returns path with its extension replaced by .pod.
func PodSibling(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".pod"
}

func (p *Project) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(p.Root, filepath.FromSlash(rel)))
	return err == nil
}

func (p *Project) shortestModule() (string, error) {
	libDir := filepath.Join(p.Root, "lib")
	var modules []string
	err := filepath.WalkDir(libDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".pm") {
			return nil
		}
		rel, relErr := filepath.Rel(p.Root, path)
		if relErr != nil {
			return relErr
		}
		modules = append(modules, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("determine main module: %w", err)
	}
	if len(modules) == 0 {
		return "", fmt.Errorf("determine main module: no modules under %s", libDir)
	}
	sort.Slice(modules, func(i, j int) bool {
		if len(modules[i]) != len(modules[j]) {
			return len(modules[i]) < len(modules[j])
		}
		return modules[i] < modules[j]
	})
	return modules[0], nil
}

// Gather walks the project root and loads its files into a fresh file set.
// Dotfiles and the build output directory stay out of the distribution. For
// markup-bearing sources the declared "=encoding" is recorded on the file.
func (p *Project) Gather(buildDir string) (*fileset.Set, error) {
	set := fileset.NewSet()
	skipBuild := filepath.Clean(buildDir)

	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(p.Root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if filepath.Clean(rel) == skipBuild {
				return filepath.SkipDir
			}
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("gather %s: %w", rel, readErr)
		}

		f := fileset.NewFile(filepath.ToSlash(rel), string(data))
		if hasMarkupExtension(f.Name()) {
			if enc := pod.DeclaredEncoding(pod.Extract(f.Content())); enc != "" {
				f.SetEncoding(enc)
			}
		}
		return set.Insert(f)
	})
	if err != nil {
		return nil, fmt.Errorf("gather files: %w", err)
	}

	slog.Debug("Gathered project files", logfields.Path(p.Root), slog.Int("count", set.Len()))
	return set, nil
}

func hasMarkupExtension(name string) bool {
	switch filepath.Ext(name) {
	case ".pm", ".pl", ".pod":
		return true
	}
	return false
}
