// Package fileset holds the in-memory collection of files destined for the
// build output. Content changes are announced synchronously to registered
// handlers, which is what lets README generation observe edits made by
// later-ordered steps.
package fileset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateFile is returned by Insert when a file with the same name is
// already present.
var ErrDuplicateFile = errors.New("file already in set")

// File is one in-memory file. Name is the path relative to the distribution
// root; Content is text (encoding is applied only when the set is written to
// disk).
type File struct {
	name     string
	content  string
	encoding string

	set *Set
}

// NewFile creates a detached file. It joins a Set via Insert.
func NewFile(name, content string) *File {
	return &File{name: name, content: content}
}

// NewFileWithEncoding creates a detached file carrying a declared encoding.
func NewFileWithEncoding(name, content, encoding string) *File {
	return &File{name: name, content: content, encoding: encoding}
}

// Name returns the file's path within the distribution.
func (f *File) Name() string { return f.name }

// Content returns the current text content.
func (f *File) Content() string { return f.content }

// Encoding returns the declared encoding name, "" when none.
func (f *File) Encoding() string { return f.encoding }

// SetEncoding records the declared encoding name.
func (f *File) SetEncoding(name string) { f.encoding = name }

// SetContent replaces the file's content and notifies the owning set's
// change handlers after the update is visible.
func (f *File) SetContent(content string) {
	f.content = content
	if f.set != nil {
		f.set.notify(f)
	}
}

// ChangeHandler observes one file's content change.
type ChangeHandler func(*File)

// Set is the build's file collection. It is mutated in place by sequential
// lifecycle callbacks and is not safe for concurrent use.
type Set struct {
	files    map[string]*File
	order    []string
	handlers []ChangeHandler
}

// NewSet creates an empty file set.
func NewSet() *Set {
	return &Set{files: make(map[string]*File)}
}

// Insert adds a file to the set. Duplicate names are an error so two plugin
// instances cannot silently shadow each other's output.
func (s *Set) Insert(f *File) error {
	if _, exists := s.files[f.name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFile, f.name)
	}
	f.set = s
	s.files[f.name] = f
	s.order = append(s.order, f.name)
	return nil
}

// Find returns the file with the given name, or nil.
func (s *Set) Find(name string) *File {
	return s.files[name]
}

// Remove detaches the named file from the set and reports whether it was
// present.
func (s *Set) Remove(name string) bool {
	f, exists := s.files[name]
	if !exists {
		return false
	}
	f.set = nil
	delete(s.files, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the files in insertion order.
func (s *Set) List() []*File {
	out := make([]*File, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.files[name])
	}
	return out
}

// Names returns the file names sorted, for deterministic logs and tests.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.files))
	for name := range s.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of files in the set.
func (s *Set) Len() int { return len(s.files) }

// OnChange registers a handler invoked synchronously after any member file's
// content is replaced via SetContent.
func (s *Set) OnChange(h ChangeHandler) {
	if h == nil {
		return
	}
	s.handlers = append(s.handlers, h)
}

func (s *Set) notify(f *File) {
	// Handlers may register further handlers; iterate over a snapshot.
	hs := append([]ChangeHandler(nil), s.handlers...)
	for _, h := range hs {
		h(f)
	}
}
