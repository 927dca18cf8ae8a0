// Package format defines the closed set of README output formats and a
// process-wide registry mapping each format id to its default output filename
// and converter. Converters register via their package's init(), mirroring how
// pluggable engines avoid scattering conditionals.
package format

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ID identifies one supported output format.
type ID string

const (
	Pod      ID = "pod"
	Text     ID = "text"
	Markdown ID = "markdown"
	GFM      ID = "gfm"
	HTML     ID = "html"
)

// ErrUnknownFormat is returned by Lookup for ids outside the registered set.
var ErrUnknownFormat = errors.New("unknown readme format")

// Convert transforms extracted documentation markup into one target textual
// representation. Implementations must be pure: deterministic for a given
// input, no mutation of shared state.
type Convert func(markup string) string

// Spec describes one output format. Immutable after registration.
type Spec struct {
	ID             ID
	OutputFilename string
	Convert        Convert
}

var (
	registryMu sync.RWMutex
	registry   = map[ID]Spec{}
)

// Register adds a format Spec to the registry. Duplicate ids are ignored so
// init() ordering cannot flip an established binding.
func Register(s Spec) {
	if s.ID == "" || s.Convert == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[s.ID]; exists {
		return
	}
	registry[s.ID] = s
}

// Lookup returns the Spec for id, or ErrUnknownFormat (wrapped with the
// offending id) when the id is not registered.
func Lookup(id ID) (Spec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[id]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, id)
	}
	return s, nil
}

// AllIDs returns the registered format ids sorted lexically. The naming
// grammar is built from this set, so determinism matters for cache keys and
// tests.
func AllIDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return ids
}
