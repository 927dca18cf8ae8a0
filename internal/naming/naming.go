// Package naming infers configuration from plugin instance names. A name
// like "ReadmeMarkdownInRoot" carries a format and an output location; the
// grammar is tolerant about the literal "Readme" and "In" tokens but rejects
// anything with extra characters, so descriptive names silently infer
// nothing.
package naming

import (
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/foundation"
)

// Inference is the optional (format, location) pair read out of a name.
// Absent fields fall through to explicit options or defaults.
type Inference struct {
	Format   foundation.Option[string]
	Location foundation.Option[string]
}

// Resolver matches instance names against the grammar
//
//	["Readme"] <format> [["In"] <location>]
//
// case-insensitively, whole-segment, against the part of the name after the
// last "/". Results are memoized per name. A Resolver belongs to one
// orchestrator run and is not safe for concurrent use.
type Resolver struct {
	pattern *regexp.Regexp
	cache   map[string]Inference
}

// NewResolver builds a Resolver over the closed token sets. Both sets come
// from the caller so the resolver stays decoupled from the registry it
// describes.
func NewResolver(formatIDs, locations []string) *Resolver {
	return &Resolver{
		pattern: regexp.MustCompile(`(?i)^\s*(?:readme)?(` + alternation(formatIDs) + `)(?:(?:in)?(` + alternation(locations) + `))?\s*$`),
		cache:   make(map[string]Inference),
	}
}

// Resolve parses name into an Inference. Names that do not conform to the
// grammar as a whole yield an Inference with both fields absent; there is no
// partial match.
func (r *Resolver) Resolve(name string) Inference {
	if inf, ok := r.cache[name]; ok {
		return inf
	}

	segment := name
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		segment = name[idx+1:]
	}

	inf := Inference{
		Format:   foundation.None[string](),
		Location: foundation.None[string](),
	}
	if m := r.pattern.FindStringSubmatch(segment); m != nil {
		inf.Format = foundation.Some(strings.ToLower(m[1]))
		if m[2] != "" {
			inf.Location = foundation.Some(strings.ToLower(m[2]))
		}
	}

	r.cache[name] = inf
	return inf
}

// alternation joins tokens into a regexp alternation, longest first so no
// token is shadowed by one of its prefixes.
func alternation(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(quoted, "|")
}
