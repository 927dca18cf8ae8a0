// Package normalization converts free-form configuration strings into typed
// enum values with consistent trimming and case folding.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// defaultNormalization is the canonical string cleanup applied before lookup.
func defaultNormalization(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalizer maps normalized strings onto values of a closed enum type.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
}

// NewNormalizer builds a normalizer from valid string->value pairs. Keys are
// normalized once at construction so lookups stay allocation-free.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	for k, v := range values {
		normalized[defaultNormalization(k)] = v
	}
	return &Normalizer[T]{validValues: normalized, defaultValue: defaultValue}
}

// Normalize converts raw to the enum value, falling back to the default for
// unrecognized input.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.validValues[defaultNormalization(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError converts raw to the enum value, or reports an error for
// unrecognized input. Use this in validation paths where silent fallback
// would hide a typo.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.validValues[defaultNormalization(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value: %q (valid: %s)", raw, strings.Join(n.ValidKeys(), ", "))
}

// ValidKeys lists the accepted (normalized) input strings, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	keys := make([]string, 0, len(n.validValues))
	for k := range n.validValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
