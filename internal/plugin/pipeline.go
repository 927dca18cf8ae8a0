package plugin

import (
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/readmegen/internal/encoding"
	"git.home.luguber.info/inful/readmegen/internal/format"
	"git.home.luguber.info/inful/readmegen/internal/pod"
)

// SourceSnapshot is the change-detection baseline: the source content as it
// was when markup was last extracted.
type SourceSnapshot struct {
	LastSeen string
}

// Pipeline extracts markup from source content and renders it through a
// format converter. Each plugin instance owns one, so instances sharing a
// source file keep independent staleness baselines.
type Pipeline struct {
	snapshot SourceSnapshot
}

// ExtractMarkup records sourceContent as the new baseline, then isolates the
// embedded markup regions. Returns "" when the source carries no markup.
func (pl *Pipeline) ExtractMarkup(sourceContent string) string {
	pl.snapshot.LastSeen = sourceContent
	return pod.Extract(sourceContent)
}

// Changed reports whether current differs from the recorded baseline.
func (pl *Pipeline) Changed(current string) bool {
	return current != pl.snapshot.LastSeen
}

// Render converts markup to the format's textual form. Encoding is deferred
// to the sink for in-memory output.
func (pl *Pipeline) Render(markup string, spec format.Spec) string {
	return spec.Convert(markup)
}

// RenderBytes converts markup and applies the markup's declared encoding,
// producing the final byte sequence for filesystem output.
func (pl *Pipeline) RenderBytes(markup string, spec format.Spec) ([]byte, error) {
	text := spec.Convert(markup)
	codec, err := encoding.Lookup(pod.DeclaredEncoding(markup))
	if err != nil {
		return nil, err
	}
	return codec.Encode(text)
}

// artifactFingerprint computes the canonical content fingerprint carried in
// generation events, so history consumers can spot unchanged regenerations.
// Readme artifacts have no frontmatter, so only the body feeds the hash.
func artifactFingerprint(content string) string {
	return mdfp.CalculateFingerprintFromParts("", content)
}
