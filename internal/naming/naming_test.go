package naming

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestResolver() *Resolver {
	return NewResolver(
		[]string{"pod", "text", "markdown", "gfm", "html"},
		[]string{"build", "root"},
	)
}

func TestResolve_GrammarForms(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name         string
		wantFormat   string
		wantLocation string
	}{
		{"ReadmeMarkdownInRoot", "markdown", "root"},
		{"ReadmeGfmInBuild", "gfm", "build"},
		{"ReadmeTextInBuild", "text", "build"},
		{"ReadmePodInRoot", "pod", "root"},
		{"ReadmeHtmlInRoot", "html", "root"},
		{"MarkdownRoot", "markdown", "root"},
		{"Markdown", "markdown", ""},
		{"ReadmeText", "text", ""},
		{"gfm", "gfm", ""},
		{"readmemarkdowninroot", "markdown", "root"},
		{"READMEMARKDOWNINROOT", "markdown", "root"},
		{"  ReadmeTextInRoot  ", "text", "root"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			inf := r.Resolve(test.name)

			require.True(t, inf.Format.IsSome(), "format should be inferred")
			require.Equal(t, test.wantFormat, inf.Format.Unwrap())
			if test.wantLocation == "" {
				require.True(t, inf.Location.IsNone(), "location should be absent")
			} else {
				require.Equal(t, test.wantLocation, inf.Location.Unwrap())
			}
		})
	}
}

func TestResolve_NonConformingNames_InferNothing(t *testing.T) {
	r := newTestResolver()

	for _, name := range []string{
		"ReadmeMarkdownInRootXYZ",
		"XYZReadmeMarkdownInRoot",
		"InRootMarkdown",
		"Readme",
		"BuildMarkdown",
		"Markdown In Root",
		"",
	} {
		t.Run("name="+name, func(t *testing.T) {
			inf := r.Resolve(name)

			require.True(t, inf.Format.IsNone())
			require.True(t, inf.Location.IsNone())
		})
	}
}

func TestResolve_UsesTrailingPathSegment(t *testing.T) {
	r := newTestResolver()

	inf := r.Resolve("ReadmeAnyFromPod/ReadmeTextInBuild")

	require.Equal(t, "text", inf.Format.Unwrap())
	require.Equal(t, "build", inf.Location.Unwrap())

	whole := r.Resolve("something/unrelated")
	require.True(t, whole.Format.IsNone())
}

func TestResolve_MemoizesPerName(t *testing.T) {
	r := newTestResolver()

	first := r.Resolve("ReadmeGfmInRoot")
	second := r.Resolve("ReadmeGfmInRoot")

	require.Equal(t, first, second)
	require.Len(t, r.cache, 1)
}
