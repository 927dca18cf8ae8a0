package pod

import "git.home.luguber.info/inful/readmegen/internal/format"

// The pod format is the identity over extracted markup. Everything else runs
// through the parser.
func init() {
	format.Register(format.Spec{
		ID:             format.Pod,
		OutputFilename: "README.pod",
		Convert:        func(markup string) string { return markup },
	})
	format.Register(format.Spec{
		ID:             format.Text,
		OutputFilename: "README",
		Convert:        RenderText,
	})
	format.Register(format.Spec{
		ID:             format.Markdown,
		OutputFilename: "README.mkdn",
		Convert:        RenderMarkdown,
	})
	format.Register(format.Spec{
		ID:             format.GFM,
		OutputFilename: "README.md",
		Convert:        RenderGFM,
	})
	format.Register(format.Spec{
		ID:             format.HTML,
		OutputFilename: "README.html",
		Convert:        RenderHTML,
	})
}
