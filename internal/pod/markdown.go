package pod

import "strings"

// metacpanBase is where bare module-name links point, matching the convention
// of POD-to-Markdown converters in the wild.
const metacpanBase = "https://metacpan.org/pod/"

// RenderMarkdown converts POD markup into Markdown with ATX headings and
// four-space-indented verbatim blocks.
func RenderMarkdown(markup string) string {
	return renderMarkdown(markup, false, "markdown")
}

// RenderGFM converts POD markup into GitHub-flavored Markdown. The only
// divergence from RenderMarkdown is fenced verbatim blocks, dedented so the
// fence content starts at column zero.
func RenderGFM(markup string) string {
	return renderMarkdown(markup, true, "markdown")
}

func renderMarkdown(markup string, fenced bool, regionFormats ...string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	r := &markdownRenderer{fenced: fenced, regions: regionFormats}
	r.nodes(Parse(markup).Nodes, "")
	return strings.TrimRight(r.b.String(), "\n") + "\n"
}

type markdownRenderer struct {
	b       strings.Builder
	fenced  bool
	regions []string
}

func (r *markdownRenderer) includesRegion(name string) bool {
	for _, f := range r.regions {
		if f == name {
			return true
		}
	}
	return false
}

func (r *markdownRenderer) nodes(nodes []Node, indent string) {
	for _, n := range nodes {
		switch node := n.(type) {
		case Heading:
			r.line(indent + strings.Repeat("#", node.Level) + " " + inlineMarkdown(node.Text))
			r.blank()
		case Paragraph:
			r.line(indent + inlineMarkdown(node.Text))
			r.blank()
		case Verbatim:
			r.verbatim(node, indent)
		case List:
			r.list(node, indent)
		case Region:
			if r.includesRegion(node.Format) {
				for _, l := range node.Lines {
					r.line(indent + l)
				}
				r.blank()
			}
		}
	}
}

func (r *markdownRenderer) verbatim(v Verbatim, indent string) {
	if r.fenced {
		r.line(indent + "```")
		for _, l := range dedent(v.Lines) {
			r.line(indent + l)
		}
		r.line(indent + "```")
		r.blank()
		return
	}
	for _, l := range v.Lines {
		r.line(indent + "    " + l)
	}
	r.blank()
}

func (r *markdownRenderer) list(l List, indent string) {
	for _, item := range l.Items {
		switch {
		case item.IsBullet():
			r.item("- ", item.Nodes, indent)
		case item.Ordinal() > 0:
			r.item(strings.TrimSuffix(strings.TrimSpace(item.Marker), ".")+". ", item.Nodes, indent)
		default:
			r.line(indent + "- **" + inlineMarkdown(item.Marker) + "**")
			r.blank()
			r.nodes(item.Nodes, indent+"    ")
		}
	}
}

func (r *markdownRenderer) item(marker string, nodes []Node, indent string) {
	body := indent + strings.Repeat(" ", len(marker))
	if len(nodes) > 0 {
		if p, ok := nodes[0].(Paragraph); ok {
			r.line(indent + marker + inlineMarkdown(p.Text))
			r.blank()
			r.nodes(nodes[1:], body)
			return
		}
	}
	r.line(indent + strings.TrimRight(marker, " "))
	r.blank()
	r.nodes(nodes, body)
}

func (r *markdownRenderer) line(s string) {
	r.b.WriteString(strings.TrimRight(s, " "))
	r.b.WriteByte('\n')
}

func (r *markdownRenderer) blank() {
	r.b.WriteByte('\n')
}

// dedent strips the longest common leading whitespace from the block.
func dedent(lines []string) []string {
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= common {
			out[i] = l[common:]
		} else {
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return out
}

// inlineMarkdown renders inline formatting codes for Markdown output.
func inlineMarkdown(s string) string {
	return spansToMarkdown(parseInline(s))
}

func spansToMarkdown(spans []span) string {
	var b strings.Builder
	for _, sp := range spans {
		switch sp.code {
		case 0:
			b.WriteString(escapeMarkdown(sp.text))
		case 'B':
			b.WriteString("**" + spansToMarkdown(sp.children) + "**")
		case 'I', 'F':
			b.WriteString("_" + spansToMarkdown(sp.children) + "_")
		case 'C':
			b.WriteString(codeSpan(flattenSpans(sp.children)))
		case 'L':
			b.WriteString(markdownLink(linkParts(sp.text)))
		default:
			b.WriteString(spansToMarkdown(sp.children))
		}
	}
	return b.String()
}

func markdownLink(l link) string {
	switch {
	case l.isURL:
		return "[" + escapeMarkdown(l.display) + "](" + l.target + ")"
	case l.target != "":
		url := metacpanBase + l.target
		if l.section != "" {
			url += "#" + strings.ReplaceAll(l.section, " ", "-")
		}
		return "[" + escapeMarkdown(l.display) + "](" + url + ")"
	default:
		return `"` + escapeMarkdown(l.display) + `"`
	}
}

// codeSpan wraps code in backticks, doubling them when the content itself
// contains a backtick.
func codeSpan(code string) string {
	if strings.Contains(code, "`") {
		return "`` " + code + " ``"
	}
	return "`" + code + "`"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
