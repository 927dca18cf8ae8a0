package pod

import "strings"

const (
	textWidth      = 76
	textBodyIndent = 4
)

// RenderText converts POD markup into indented plain text in the style of
// terminal documentation output: top-level headings at the left margin,
// body text indented and wrapped, verbatim blocks kept as written.
func RenderText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	r := &textRenderer{}
	r.nodes(Parse(markup).Nodes, textBodyIndent)
	return strings.TrimRight(r.b.String(), "\n") + "\n"
}

type textRenderer struct {
	b strings.Builder
}

func (r *textRenderer) nodes(nodes []Node, indent int) {
	for _, n := range nodes {
		switch node := n.(type) {
		case Heading:
			r.line(strings.Repeat(" ", headingIndent(node.Level)) + inlineText(node.Text))
			r.blank()
		case Paragraph:
			r.wrapped(inlineText(node.Text), indent)
			r.blank()
		case Verbatim:
			for _, l := range node.Lines {
				r.line(strings.Repeat(" ", indent) + l)
			}
			r.blank()
		case List:
			r.list(node, indent)
		case Region:
			if node.Format == "text" {
				for _, l := range node.Lines {
					r.line(l)
				}
				r.blank()
			}
		}
	}
}

func (r *textRenderer) list(l List, indent int) {
	for _, item := range l.Items {
		switch {
		case item.IsBullet():
			r.item("*", item.Nodes, indent)
		case item.Ordinal() > 0:
			r.item(strings.TrimSpace(item.Marker), item.Nodes, indent)
		default:
			r.line(strings.Repeat(" ", indent) + inlineText(item.Marker))
			r.nodes(item.Nodes, indent+textBodyIndent)
		}
	}
}

// item renders the marker and the first paragraph on one line, remaining
// content indented underneath.
func (r *textRenderer) item(marker string, nodes []Node, indent int) {
	body := indent + len(marker) + 1
	if len(nodes) > 0 {
		if p, ok := nodes[0].(Paragraph); ok {
			lines := wrap(inlineText(p.Text), textWidth-body)
			r.line(strings.Repeat(" ", indent) + marker + " " + lines[0])
			for _, l := range lines[1:] {
				r.line(strings.Repeat(" ", body) + l)
			}
			r.blank()
			r.nodes(nodes[1:], body)
			return
		}
	}
	r.line(strings.Repeat(" ", indent) + marker)
	r.blank()
	r.nodes(nodes, body)
}

func (r *textRenderer) wrapped(text string, indent int) {
	for _, l := range wrap(text, textWidth-indent) {
		r.line(strings.Repeat(" ", indent) + l)
	}
}

func (r *textRenderer) line(s string) {
	r.b.WriteString(strings.TrimRight(s, " "))
	r.b.WriteByte('\n')
}

func (r *textRenderer) blank() {
	r.b.WriteByte('\n')
}

func headingIndent(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * 2
}

// wrap greedily folds text at word boundaries. Words longer than the width
// get a line of their own rather than being split.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if width < 1 {
		width = 1
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > width {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}

// inlineText renders inline formatting codes for plain-text output.
func inlineText(s string) string {
	return spansToText(parseInline(s))
}

func spansToText(spans []span) string {
	var b strings.Builder
	for _, sp := range spans {
		switch sp.code {
		case 0:
			b.WriteString(sp.text)
		case 'I':
			b.WriteString("*" + spansToText(sp.children) + "*")
		case 'C':
			b.WriteString(`"` + spansToText(sp.children) + `"`)
		case 'L':
			l := linkParts(sp.text)
			if l.isURL && l.display != l.target {
				b.WriteString(l.display + " <" + l.target + ">")
			} else {
				b.WriteString(l.display)
			}
		default:
			// B, F and unknown codes carry no plain-text decoration.
			b.WriteString(spansToText(sp.children))
		}
	}
	return b.String()
}
