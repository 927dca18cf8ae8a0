package pod

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// RenderHTML converts POD markup into a standalone HTML document. The body is
// produced by converting the Markdown rendering; the document title is lifted
// from the first level-one heading when one exists.
func RenderHTML(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	body := htmlBody(markup)
	title := firstHeadingText(body)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\" />\n")
	if title != "" {
		b.WriteString("<title>" + stdhtml.EscapeString(title) + "</title>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func htmlBody(markup string) string {
	// Raw "=begin html" regions flow through the intermediate Markdown, so
	// the renderer must keep inline HTML instead of stripping it.
	md := renderMarkdown(markup, true, "markdown", "html")
	var buf bytes.Buffer
	gm := goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	if err := gm.Convert([]byte(md), &buf); err != nil {
		// Conversion of self-produced Markdown failing means the content is
		// hostile to the parser; fall back to a preformatted dump.
		return "<pre>" + stdhtml.EscapeString(md) + "</pre>\n"
	}
	return buf.String()
}

// firstHeadingText parses rendered HTML and returns the text of the first
// <h1> element, or "".
func firstHeadingText(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "h1" {
			title = strings.TrimSpace(nodeText(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
