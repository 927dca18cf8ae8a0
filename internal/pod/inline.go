package pod

import (
	"strconv"
	"strings"
)

// span is one piece of inline text. code is 0 for plain text; otherwise it is
// the formatting-code letter (B, I, C, F, L, S). E, X and Z are resolved
// during parsing and never appear in the result. For L the raw link body is
// kept in text because the target grammar needs the unrendered form.
type span struct {
	code     byte
	text     string
	children []span
}

// parseInline parses POD inline formatting codes, including multi-angle
// delimiters ("C<< ... >>") and nested codes ("B<I<x>>").
func parseInline(s string) []span {
	p := &inlineParser{s: s}
	return p.parse("")
}

type inlineParser struct {
	s string
	i int
}

func (p *inlineParser) parse(close string) []span {
	var spans []span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, span{text: plain.String()})
			plain.Reset()
		}
	}

	for p.i < len(p.s) {
		if close != "" && p.closesHere(close) {
			break
		}

		c := p.s[p.i]
		if c >= 'A' && c <= 'Z' && p.i+1 < len(p.s) && p.s[p.i+1] == '<' {
			code := c
			angles := 0
			j := p.i + 1
			for j < len(p.s) && p.s[j] == '<' {
				angles++
				j++
			}
			// Multi-angle delimiters require whitespace after the "<<".
			if angles > 1 && (j >= len(p.s) || (p.s[j] != ' ' && p.s[j] != '\t')) {
				plain.WriteByte(c)
				p.i++
				continue
			}
			p.i = j
			if angles > 1 {
				p.i++ // the required space
			}

			inner := p.parse(strings.Repeat(">", angles))
			p.consumeClose(strings.Repeat(">", angles), angles > 1)

			resolved, ok := resolveCode(code, inner)
			if ok {
				flush()
				spans = append(spans, resolved...)
			}
			continue
		}

		plain.WriteByte(c)
		p.i++
	}

	flush()
	return spans
}

// closesHere reports whether the closing delimiter starts at the cursor. For
// multi-angle closes the preceding whitespace belongs to the delimiter, so
// " >>" matches with the cursor on the space.
func (p *inlineParser) closesHere(close string) bool {
	if len(close) > 1 {
		if (p.s[p.i] == ' ' || p.s[p.i] == '\t') && strings.HasPrefix(p.s[p.i+1:], close) {
			return true
		}
	}
	return strings.HasPrefix(p.s[p.i:], close)
}

func (p *inlineParser) consumeClose(close string, multi bool) {
	if p.i < len(p.s) && multi && (p.s[p.i] == ' ' || p.s[p.i] == '\t') {
		p.i++
	}
	if strings.HasPrefix(p.s[p.i:], close) {
		p.i += len(close)
	}
}

// resolveCode turns a parsed formatting code into result spans. The second
// return is false when the code produces no output at all (X and Z).
func resolveCode(code byte, inner []span) ([]span, bool) {
	switch code {
	case 'E':
		return []span{{text: decodeEntity(flattenSpans(inner))}}, true
	case 'Z', 'X':
		return nil, false
	case 'L':
		return []span{{code: 'L', text: flattenSpans(inner), children: inner}}, true
	case 'S':
		// Non-breaking semantics are a terminal concern; content passes
		// through unchanged.
		return inner, true
	case 'B', 'I', 'C', 'F':
		return []span{{code: code, children: inner}}, true
	default:
		// Unknown code letters render as their content.
		return inner, true
	}
}

// flattenSpans renders spans back to plain text, dropping formatting.
func flattenSpans(spans []span) string {
	var b strings.Builder
	for _, sp := range spans {
		if sp.code == 'L' {
			b.WriteString(linkParts(sp.text).display)
			continue
		}
		if len(sp.children) > 0 {
			b.WriteString(flattenSpans(sp.children))
			continue
		}
		b.WriteString(sp.text)
	}
	return b.String()
}

// decodeEntity resolves an E<> escape name to its character. Unknown names
// come back wrapped in angle brackets so the markup error stays visible.
func decodeEntity(name string) string {
	switch name {
	case "lt":
		return "<"
	case "gt":
		return ">"
	case "sol":
		return "/"
	case "verbar":
		return "|"
	case "amp":
		return "&"
	case "quot":
		return `"`
	case "apos":
		return "'"
	}
	if n, err := strconv.ParseInt(strings.TrimPrefix(name, "0x"), hexBase(name), 32); err == nil && n > 0 {
		return string(rune(n))
	}
	return "E<" + name + ">"
}

func hexBase(name string) int {
	if strings.HasPrefix(name, "0x") {
		return 16
	}
	return 10
}

// link holds the decomposed parts of an L<> code.
type link struct {
	display string // text shown to the reader
	target  string // module name or URL, "" for section-only links
	section string
	isURL   bool
}

// linkParts implements the L<> target grammar: L<text|target>, L<url>,
// L<module>, L<module/"section">, L</section>.
func linkParts(raw string) link {
	var l link
	rest := raw

	if idx := strings.Index(rest, "|"); idx >= 0 {
		l.display = strings.TrimSpace(rest[:idx])
		rest = rest[idx+1:]
	}

	rest = strings.TrimSpace(rest)
	if strings.Contains(rest, "://") {
		l.target = rest
		l.isURL = true
		if l.display == "" {
			l.display = rest
		}
		return l
	}

	if idx := strings.Index(rest, "/"); idx >= 0 {
		l.target = strings.TrimSpace(rest[:idx])
		l.section = strings.Trim(strings.TrimSpace(rest[idx+1:]), `"`)
	} else {
		l.target = rest
	}

	if l.display == "" {
		switch {
		case l.target != "" && l.section != "":
			l.display = l.section + " in " + l.target
		case l.section != "":
			l.display = l.section
		default:
			l.display = l.target
		}
	}
	return l
}
