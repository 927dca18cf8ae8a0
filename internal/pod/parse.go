package pod

import (
	"strconv"
	"strings"
)

// Document is the block-level parse of one POD markup text.
type Document struct {
	// Encoding is the name declared by "=encoding", or "" when absent.
	Encoding string
	Nodes    []Node
}

// Node is one block-level element of a parsed document.
type Node interface{ isNode() }

// Heading is a "=head1".."=head4" command.
type Heading struct {
	Level int
	Text  string
}

// Paragraph is an ordinary text paragraph, lines joined with single spaces.
type Paragraph struct {
	Text string
}

// Verbatim is an indented paragraph, lines kept exactly as written.
type Verbatim struct {
	Lines []string
}

// List is an "=over".."=back" block.
type List struct {
	Items []Item
}

// Item is one "=item". The marker distinguishes bullet ("*" or empty),
// ordered (a number) and definition items (any other text).
type Item struct {
	Marker string
	Nodes  []Node
}

// Region is a "=begin".."=end" or "=for" block targeted at a specific output
// format. Lines are kept raw; renderers include them only when the format
// name matches their own.
type Region struct {
	Format string
	Lines  []string
}

func (Heading) isNode()   {}
func (Paragraph) isNode() {}
func (Verbatim) isNode()  {}
func (List) isNode()      {}
func (Item) isNode()      {}
func (Region) isNode()    {}

// IsBullet reports whether the item renders as an unordered bullet.
func (it Item) IsBullet() bool {
	m := strings.TrimSpace(it.Marker)
	return m == "" || m == "*"
}

// Ordinal returns the item's number for ordered lists, or 0 when the marker
// is not numeric.
func (it Item) Ordinal() int {
	m := strings.TrimSuffix(strings.TrimSpace(it.Marker), ".")
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Parse builds the block-level document model from POD markup. The parser is
// tolerant: unknown commands and stray "=back"/"=end" are dropped rather than
// reported, matching how POD processors skip what they do not understand.
func Parse(markup string) *Document {
	p := &parser{paras: splitParagraphs(markup)}
	nodes := p.parseNodes(stopNone)
	return &Document{Encoding: p.encoding, Nodes: nodes}
}

// paragraph is one blank-line-delimited chunk of markup.
type paragraph struct {
	cmd      string // command name without "=", "" for text paragraphs
	arg      string // command argument, continuation lines joined
	lines    []string
	verbatim bool
}

func splitParagraphs(markup string) []paragraph {
	var paras []paragraph
	var chunk []string

	flush := func() {
		if len(chunk) == 0 {
			return
		}
		paras = append(paras, classifyChunk(chunk))
		chunk = nil
	}

	for _, line := range strings.Split(markup, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		chunk = append(chunk, line)
	}
	flush()
	return paras
}

func classifyChunk(lines []string) paragraph {
	first := lines[0]
	if strings.HasPrefix(first, "=") {
		cmd := first[1:]
		arg := ""
		if sp := strings.IndexAny(cmd, " \t"); sp >= 0 {
			arg = strings.TrimSpace(cmd[sp+1:])
			cmd = cmd[:sp]
		}
		// Continuation lines belong to the command's argument.
		for _, l := range lines[1:] {
			if arg == "" {
				arg = strings.TrimSpace(l)
			} else {
				arg += " " + strings.TrimSpace(l)
			}
		}
		return paragraph{cmd: strings.ToLower(cmd), arg: arg, lines: lines}
	}
	if strings.IndexAny(first, " \t") == 0 {
		return paragraph{lines: lines, verbatim: true}
	}
	return paragraph{lines: lines}
}

type stopSet int

const (
	stopNone stopSet = iota
	stopAtItemOrBack
)

type parser struct {
	paras    []paragraph
	i        int
	encoding string
}

func (p *parser) peek() (paragraph, bool) {
	if p.i >= len(p.paras) {
		return paragraph{}, false
	}
	return p.paras[p.i], true
}

func (p *parser) parseNodes(stop stopSet) []Node {
	var nodes []Node
	for {
		para, ok := p.peek()
		if !ok {
			return nodes
		}
		if stop != stopNone && para.cmd == "back" {
			return nodes
		}
		if stop == stopAtItemOrBack && para.cmd == "item" {
			return nodes
		}
		p.i++

		switch {
		case para.verbatim:
			nodes = append(nodes, Verbatim{Lines: para.lines})
		case para.cmd == "":
			nodes = append(nodes, Paragraph{Text: strings.Join(trimmedLines(para.lines), " ")})
		case strings.HasPrefix(para.cmd, "head"):
			level, err := strconv.Atoi(para.cmd[len("head"):])
			if err != nil || level < 1 || level > 4 {
				continue
			}
			nodes = append(nodes, Heading{Level: level, Text: para.arg})
		case para.cmd == "over":
			nodes = append(nodes, p.parseList())
		case para.cmd == "begin":
			nodes = append(nodes, p.parseBeginRegion(para.arg)...)
		case para.cmd == "for":
			nodes = append(nodes, parseForRegion(para)...)
		case para.cmd == "encoding":
			if p.encoding == "" {
				p.encoding = para.arg
			}
		case para.cmd == "pod", para.cmd == "cut", para.cmd == "back", para.cmd == "end", para.cmd == "item":
			// =pod is a no-op marker; the rest are strays at this point.
		}
	}
}

func (p *parser) parseList() Node {
	var items []Item
	for {
		para, ok := p.peek()
		if !ok {
			break
		}
		if para.cmd == "back" {
			p.i++
			break
		}
		if para.cmd == "item" {
			p.i++
			marker, lead := splitItemArg(para.arg)
			nodes := p.parseNodes(stopAtItemOrBack)
			if lead != "" {
				nodes = append([]Node{Paragraph{Text: lead}}, nodes...)
			}
			items = append(items, Item{Marker: marker, Nodes: nodes})
			continue
		}
		// Content before the first =item becomes an unmarked item body.
		items = append(items, Item{Nodes: p.parseNodes(stopAtItemOrBack)})
	}
	return List{Items: items}
}

// parseBeginRegion consumes paragraphs until the matching "=end". A format
// name starting with ":" means the content is ordinary POD and is parsed in
// place rather than captured raw.
func (p *parser) parseBeginRegion(formatName string) []Node {
	name := strings.TrimSpace(formatName)
	if strings.HasPrefix(name, ":") {
		// Ordinary POD content; the closing "=end" is dropped as a stray by
		// the node loop.
		return p.parseNodes(stopNone)
	}

	var lines []string
	for {
		para, ok := p.peek()
		if !ok {
			break
		}
		p.i++
		if para.cmd == "end" {
			break
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, para.lines...)
	}
	return []Node{Region{Format: name, Lines: lines}}
}

func parseForRegion(para paragraph) []Node {
	name := para.arg
	text := ""
	if sp := strings.IndexAny(name, " \t"); sp >= 0 {
		text = strings.TrimSpace(name[sp+1:])
		name = name[:sp]
	}
	if strings.HasPrefix(name, ":") {
		if text == "" {
			return nil
		}
		return []Node{Paragraph{Text: text}}
	}
	if text == "" {
		return []Node{Region{Format: name}}
	}
	return []Node{Region{Format: name, Lines: []string{text}}}
}

// splitItemArg separates an =item argument into the list marker and any text
// written on the marker line. Bullet and ordered markers may carry lead text
// ("=item * one"); definition markers are the whole argument.
func splitItemArg(arg string) (marker, lead string) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", ""
	}
	if arg == "*" || strings.HasPrefix(arg, "* ") {
		return "*", strings.TrimSpace(strings.TrimPrefix(arg, "*"))
	}
	first, rest, _ := strings.Cut(arg, " ")
	if (Item{Marker: first}).Ordinal() > 0 {
		return first, strings.TrimSpace(rest)
	}
	return arg, ""
}

func trimmedLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
