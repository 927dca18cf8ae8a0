// Package pod extracts POD documentation markup embedded in source files and
// converts it into the supported README formats. Extraction and parsing are
// pure text transformations; converters register themselves with the format
// registry at init time.
package pod

import "strings"

// Extract isolates the POD regions from full source text and concatenates
// them in source order, separated by one blank line. A region starts at a
// line opening with "=" followed by a letter and ends at "=cut" (the "=cut"
// line itself is not documentation). Returns "" when the source carries no
// markup.
func Extract(source string) string {
	var regions []string
	var current []string
	inPod := false

	for _, line := range strings.Split(source, "\n") {
		if !inPod {
			if isCommandStart(line) {
				inPod = true
				current = append(current, line)
			}
			continue
		}
		if strings.HasPrefix(line, "=cut") {
			inPod = false
			regions = append(regions, strings.TrimRight(strings.Join(current, "\n"), "\n"))
			current = nil
			continue
		}
		current = append(current, line)
	}
	if inPod {
		regions = append(regions, strings.TrimRight(strings.Join(current, "\n"), "\n"))
	}

	if len(regions) == 0 {
		return ""
	}
	return strings.Join(regions, "\n\n") + "\n"
}

// DeclaredEncoding returns the encoding name stated by the markup's
// "=encoding" command, or "" when the markup declares none.
func DeclaredEncoding(markup string) string {
	return Parse(markup).Encoding
}

// isCommandStart reports whether line opens a POD region. "=cut" outside a
// region is a markup error; it never opens one.
func isCommandStart(line string) bool {
	if len(line) < 2 || line[0] != '=' {
		return false
	}
	c := line[1]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return false
	}
	return !strings.HasPrefix(line, "=cut")
}
