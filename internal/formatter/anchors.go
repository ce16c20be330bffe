package formatter

import (
	"strings"
	"unicode"

	"github.com/mdsn/manifold/internal/core/document"
)

// HeadingFunc reports whether a formatted line is a section heading.
type HeadingFunc func(line string) bool

// ExtractAnchors infers anchors from formatted lines. Lines accepted by
// isHeading become headings; the first non-blank line after a blank line or
// a heading, and the first line of the text, become paragraph starts. A nil
// isHeading yields paragraph anchors only.
func ExtractAnchors(lines []string, isHeading HeadingFunc) []document.Anchor {
	var anchors []document.Anchor
	boundary := true

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			boundary = true
			continue
		}

		switch {
		case isHeading != nil && isHeading(line):
			anchors = append(anchors, document.Anchor{Kind: document.AnchorHeading, Line: i})
			boundary = true
			continue
		case boundary:
			anchors = append(anchors, document.Anchor{Kind: document.AnchorParagraphStart, Line: i})
		}
		boundary = false
	}
	return anchors
}

// ManHeading matches manual page section headings: unindented lines written
// in capitals, such as "NAME" or "RETURN VALUE".
func ManHeading(line string) bool {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return false
	}

	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}

// MarkdownHeading matches headings as rendered by glamour's plain styles,
// which keep the leading hashes.
func MarkdownHeading(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "#")
}
