package formatter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/mdsn/manifold/internal/core/document"
)

const tabStop = 8

// Sanitize turns raw formatter output into plain display lines: escape
// sequences and overstrikes are removed, tabs are expanded to display-width
// tab stops, and trailing whitespace and blank trailing lines are trimmed.
// Any other control character is an encoding error.
func Sanitize(raw []byte) ([]string, error) {
	if !utf8.Valid(raw) {
		return nil, document.EncodingError("output is not valid UTF-8")
	}

	text := ansi.Strip(stripOverstrike(string(raw)))
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = expandTabs(line)
		if r, ok := firstControl(line); ok {
			return nil, document.EncodingError("control character %U on line %d", r, i+1)
		}
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// stripOverstrike removes backspace overstrikes ("_\bx" underline, "x\bx"
// bold), keeping the character typed last.
func stripOverstrike(line string) string {
	if !strings.ContainsRune(line, '\b') {
		return line
	}

	out := make([]rune, 0, len(line))
	for _, r := range line {
		if r == '\b' {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func expandTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}

	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tabStop - col%tabStop
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

func firstControl(line string) (rune, bool) {
	for _, r := range line {
		if unicode.IsControl(r) {
			return r, true
		}
	}
	return 0, false
}
