package document

import "sort"

// RenderCache is the full formatted text of a document at exactly Width.
// A cache is replaced wholesale, never patched.
type RenderCache struct {
	Width       int
	Lines       []string
	Anchors     []Anchor // ordered by Line
	GeneratedAt uint64   // render generation that produced the cache
}

// LineCount returns the number of rendered lines.
func (c *RenderCache) LineCount() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

// anchorAt returns the index of the last anchor at or above line.
func (c *RenderCache) anchorAt(line int) (int, bool) {
	i := sort.Search(len(c.Anchors), func(i int) bool {
		return c.Anchors[i].Line > line
	})
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}

// ordinal counts the anchors of the same kind before anchor idx.
func (c *RenderCache) ordinal(idx int) int {
	kind := c.Anchors[idx].Kind
	n := 0
	for _, a := range c.Anchors[:idx] {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// findAnchor returns the index of the ordinal-th anchor of kind.
func (c *RenderCache) findAnchor(kind AnchorKind, ordinal int) (int, bool) {
	n := 0
	for i, a := range c.Anchors {
		if a.Kind != kind {
			continue
		}
		if n == ordinal {
			return i, true
		}
		n++
	}
	return 0, false
}

// span is the number of lines from anchor idx to the next anchor, or to the
// end of the text for the last one.
func (c *RenderCache) span(idx int) int {
	start := c.Anchors[idx].Line
	for _, a := range c.Anchors[idx+1:] {
		if a.Line > start {
			return a.Line - start
		}
	}
	return max(len(c.Lines)-start, 0)
}
