package document

import (
	"context"
	"fmt"
)

type pendingRender struct {
	width      int
	generation uint64
}

// reflowMemo remembers where a chain of reflows started so that returning
// to the starting width restores the exact scroll position.
type reflowMemo struct {
	width  int
	scroll int
	ok     bool
}

// Document is the state of one open tab. It is owned by a single writer and
// is not safe for concurrent use.
type Document struct {
	id         uint64
	identity   Identity
	scroll     int
	cache      *RenderCache
	search     SearchState
	dirty      bool
	generation uint64
	pending    *pendingRender
	err        error
	memo       reflowMemo
}

// New creates a document with no rendered content.
func New(id uint64, identity Identity) *Document {
	return &Document{
		id:       id,
		identity: identity,
		search:   newSearchState(),
	}
}

func (d *Document) ID() uint64         { return d.id }
func (d *Document) Identity() Identity { return d.identity }
func (d *Document) Title() string      { return d.identity.String() }
func (d *Document) Scroll() int        { return d.scroll }
func (d *Document) Dirty() bool        { return d.dirty }
func (d *Document) Generation() uint64 { return d.generation }

// Err returns the last render failure; nil after a successful render.
func (d *Document) Err() error { return d.err }

// HasCache reports whether the document has rendered content at any width.
func (d *Document) HasCache() bool { return d.cache != nil }

// Cache returns the current render cache, or nil. Callers must not modify it.
func (d *Document) Cache() *RenderCache { return d.cache }

// Lines returns the cached lines, or nil when nothing has been rendered.
func (d *Document) Lines() []string {
	if d.cache == nil {
		return nil
	}
	return d.cache.Lines
}

// LineCount returns the number of cached lines.
func (d *Document) LineCount() int { return d.cache.LineCount() }

// Width returns the width of the cached render, or 0.
func (d *Document) Width() int {
	if d.cache == nil {
		return 0
	}
	return d.cache.Width
}

// Pending returns the width of the in-flight render, if any.
func (d *Document) Pending() (int, bool) {
	if d.pending == nil {
		return 0, false
	}
	return d.pending.width, true
}

// Search returns a copy of the search state.
func (d *Document) Search() SearchState { return d.search }

// MarkDirty flags the cache as stale for the current terminal width.
func (d *Document) MarkDirty() { d.dirty = true }

// NeedsRender reports whether a render at width has to be dispatched: the
// cache is missing, at another width, or dirty, and no render for width is
// already in flight.
func (d *Document) NeedsRender(width int) bool {
	if width <= 0 {
		return false
	}
	if d.pending != nil && d.pending.width == width {
		return false
	}
	if d.cache != nil && d.cache.Width == width && !d.dirty {
		return false
	}
	return true
}

// BeginRender starts a new render generation for width. Results of earlier
// generations are discarded by Apply.
func (d *Document) BeginRender(width int) RenderRequest {
	d.generation++
	d.pending = &pendingRender{width: width, generation: d.generation}
	return RenderRequest{
		DocID:      d.id,
		Identity:   d.identity,
		Width:      width,
		Generation: d.generation,
	}
}

// Apply installs a finished render. Completions for another document or an
// older generation are ignored and report applied == false. A failed render
// keeps the previous cache and returns the failure.
func (d *Document) Apply(c Completion) (applied bool, err error) {
	if c.DocID != d.id || c.Generation != d.generation {
		return false, nil
	}
	d.pending = nil

	if c.Err != nil {
		d.err = c.Err
		return true, c.Err
	}

	d.install(&RenderCache{
		Width:       c.Width,
		Lines:       c.Rendered.Lines,
		Anchors:     c.Rendered.Anchors,
		GeneratedAt: c.Generation,
	})
	return true, nil
}

func (d *Document) install(next *RenderCache) {
	old := d.cache
	sameWidth := old != nil && old.Width == next.Width

	switch {
	case old == nil, sameWidth:
		d.scroll = clampLine(d.scroll, next.LineCount())
	case d.memo.ok && d.memo.width == next.Width:
		d.scroll = clampLine(d.memo.scroll, next.LineCount())
		d.memo = reflowMemo{}
	default:
		if !d.memo.ok {
			d.memo = reflowMemo{width: old.Width, scroll: d.scroll, ok: true}
		}
		d.scroll = Reflow(old, next, d.scroll)
	}

	d.cache = next
	d.dirty = false
	d.err = nil

	// Line indices only survive a render at the same width.
	if sameWidth {
		d.search.refresh(next.Lines)
	} else {
		d.search.reset()
	}
}

// EnsureRendered renders the document at width through f unless the cache
// is already valid for it. On failure the previous cache is left intact.
func (d *Document) EnsureRendered(ctx context.Context, f Formatter, width int) error {
	if width <= 0 {
		return fmt.Errorf("render %s: invalid width %d", d.identity, width)
	}
	if !d.NeedsRender(width) {
		return nil
	}

	req := d.BeginRender(width)
	rendered, err := f.Render(ctx, d.identity, width)
	err = TimeoutError(ctx, d.identity, err)
	_, err = d.Apply(req.Complete(rendered, err))
	return err
}

// MaxScroll returns the largest first-visible line for a viewport of height
// lines; height <= 0 allows scrolling to the last line.
func (d *Document) MaxScroll(height int) int {
	n := d.LineCount()
	if n == 0 {
		return 0
	}
	if height <= 0 {
		return n - 1
	}
	return max(n-height, 0)
}

// ScrollTo moves the first visible line to line, clamped to the content.
func (d *Document) ScrollTo(line, height int) {
	d.scroll = max(min(line, d.MaxScroll(height)), 0)
	d.memo = reflowMemo{}
}

// ClampScroll keeps the first visible line inside a viewport of height lines.
// It is not a user scroll: a pending reflow round trip is kept.
func (d *Document) ClampScroll(height int) {
	d.scroll = max(min(d.scroll, d.MaxScroll(height)), 0)
}

// ScrollBy moves the first visible line by delta lines.
func (d *Document) ScrollBy(delta, height int) {
	d.ScrollTo(d.scroll+delta, height)
}

// StartSearch scans the cached lines for query and returns the number of
// matching lines. An empty query clears the search.
func (d *Document) StartSearch(query string) int {
	if query == "" {
		d.ClearSearch()
		return 0
	}
	d.search.run(d.Lines(), query, d.scroll)
	return len(d.search.Matches)
}

// NextMatch selects the next match and centres it in the viewport.
func (d *Document) NextMatch(height int) (int, bool) {
	line, ok := d.search.next()
	if ok {
		d.centerOn(line, height)
	}
	return line, ok
}

// PrevMatch selects the previous match and centres it in the viewport.
func (d *Document) PrevMatch(height int) (int, bool) {
	line, ok := d.search.prev()
	if ok {
		d.centerOn(line, height)
	}
	return line, ok
}

// ClearSearch drops the query and its matches.
func (d *Document) ClearSearch() {
	d.search.reset()
}

func (d *Document) centerOn(line, height int) {
	d.ScrollTo(line-max(height, 0)/2, height)
}
