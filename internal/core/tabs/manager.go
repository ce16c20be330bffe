// Package tabs owns the ordered set of open documents and routes user intents
// to the active one. A Manager has exactly one writer, the event loop; renders
// leave through a Scheduler and come back as completions via Complete.
package tabs

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mdsn/manifold/internal/core/document"
)

var (
	// ErrEmptyTabSet is returned by operations that need an active tab when
	// none is open. It describes a valid state, not a failure.
	ErrEmptyTabSet = errors.New("no open tabs")
	// ErrNoSuchTab is returned for an index outside the tab list.
	ErrNoSuchTab = errors.New("no such tab")
)

// Scheduler accepts render requests. Schedule must not block; the result is
// handed back to Manager.Complete by the caller's event loop.
type Scheduler interface {
	Schedule(req document.RenderRequest)
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(req document.RenderRequest)

// Schedule calls f.
func (f SchedulerFunc) Schedule(req document.RenderRequest) { f(req) }

// Outcome reports what Complete did with a completion.
type Outcome struct {
	Doc     *document.Document // nil when the document was closed
	Applied bool
	Err     error // render failure, set only when Applied
}

// Manager is the ordered tab list plus the active index and the terminal
// geometry used for rendering.
type Manager struct {
	tabs      []*document.Document
	active    int
	width     int
	height    int
	nextID    uint64
	scheduler Scheduler
	log       zerolog.Logger
}

// New creates an empty manager that dispatches renders to s.
func New(s Scheduler, logger zerolog.Logger) *Manager {
	return &Manager{scheduler: s, log: logger}
}

// Len returns the number of open tabs.
func (m *Manager) Len() int { return len(m.tabs) }

// Width returns the current render width; 0 before the first resize.
func (m *Manager) Width() int { return m.width }

// Height returns the viewport height in lines; 0 when unknown.
func (m *Manager) Height() int { return m.height }

// Tabs returns the open documents in tab order.
func (m *Manager) Tabs() []*document.Document {
	return append([]*document.Document(nil), m.tabs...)
}

// ActiveIndex returns the active tab index, or -1 when no tab is open.
func (m *Manager) ActiveIndex() int {
	if len(m.tabs) == 0 {
		return -1
	}
	return m.active
}

// Active returns the active document.
func (m *Manager) Active() (*document.Document, error) {
	if len(m.tabs) == 0 {
		return nil, ErrEmptyTabSet
	}
	return m.tabs[m.active], nil
}

// Lookup finds an open document by ID.
func (m *Manager) Lookup(id uint64) (*document.Document, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return m.tabs[i], true
}

func (m *Manager) indexOf(id uint64) int {
	for i, d := range m.tabs {
		if d.ID() == id {
			return i
		}
	}
	return -1
}

// Open appends a tab for identity, makes it active and dispatches its first
// render once a width is known.
func (m *Manager) Open(identity document.Identity) *document.Document {
	m.nextID++
	d := document.New(m.nextID, identity)
	m.tabs = append(m.tabs, d)
	m.active = len(m.tabs) - 1

	m.log.Debug().Uint64("doc_id", d.ID()).Str("doc", d.Title()).Int("tabs", len(m.tabs)).Msg("open tab")
	m.ensure(d)
	return d
}

// Close removes the tab at index. When the active tab closes, the tab to its
// left becomes active, else the one to its right.
func (m *Manager) Close(index int) error {
	if len(m.tabs) == 0 {
		return ErrEmptyTabSet
	}
	if index < 0 || index >= len(m.tabs) {
		return fmt.Errorf("close tab %d: %w", index, ErrNoSuchTab)
	}

	closed := m.tabs[index]
	m.tabs = append(m.tabs[:index], m.tabs[index+1:]...)

	switch {
	case len(m.tabs) == 0:
		m.active = 0
	case index < m.active:
		m.active--
	case index == m.active:
		m.active = max(index-1, 0)
		m.ensure(m.tabs[m.active])
	}

	m.log.Debug().Uint64("doc_id", closed.ID()).Str("doc", closed.Title()).Int("tabs", len(m.tabs)).Msg("close tab")
	return nil
}

// CloseActive closes the active tab.
func (m *Manager) CloseActive() error {
	if len(m.tabs) == 0 {
		return ErrEmptyTabSet
	}
	return m.Close(m.active)
}

// SwitchTo activates the tab at index, dispatching a render first if its
// cache is stale for the current width.
func (m *Manager) SwitchTo(index int) error {
	if len(m.tabs) == 0 {
		return ErrEmptyTabSet
	}
	if index < 0 || index >= len(m.tabs) {
		return fmt.Errorf("switch to tab %d: %w", index, ErrNoSuchTab)
	}
	m.ensure(m.tabs[index])
	m.active = index
	return nil
}

// CycleNext activates the tab to the right, wrapping around.
func (m *Manager) CycleNext() error {
	if len(m.tabs) == 0 {
		return ErrEmptyTabSet
	}
	return m.SwitchTo((m.active + 1) % len(m.tabs))
}

// CyclePrev activates the tab to the left, wrapping around.
func (m *Manager) CyclePrev() error {
	if len(m.tabs) == 0 {
		return ErrEmptyTabSet
	}
	return m.SwitchTo((m.active - 1 + len(m.tabs)) % len(m.tabs))
}

// Move reorders the tab at from to position to. The active document stays
// active.
func (m *Manager) Move(from, to int) error {
	if len(m.tabs) == 0 {
		return ErrEmptyTabSet
	}
	if from < 0 || from >= len(m.tabs) {
		return fmt.Errorf("move tab %d: %w", from, ErrNoSuchTab)
	}
	if to < 0 || to >= len(m.tabs) {
		return fmt.Errorf("move tab to %d: %w", to, ErrNoSuchTab)
	}
	if from == to {
		return nil
	}

	active := m.tabs[m.active]
	d := m.tabs[from]
	m.tabs = append(m.tabs[:from], m.tabs[from+1:]...)
	m.tabs = append(m.tabs[:to], append([]*document.Document{d}, m.tabs[to:]...)...)
	m.active = m.indexOf(active.ID())
	return nil
}

// OnResize sets the render width. When it changes every tab becomes dirty
// and only the active tab is re-rendered; the others render when activated.
func (m *Manager) OnResize(width int) {
	if width <= 0 || width == m.width {
		return
	}
	m.log.Debug().Int("from", m.width).Int("to", width).Int("tabs", len(m.tabs)).Msg("resize")

	m.width = width
	for _, d := range m.tabs {
		d.MarkDirty()
	}
	if d, err := m.Active(); err == nil {
		m.ensure(d)
	}
}

// SetViewportHeight records how many content lines are visible. Scrolling is
// clamped so the last page stays full.
func (m *Manager) SetViewportHeight(height int) {
	m.height = max(height, 0)
	if d, err := m.Active(); err == nil {
		d.ClampScroll(m.height)
	}
}

// Scroll moves the active document by delta lines.
func (m *Manager) Scroll(delta int) error {
	d, err := m.Active()
	if err != nil {
		return err
	}
	d.ScrollBy(delta, m.height)
	return nil
}

// ScrollTo moves the active document's first visible line to line.
func (m *Manager) ScrollTo(line int) error {
	d, err := m.Active()
	if err != nil {
		return err
	}
	d.ScrollTo(line, m.height)
	return nil
}

// ScrollToBottom shows the last page of the active document.
func (m *Manager) ScrollToBottom() error {
	d, err := m.Active()
	if err != nil {
		return err
	}
	d.ScrollTo(d.MaxScroll(m.height), m.height)
	return nil
}

// Search runs query over the active document and returns the match count.
func (m *Manager) Search(query string) (int, error) {
	d, err := m.Active()
	if err != nil {
		return 0, err
	}
	return d.StartSearch(query), nil
}

// NextMatch jumps to the next match in the active document.
func (m *Manager) NextMatch() (int, bool, error) {
	d, err := m.Active()
	if err != nil {
		return 0, false, err
	}
	line, ok := d.NextMatch(m.height)
	return line, ok, nil
}

// PrevMatch jumps to the previous match in the active document.
func (m *Manager) PrevMatch() (int, bool, error) {
	d, err := m.Active()
	if err != nil {
		return 0, false, err
	}
	line, ok := d.PrevMatch(m.height)
	return line, ok, nil
}

// ClearSearch drops the active document's search.
func (m *Manager) ClearSearch() error {
	d, err := m.Active()
	if err != nil {
		return err
	}
	d.ClearSearch()
	return nil
}

// Reload discards the active document's cache validity and renders it again.
func (m *Manager) Reload() error {
	d, err := m.Active()
	if err != nil {
		return err
	}
	d.MarkDirty()
	m.ensure(d)
	return nil
}

// Complete applies a finished render. Completions for closed tabs and stale
// generations are dropped. A render that lands at a width other than the
// current one leaves the document dirty.
func (m *Manager) Complete(c document.Completion) Outcome {
	d, ok := m.Lookup(c.DocID)
	if !ok {
		m.log.Debug().Uint64("doc_id", c.DocID).Msg("drop completion for closed tab")
		return Outcome{}
	}

	applied, err := d.Apply(c)
	if !applied {
		m.log.Debug().
			Uint64("doc_id", c.DocID).
			Uint64("generation", c.Generation).
			Uint64("current", d.Generation()).
			Msg("drop stale completion")
		return Outcome{Doc: d}
	}
	if err != nil {
		m.log.Warn().Err(err).Uint64("doc_id", d.ID()).Str("doc", d.Title()).Int("width", c.Width).Msg("render failed")
		return Outcome{Doc: d, Applied: true, Err: err}
	}

	d.ClampScroll(m.height)
	if c.Width != m.width {
		d.MarkDirty()
	}
	if active, _ := m.Active(); active == d {
		m.ensure(d)
	}
	return Outcome{Doc: d, Applied: true}
}

// ensure dispatches a render for d at the current width when its cache is
// missing, stale, or at another width.
func (m *Manager) ensure(d *document.Document) {
	if m.width <= 0 || !d.NeedsRender(m.width) {
		return
	}
	req := d.BeginRender(m.width)
	m.log.Debug().
		Uint64("doc_id", req.DocID).
		Str("doc", d.Title()).
		Int("width", req.Width).
		Uint64("generation", req.Generation).
		Msg("dispatch render")
	m.scheduler.Schedule(req)
}
