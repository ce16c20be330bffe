package document

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type section struct {
	heading    string
	paragraphs []string
}

// wrapFormatter lays out sections deterministically: one heading line, then
// each paragraph greedily word-wrapped at width followed by a blank line.
type wrapFormatter struct {
	sections []section
	calls    int
	err      error
}

func (f *wrapFormatter) Render(_ context.Context, _ Identity, width int) (Rendered, error) {
	f.calls++
	if f.err != nil {
		return Rendered{}, f.err
	}

	var r Rendered
	for _, s := range f.sections {
		r.Anchors = append(r.Anchors, Anchor{Kind: AnchorHeading, Line: len(r.Lines)})
		r.Lines = append(r.Lines, s.heading)
		for _, p := range s.paragraphs {
			r.Anchors = append(r.Anchors, Anchor{Kind: AnchorParagraphStart, Line: len(r.Lines)})
			r.Lines = append(r.Lines, wrapWords(p, width)...)
			r.Lines = append(r.Lines, "")
		}
	}
	return r, nil
}

func wrapWords(text string, width int) []string {
	var out []string
	var cur string
	for _, w := range strings.Fields(text) {
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= width:
			cur += " " + w
		default:
			out = append(out, cur)
			cur = w
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func manualPage() *wrapFormatter {
	body := strings.Repeat("the quick brown fox jumps over the lazy dog ", 12)
	return &wrapFormatter{
		sections: []section{
			{heading: "NAME", paragraphs: []string{"read - read from a file descriptor"}},
			{heading: "SYNOPSIS", paragraphs: []string{body}},
			{heading: "DESCRIPTION", paragraphs: []string{body, body, body}},
			{heading: "RETURN VALUE", paragraphs: []string{body, body}},
			{heading: "ERRORS", paragraphs: []string{body}},
		},
	}
}

func headingLine(t *testing.T, d *Document, ordinal int) int {
	t.Helper()
	idx, ok := d.Cache().findAnchor(AnchorHeading, ordinal)
	require.True(t, ok, "heading %d", ordinal)
	return d.Cache().Anchors[idx].Line
}

func TestDocument_EnsureRendered_CacheHit(t *testing.T) {
	ctx := context.Background()
	f := manualPage()
	d := New(1, Identity{Name: "read", Section: "2"})

	require.NoError(t, d.EnsureRendered(ctx, f, 60))
	require.NoError(t, d.EnsureRendered(ctx, f, 60))
	assert.Equal(t, 1, f.calls, "second call at the same width is a cache hit")

	d.MarkDirty()
	require.NoError(t, d.EnsureRendered(ctx, f, 60))
	assert.Equal(t, 2, f.calls, "dirty cache is regenerated")
	assert.False(t, d.Dirty())
}

func TestDocument_EnsureRendered_InvalidWidth(t *testing.T) {
	d := New(1, Identity{Name: "read"})
	err := d.EnsureRendered(context.Background(), manualPage(), 0)
	require.Error(t, err)
	assert.False(t, d.HasCache())
}

func TestDocument_IdempotentReflow(t *testing.T) {
	ctx := context.Background()
	f := manualPage()
	d := New(1, Identity{Name: "read"})

	require.NoError(t, d.EnsureRendered(ctx, f, 40))
	original := append([]string(nil), d.Lines()...)

	require.NoError(t, d.EnsureRendered(ctx, f, 100))
	assert.NotEqual(t, len(original), d.LineCount())

	require.NoError(t, d.EnsureRendered(ctx, f, 40))
	assert.Equal(t, original, d.Lines())
	assert.Equal(t, 40, d.Width())
}

func TestDocument_AnchorStability(t *testing.T) {
	ctx := context.Background()
	f := manualPage()
	d := New(1, Identity{Name: "read"})

	require.NoError(t, d.EnsureRendered(ctx, f, 40))

	t.Run("heading stays in view across resize", func(t *testing.T) {
		d.ScrollTo(headingLine(t, d, 3), 0)

		require.NoError(t, d.EnsureRendered(ctx, f, 100))
		assert.Equal(t, headingLine(t, d, 3), d.Scroll())
	})

	t.Run("round trip restores heading-relative position", func(t *testing.T) {
		require.NoError(t, d.EnsureRendered(ctx, f, 40))
		start := headingLine(t, d, 2) + 7
		d.ScrollTo(start, 0)

		require.NoError(t, d.EnsureRendered(ctx, f, 100))
		require.NoError(t, d.EnsureRendered(ctx, f, 70))
		require.NoError(t, d.EnsureRendered(ctx, f, 40))
		assert.Equal(t, start, d.Scroll())
	})

	t.Run("user scroll ends the round trip", func(t *testing.T) {
		d.ScrollTo(headingLine(t, d, 2)+7, 0)
		require.NoError(t, d.EnsureRendered(ctx, f, 100))

		d.ScrollBy(1, 0)
		wide := d.Cache()
		scroll := d.Scroll()

		require.NoError(t, d.EnsureRendered(ctx, f, 40))
		assert.Equal(t, Reflow(wide, d.Cache(), scroll), d.Scroll())
	})

	t.Run("viewport clamp keeps the round trip", func(t *testing.T) {
		start := headingLine(t, d, 2) + 7
		d.ScrollTo(start, 0)

		require.NoError(t, d.EnsureRendered(ctx, f, 100))
		d.ClampScroll(5)
		require.NoError(t, d.EnsureRendered(ctx, f, 40))
		assert.Equal(t, start, d.Scroll())
	})
}

func TestDocument_FailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	f := manualPage()
	d := New(1, Identity{Name: "read"})

	require.NoError(t, d.EnsureRendered(ctx, f, 40))
	before := d.Lines()

	f.err = errors.Join(ErrRenderFailed, errors.New("man exited with 3"))
	err := d.EnsureRendered(ctx, f, 80)
	require.ErrorIs(t, err, ErrRenderFailed)

	assert.Equal(t, before, d.Lines(), "stale but readable")
	assert.Equal(t, 40, d.Width())
	assert.ErrorIs(t, d.Err(), ErrRenderFailed)
	_, pending := d.Pending()
	assert.False(t, pending)

	f.err = nil
	require.NoError(t, d.EnsureRendered(ctx, f, 80))
	assert.NoError(t, d.Err())
	assert.Equal(t, 80, d.Width())
}

func TestDocument_FailureWithoutCache(t *testing.T) {
	f := &wrapFormatter{err: ErrDocumentNotFound}
	d := New(1, Identity{Name: "seek"})

	err := d.EnsureRendered(context.Background(), f, 80)
	require.ErrorIs(t, err, ErrDocumentNotFound)
	assert.False(t, d.HasCache())
	assert.Nil(t, d.Lines())
}

func TestDocument_EnsureRendered_Timeout(t *testing.T) {
	f := FormatterFunc(func(ctx context.Context, _ Identity, _ int) (Rendered, error) {
		<-ctx.Done()
		return Rendered{}, ctx.Err()
	})
	d := New(1, Identity{Name: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := d.EnsureRendered(ctx, f, 80)
	require.ErrorIs(t, err, ErrRenderTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "stuck")
	assert.ErrorIs(t, d.Err(), ErrRenderTimeout)
}

func TestDocument_EnsureRendered_CancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := FormatterFunc(func(ctx context.Context, _ Identity, _ int) (Rendered, error) {
		cancel()
		return Rendered{}, ctx.Err()
	})

	err := New(1, Identity{Name: "ls"}).EnsureRendered(ctx, f, 80)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRenderTimeout)
}

func TestDocument_GenerationDiscarding(t *testing.T) {
	f := manualPage()
	d := New(7, Identity{Name: "read"})

	render := func(req RenderRequest) Completion {
		r, err := f.Render(context.Background(), req.Identity, req.Width)
		return req.Complete(r, err)
	}

	first := d.BeginRender(80)
	assert.False(t, d.NeedsRender(80), "render at 80 already in flight")

	second := d.BeginRender(100)
	assert.Greater(t, second.Generation, first.Generation)

	applied, err := d.Apply(render(second))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 100, d.Width())

	applied, err = d.Apply(render(first))
	require.NoError(t, err)
	assert.False(t, applied, "stale generation is discarded")
	assert.Equal(t, 100, d.Width())
	assert.Equal(t, second.Generation, d.Cache().GeneratedAt)
}

func TestDocument_ApplyIgnoresOtherDocuments(t *testing.T) {
	d := New(1, Identity{Name: "read"})
	req := d.BeginRender(80)
	req.DocID = 2

	applied, err := d.Apply(req.Complete(Rendered{Lines: []string{"x"}}, nil))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.False(t, d.HasCache())
}

func TestDocument_SearchAcrossRenders(t *testing.T) {
	ctx := context.Background()
	f := manualPage()
	d := New(1, Identity{Name: "read"})
	require.NoError(t, d.EnsureRendered(ctx, f, 40))

	n := d.StartSearch("fox")
	require.Positive(t, n)
	_, ok := d.NextMatch(10)
	require.True(t, ok)

	t.Run("same width keeps query", func(t *testing.T) {
		d.MarkDirty()
		require.NoError(t, d.EnsureRendered(ctx, f, 40))
		s := d.Search()
		assert.Equal(t, "fox", s.Query)
		assert.Len(t, s.Matches, n)
		_, ok := s.CurrentLine()
		assert.True(t, ok)
	})

	t.Run("new width discards search", func(t *testing.T) {
		require.NoError(t, d.EnsureRendered(ctx, f, 90))
		s := d.Search()
		assert.False(t, s.Active())
		assert.Empty(t, s.Matches)
		assert.Equal(t, -1, s.Current)
	})
}

func TestDocument_MatchNavigationScrolls(t *testing.T) {
	f := FormatterFunc(func(context.Context, Identity, int) (Rendered, error) {
		return Rendered{Lines: searchFixture()}, nil
	})
	d := New(1, Identity{Name: "fixture"})
	require.NoError(t, d.EnsureRendered(context.Background(), f, 80))

	require.Equal(t, 3, d.StartSearch("needle"))

	line, ok := d.NextMatch(10)
	require.True(t, ok)
	assert.Equal(t, 3, line)
	assert.Equal(t, 0, d.Scroll(), "centering clamps at the top")

	line, _ = d.NextMatch(10)
	assert.Equal(t, 17, line)
	assert.Equal(t, 12, d.Scroll())

	line, _ = d.NextMatch(10)
	assert.Equal(t, 42, line)
	assert.Equal(t, 37, d.Scroll())

	line, _ = d.PrevMatch(10)
	assert.Equal(t, 17, line)

	assert.Equal(t, 0, d.StartSearch(""))
	assert.False(t, d.Search().Active())
}

func TestDocument_Scroll(t *testing.T) {
	f := FormatterFunc(func(context.Context, Identity, int) (Rendered, error) {
		return Rendered{Lines: lines(30)}, nil
	})
	d := New(1, Identity{Name: "x"})

	d.ScrollBy(5, 10)
	assert.Equal(t, 0, d.Scroll(), "nothing to scroll before rendering")

	require.NoError(t, d.EnsureRendered(context.Background(), f, 80))

	d.ScrollBy(5, 10)
	assert.Equal(t, 5, d.Scroll())

	d.ScrollBy(100, 10)
	assert.Equal(t, 20, d.Scroll())

	d.ScrollBy(100, 0)
	assert.Equal(t, 29, d.Scroll())

	d.ScrollBy(-100, 10)
	assert.Equal(t, 0, d.Scroll())

	d.ScrollTo(25, 0)
	d.ClampScroll(10)
	assert.Equal(t, 20, d.Scroll())
	d.ClampScroll(0)
	assert.Equal(t, 20, d.Scroll())
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in   string
		want Identity
	}{
		{in: "ls", want: Identity{Name: "ls"}},
		{in: "read(2)", want: Identity{Name: "read", Section: "2"}},
		{in: " printf(3p) ", want: Identity{Name: "printf", Section: "3p"}},
		{in: "(2)", want: Identity{Name: "(2)"}},
		{in: "odd()", want: Identity{Name: "odd()"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseIdentity(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "read(2)", Identity{Name: "read", Section: "2"}.String())
	assert.Equal(t, "ls", Identity{Name: "ls"}.String())
}
