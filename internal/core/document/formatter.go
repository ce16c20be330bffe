package document

import "context"

// Rendered is the output of one formatter invocation.
type Rendered struct {
	Lines   []string
	Anchors []Anchor
}

// Formatter turns a document identity and a target width into plain text
// lines. Output must be deterministic for a given (identity, width) pair and
// free of control characters; failures are reported with the error kinds in
// this package.
type Formatter interface {
	Render(ctx context.Context, id Identity, width int) (Rendered, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, id Identity, width int) (Rendered, error)

// Render calls f.
func (f FormatterFunc) Render(ctx context.Context, id Identity, width int) (Rendered, error) {
	return f(ctx, id, width)
}

// RenderRequest is a render dispatched for a document at a generation.
type RenderRequest struct {
	DocID      uint64
	Identity   Identity
	Width      int
	Generation uint64
}

// Complete builds the completion for r from a formatter result.
func (r RenderRequest) Complete(rendered Rendered, err error) Completion {
	return Completion{
		DocID:      r.DocID,
		Width:      r.Width,
		Generation: r.Generation,
		Rendered:   rendered,
		Err:        err,
	}
}

// Completion carries a finished render back to the owner of the document.
type Completion struct {
	DocID      uint64
	Width      int
	Generation uint64
	Rendered   Rendered
	Err        error
}
