package document

import (
	"context"
	"errors"
	"fmt"
)

// Render error kinds reported by formatters. Callers match them with errors.Is.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrRenderFailed     = errors.New("render failed")
	ErrRenderTimeout    = errors.New("render timed out")
	// ErrEncoding is always reported together with ErrRenderFailed.
	ErrEncoding = errors.New("invalid encoding")
)

// EncodingError reports formatter output that is not plain UTF-8 text.
func EncodingError(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrRenderFailed, ErrEncoding, fmt.Sprintf(format, args...))
}

// TimeoutError reports a failed render of id as ErrRenderTimeout when ctx's
// deadline has expired; otherwise err is returned unchanged.
func TimeoutError(ctx context.Context, id Identity, err error) error {
	if err == nil || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("render %s: %w: %w", id, ErrRenderTimeout, err)
}
