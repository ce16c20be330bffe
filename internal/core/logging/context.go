package logging

import "context"

type contextKey string

const (
	docIDKey contextKey = "doc_id"
	docKey   contextKey = "doc"
)

// WithDocID adds a document ID to the context.
func WithDocID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, docIDKey, id)
}

// WithDocument adds a document title, e.g. "read(2)", to the context.
func WithDocument(ctx context.Context, title string) context.Context {
	return context.WithValue(ctx, docKey, title)
}

// GetDocID retrieves the document ID from the context.
// The second return is false if not present.
func GetDocID(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(docIDKey).(uint64)
	return id, ok
}

// GetDocument retrieves the document title from the context.
// Returns empty string if not present.
func GetDocument(ctx context.Context) string {
	if title, ok := ctx.Value(docKey).(string); ok {
		return title
	}
	return ""
}
