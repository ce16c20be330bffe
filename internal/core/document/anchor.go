package document

// AnchorKind classifies a structural marker in formatted text.
type AnchorKind int

const (
	AnchorHeading AnchorKind = iota
	AnchorParagraphStart
)

// String returns the string representation of the anchor kind.
func (k AnchorKind) String() string {
	switch k {
	case AnchorHeading:
		return "heading"
	case AnchorParagraphStart:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Anchor marks a semantic position in rendered lines. Line indexes the
// rendered lines of the cache the anchor belongs to.
type Anchor struct {
	Kind AnchorKind
	Line int
}
