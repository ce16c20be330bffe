package document

// Reflow maps a scroll position in old onto next so the same part of the
// document stays in view after re-wrapping.
//
// The last anchor at or above scroll is matched in next by kind and ordinal
// ("the 4th heading"); the offset below it is scaled by the ratio of the
// anchor's span in both caches. Without a matching anchor the position is
// scaled by the ratio of total line counts. The result is clamped to the
// lines of next.
func Reflow(old, next *RenderCache, scroll int) int {
	n := next.LineCount()
	if n == 0 {
		return 0
	}
	if old.LineCount() == 0 {
		return clampLine(scroll, n)
	}
	scroll = clampLine(scroll, old.LineCount())

	if idx, ok := old.anchorAt(scroll); ok {
		a := old.Anchors[idx]
		if j, ok := next.findAnchor(a.Kind, old.ordinal(idx)); ok {
			offset := scroll - a.Line
			oldSpan, newSpan := old.span(idx), next.span(j)
			shift := 0
			if oldSpan > 0 && newSpan > 0 {
				shift = min(roundDiv(offset*newSpan, oldSpan), newSpan-1)
			}
			return clampLine(next.Anchors[j].Line+shift, n)
		}
	}

	return clampLine(roundDiv(scroll*n, old.LineCount()), n)
}

// clampLine limits line to [0, max(0, n-1)].
func clampLine(line, n int) int {
	if n <= 0 || line < 0 {
		return 0
	}
	return min(line, n-1)
}

// roundDiv divides non-negative a by positive b, rounding half up.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
