package components

import (
	"strings"
	"sync"
)

const maxCachedPad = 200

var (
	padOnce  sync.Once
	padCache string
)

// Pad returns a string of n spaces. Widths up to 200 are sliced from a
// shared buffer instead of allocated.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	if n > maxCachedPad {
		return strings.Repeat(" ", n)
	}
	padOnce.Do(func() { padCache = strings.Repeat(" ", maxCachedPad) })
	return padCache[:n]
}
