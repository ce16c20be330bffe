// Package document holds the per-tab document state: identity, the
// width-keyed render cache, the reflow algorithm that keeps the reader's
// place across re-wrapping, and the incremental search over cached lines.
package document

import "strings"

// Identity names a document. Two tabs may share an identity; each keeps its
// own scroll and search state.
type Identity struct {
	Name    string
	Section string // empty when no section was requested
}

// String renders the identity as name(section) or name.
func (id Identity) String() string {
	if id.Section == "" {
		return id.Name
	}
	return id.Name + "(" + id.Section + ")"
}

// ParseIdentity accepts "name" or "name(section)".
func ParseIdentity(s string) Identity {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ")") {
		if open := strings.LastIndex(s, "("); open > 0 {
			section := s[open+1 : len(s)-1]
			if section != "" && !strings.ContainsAny(section, "() ") {
				return Identity{Name: s[:open], Section: section}
			}
		}
	}
	return Identity{Name: s}
}
