package document

import (
	"sort"
	"strings"
)

// SearchState is the incremental search over a document's cached lines.
type SearchState struct {
	Query   string
	Matches []int // line indices containing Query, ascending
	Current int   // index into Matches; -1 when no match is selected

	origin int // scroll when the search started
}

func newSearchState() SearchState {
	return SearchState{Current: -1}
}

// Active reports whether a query is set.
func (s SearchState) Active() bool {
	return s.Query != ""
}

// CurrentLine returns the line of the selected match.
func (s SearchState) CurrentLine() (int, bool) {
	if s.Current < 0 || s.Current >= len(s.Matches) {
		return 0, false
	}
	return s.Matches[s.Current], true
}

// run replaces the query and scans lines for it. No match is selected until
// next or prev is called.
func (s *SearchState) run(lines []string, query string, origin int) {
	s.Query = query
	s.Matches = findMatches(lines, query)
	s.Current = -1
	s.origin = origin
}

// refresh rescans lines for the current query, keeping the selection when it
// is still in range.
func (s *SearchState) refresh(lines []string) {
	if !s.Active() {
		return
	}
	s.Matches = findMatches(lines, s.Query)
	if s.Current >= len(s.Matches) {
		s.Current = -1
	}
}

func (s *SearchState) reset() {
	*s = newSearchState()
}

// next selects the following match, wrapping around. With nothing selected
// it picks the first match at or below the search origin.
func (s *SearchState) next() (int, bool) {
	n := len(s.Matches)
	if n == 0 {
		s.Current = -1
		return 0, false
	}
	if s.Current < 0 {
		i := sort.SearchInts(s.Matches, s.origin)
		if i == n {
			i = 0
		}
		s.Current = i
	} else {
		s.Current = (s.Current + 1) % n
	}
	return s.Matches[s.Current], true
}

// prev selects the preceding match, wrapping around. With nothing selected
// it picks the last match above the search origin.
func (s *SearchState) prev() (int, bool) {
	n := len(s.Matches)
	if n == 0 {
		s.Current = -1
		return 0, false
	}
	if s.Current < 0 {
		i := sort.SearchInts(s.Matches, s.origin) - 1
		if i < 0 {
			i = n - 1
		}
		s.Current = i
	} else {
		s.Current = (s.Current - 1 + n) % n
	}
	return s.Matches[s.Current], true
}

// findMatches returns the indices of lines containing query, ignoring case.
func findMatches(lines []string, query string) []int {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)

	var matches []int
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), needle) {
			matches = append(matches, i)
		}
	}
	return matches
}
