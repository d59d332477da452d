package reader

import (
	"sort"
	"unicode"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/lector/internal/core/chunk"
)

// match is a search hit in character offsets.
type match struct {
	start  int
	length int
}

// SearchMode handles document search. Matches are character offsets into
// the document, so each one can be reached with a deep link.
type SearchMode struct {
	active  bool            // input focused
	input   textinput.Model // search input field
	query   string          // last submitted query
	matches []match         // sorted by start
	current int             // index into matches, -1 before the first jump

	snap     *chunk.Snapshot
	haystack []rune // lower-cased document, built on first search
}

// NewSearchMode creates a new SearchMode instance.
func NewSearchMode() SearchMode {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 100
	ti.Prompt = "/"

	return SearchMode{input: ti, current: -1}
}

// Activate focuses the input for a new query.
func (s *SearchMode) Activate() tea.Cmd {
	s.active = true
	s.input.SetValue("")
	return s.input.Focus()
}

// Deactivate closes the input and forgets the matches.
func (s *SearchMode) Deactivate() {
	s.Close()
	s.query = ""
	s.matches = nil
	s.current = -1
}

// Close hides the input but keeps the matches for n/N.
func (s *SearchMode) Close() {
	s.active = false
	s.input.Blur()
	s.input.SetValue("")
}

// IsActive reports whether the input is focused.
func (s SearchMode) IsActive() bool {
	return s.active
}

// SetWidth bounds the input width.
func (s *SearchMode) SetWidth(w int) {
	s.input.SetWidth(max(w-4, 1))
}

// Refresh points the search at new content. Previous matches are dropped.
func (s *SearchMode) Refresh(snap *chunk.Snapshot) {
	s.snap = snap
	s.haystack = nil
	s.matches = nil
	s.current = -1
}

// Update forwards input events while the input is focused.
func (s SearchMode) Update(msg tea.Msg) (SearchMode, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the search input bar, or "" when closed.
func (s SearchMode) View() string {
	if !s.active {
		return ""
	}
	return s.input.View()
}

// Submit runs the query typed so far and returns the number of matches.
func (s *SearchMode) Submit() int {
	s.query = s.input.Value()
	s.matches = s.findAll(s.query)
	s.current = -1
	return len(s.matches)
}

// Query returns the last submitted query.
func (s SearchMode) Query() string {
	return s.query
}

func (s *SearchMode) findAll(query string) []match {
	if query == "" || s.snap == nil || s.snap.Empty() {
		return nil
	}
	if s.haystack == nil {
		s.haystack = lowerRunes(s.snap.Text())
	}
	needle := lowerRunes(query)

	var out []match
	last := len(s.haystack) - len(needle)
	for i := 0; i <= last; i++ {
		if s.haystack[i] != needle[0] || !hasPrefix(s.haystack[i:], needle) {
			continue
		}
		out = append(out, match{start: i, length: len(needle)})
		i += len(needle) - 1
	}
	return out
}

func lowerRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

func hasPrefix(rs, prefix []rune) bool {
	for i, r := range prefix {
		if rs[i] != r {
			return false
		}
	}
	return true
}

// From selects the first match starting at or after offset, wrapping to the
// first match of the document.
func (s *SearchMode) From(offset int) (match, bool) {
	if len(s.matches) == 0 {
		return match{}, false
	}
	i := sort.Search(len(s.matches), func(i int) bool {
		return s.matches[i].start >= offset
	})
	s.current = i % len(s.matches)
	return s.matches[s.current], true
}

// NextMatch advances to the next match, wrapping at the end.
func (s *SearchMode) NextMatch() (match, bool) {
	if len(s.matches) == 0 {
		return match{}, false
	}
	s.current = (s.current + 1) % len(s.matches)
	return s.matches[s.current], true
}

// PrevMatch goes back to the previous match, wrapping at the start.
func (s *SearchMode) PrevMatch() (match, bool) {
	if len(s.matches) == 0 {
		return match{}, false
	}
	if s.current < 0 {
		s.current = 0
	}
	s.current = (s.current - 1 + len(s.matches)) % len(s.matches)
	return s.matches[s.current], true
}

// Position returns the 1-based index of the current match and the total.
func (s SearchMode) Position() (int, int) {
	return s.current + 1, len(s.matches)
}

// Covers reports whether any match overlaps the characters [start, end).
func (s SearchMode) Covers(start, end int) bool {
	i := sort.Search(len(s.matches), func(i int) bool {
		return s.matches[i].start+s.matches[i].length > start
	})
	return i < len(s.matches) && s.matches[i].start < end
}
