// Package annotation underlines known vocabulary in a document's token
// stream. It owns no data; terms come from a Source.
package annotation

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/colonyops/lector/internal/core/chunk"
)

// Source supplies the normalized vocabulary.
type Source interface {
	Terms(ctx context.Context) ([]string, error)
	AddTerm(ctx context.Context, term string) error
}

// Normalize folds s to the comparison form shared by terms and tokens:
// NFKC, case folded, surrounding punctuation removed, inner whitespace
// collapsed to single spaces.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)

	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, isTrim)
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

func isTrim(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Span is an inclusive range of global token indexes matching a term.
type Span struct {
	Start int
	End   int
	Term  string
}

// Set is an immutable collection of normalized words and phrases.
type Set struct {
	terms map[string]struct{}
	// phrases indexed by their first word; each entry holds the word list
	phrases map[string][][]string
}

// NewSet normalizes terms and indexes them. Empty terms are ignored.
func NewSet(terms []string) *Set {
	s := &Set{
		terms:   make(map[string]struct{}),
		phrases: make(map[string][][]string),
	}
	for _, t := range terms {
		n := Normalize(t)
		if n == "" {
			continue
		}
		if _, dup := s.terms[n]; dup {
			continue
		}
		s.terms[n] = struct{}{}

		words := strings.Split(n, " ")
		s.phrases[words[0]] = append(s.phrases[words[0]], words)
	}
	return s
}

// Len returns the number of distinct terms.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

// Contains reports whether term, after normalization, is in the set.
func (s *Set) Contains(term string) bool {
	if s == nil {
		return false
	}
	_, ok := s.terms[Normalize(term)]
	return ok
}

// Match returns non-overlapping spans for every occurrence of a term in the
// snapshot, preferring the longest phrase at each position. Phrases match
// across any whitespace, including line breaks.
func (s *Set) Match(snap *chunk.Snapshot) []Span {
	if s.Len() == 0 || snap.Empty() {
		return nil
	}

	type word struct {
		token int
		norm  string
	}
	words := make([]word, 0, snap.Len()/2+1)
	for i, tok := range snap.Tokens {
		if snap.IsSpace(i) {
			continue
		}
		if n := Normalize(tok); n != "" {
			words = append(words, word{token: i, norm: n})
		}
	}

	var spans []Span
	for i := 0; i < len(words); {
		best := 0
		for _, phrase := range s.phrases[words[i].norm] {
			if len(phrase) <= best || i+len(phrase) > len(words) {
				continue
			}
			match := true
			for j := 1; j < len(phrase); j++ {
				if words[i+j].norm != phrase[j] {
					match = false
					break
				}
			}
			if match {
				best = len(phrase)
			}
		}

		if best == 0 {
			i++
			continue
		}

		last := words[i+best-1]
		parts := make([]string, best)
		for j := range best {
			parts[j] = words[i+j].norm
		}
		spans = append(spans, Span{
			Start: words[i].token,
			End:   last.token,
			Term:  strings.Join(parts, " "),
		})
		i += best
	}
	return spans
}

// Index maps every token covered by a span to that span's position in spans.
func Index(spans []Span) map[int]int {
	idx := make(map[int]int)
	for i, sp := range spans {
		for tok := sp.Start; tok <= sp.End; tok++ {
			idx[tok] = i
		}
	}
	return idx
}
