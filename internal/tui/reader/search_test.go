package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lector/internal/core/chunk"
)

func searchOver(text, query string) SearchMode {
	s := NewSearchMode()
	s.Refresh(chunk.Build(text))
	s.Activate()
	s.input.SetValue(query)
	s.Submit()
	return s
}

func TestSearchMode_FindAll(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  []match
	}{
		{name: "case insensitive", text: "Go go GO", query: "go", want: []match{{0, 2}, {3, 2}, {6, 2}}},
		{name: "rune offsets", text: "café Café", query: "CAFÉ", want: []match{{0, 4}, {5, 4}}},
		{name: "no overlap", text: "aaaa", query: "aa", want: []match{{0, 2}, {2, 2}}},
		{name: "no match", text: "hello", query: "xyz"},
		{name: "empty query", text: "hello", query: ""},
		{name: "needle longer than text", text: "hi", query: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := searchOver(tt.text, tt.query)
			assert.Equal(t, tt.want, s.matches)
		})
	}
}

// The input field strips newlines, so cross-line queries only reach
// findAll from code.
func TestSearchMode_FindAllAcrossLines(t *testing.T) {
	s := NewSearchMode()
	s.Refresh(chunk.Build("end of\nline"))

	assert.Equal(t, []match{{4, 5}}, s.findAll("of\nli"))
}

func TestSearchMode_Navigation(t *testing.T) {
	s := searchOver("one two one two one", "one")
	require.Len(t, s.matches, 3)

	mt, ok := s.From(5)
	require.True(t, ok)
	assert.Equal(t, 8, mt.start)

	mt, _ = s.NextMatch()
	assert.Equal(t, 16, mt.start)
	mt, _ = s.NextMatch()
	assert.Equal(t, 0, mt.start, "wraps to the first match")

	mt, _ = s.PrevMatch()
	assert.Equal(t, 16, mt.start, "wraps to the last match")

	mt, _ = s.From(100)
	assert.Equal(t, 0, mt.start, "past the last match wraps")

	pos, total := s.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 3, total)
}

func TestSearchMode_EmptyNavigation(t *testing.T) {
	s := searchOver("abc", "zzz")

	_, ok := s.NextMatch()
	assert.False(t, ok)
	_, ok = s.PrevMatch()
	assert.False(t, ok)
	_, ok = s.From(0)
	assert.False(t, ok)
}

func TestSearchMode_Covers(t *testing.T) {
	s := searchOver("abc def abc", "abc")

	assert.True(t, s.Covers(0, 3))
	assert.True(t, s.Covers(2, 4))
	assert.False(t, s.Covers(3, 8))
	assert.True(t, s.Covers(8, 11))
	assert.False(t, s.Covers(11, 12))
}

func TestSearchMode_LifeCycle(t *testing.T) {
	s := searchOver("abc abc", "abc")
	s.Close()

	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())
	assert.Equal(t, "abc", s.Query(), "close keeps the matches")
	_, ok := s.NextMatch()
	assert.True(t, ok)

	s.Refresh(chunk.Build("other"))
	_, ok = s.NextMatch()
	assert.False(t, ok, "refresh drops matches")

	s.Deactivate()
	assert.Empty(t, s.Query())
}
