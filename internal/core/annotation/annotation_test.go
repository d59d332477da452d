package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lector/internal/core/chunk"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Hello", want: "hello"},
		{in: "  Word,  ", want: "word"},
		{in: "\"Quoted!\"", want: "quoted"},
		{in: "ﬁne", want: "fine"},
		{in: "kick  the\nBucket.", want: "kick the bucket"},
		{in: "don't", want: "don't"},
		{in: "...", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSet_Contains(t *testing.T) {
	s := NewSet([]string{"Ephemeral", "kick the bucket", "", "ephemeral"})

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("EPHEMERAL."))
	assert.True(t, s.Contains("Kick the  bucket"))
	assert.False(t, s.Contains("bucket"))

	var empty *Set
	assert.False(t, empty.Contains("x"))
	assert.Equal(t, 0, empty.Len())
}

func TestSet_MatchWords(t *testing.T) {
	snap := chunk.Build("An ephemeral thing.\nEphemeral, indeed.")
	// tokens: An _ ephemeral _ thing. \n Ephemeral, _ indeed.
	s := NewSet([]string{"ephemeral"})

	spans := s.Match(snap)

	require.Len(t, spans, 2)
	assert.Equal(t, Span{Start: 2, End: 2, Term: "ephemeral"}, spans[0])
	assert.Equal(t, Span{Start: 6, End: 6, Term: "ephemeral"}, spans[1])
}

func TestSet_MatchPhraseAcrossLines(t *testing.T) {
	snap := chunk.Build("He will kick the\nbucket soon.")
	// tokens: He _ will _ kick _ the \n bucket _ soon.
	s := NewSet([]string{"kick the bucket", "kick"})

	spans := s.Match(snap)

	require.Len(t, spans, 1)
	assert.Equal(t, 4, spans[0].Start)
	assert.Equal(t, 8, spans[0].End)
	assert.Equal(t, "kick the bucket", spans[0].Term)
}

func TestSet_MatchFallsBackToShorterTerm(t *testing.T) {
	snap := chunk.Build("kick the ball")
	s := NewSet([]string{"kick the bucket", "kick"})

	spans := s.Match(snap)

	require.Len(t, spans, 1)
	assert.Equal(t, Span{Start: 0, End: 0, Term: "kick"}, spans[0])
}

func TestSet_MatchEmpty(t *testing.T) {
	assert.Nil(t, NewSet(nil).Match(chunk.Build("anything")))
	assert.Nil(t, NewSet([]string{"x"}).Match(chunk.Build("")))
}

func TestIndex(t *testing.T) {
	idx := Index([]Span{{Start: 2, End: 4}, {Start: 8, End: 8}})

	assert.Equal(t, map[int]int{2: 0, 3: 0, 4: 0, 8: 1}, idx)
}
