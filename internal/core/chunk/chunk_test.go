package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTexts = []string{
	"",
	"single",
	"Hello world.\nSecond line here.",
	"A\n\nB",
	"\n",
	"\n\n\n",
	"trailing newline\n",
	"  leading spaces\n\tand a tab",
	"windows\r\nline\r\nendings",
	"mixed \n  indentation\n\n\n  poem line\n",
	"ünïcödé wörds\nand 日本語 text\n",
	"no newline at all just words and   spaces",
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single word", in: "word", want: []string{"word"}},
		{name: "words and spaces", in: "The quick fox", want: []string{"The", " ", "quick", " ", "fox"}},
		{name: "blank line splits newlines", in: "A\n\nB", want: []string{"A", "\n", "\n", "B"}},
		{name: "spaces before newline stay with it", in: "a \n b", want: []string{"a", " \n", " ", "b"}},
		{name: "crlf", in: "x\r\ny", want: []string{"x", "\r\n", "y"}},
		{name: "leading whitespace", in: "  x", want: []string{"  ", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestBuild_ScenarioTwoLines(t *testing.T) {
	snap := Build("Hello world.\nSecond line here.")

	require.Len(t, snap.Chunks, 2)
	assert.Equal(t, "Hello world.\n", snap.Chunks[0].Text)
	assert.Equal(t, 13, snap.Chunks[1].GlobalStartIndex)
	assert.Equal(t, "Second line here.", snap.Chunks[1].Text)
	assert.Equal(t, len(snap.Chunks[0].Tokens), snap.Chunks[1].GlobalWordIndex)
}

func TestBuild_ScenarioEmpty(t *testing.T) {
	snap := Build("")

	assert.Empty(t, snap.Chunks)
	assert.Empty(t, snap.Tokens)
	assert.True(t, snap.Empty())
	assert.Equal(t, 0, snap.RuneLen())
	assert.Equal(t, -1, snap.TokenStart(0))
	assert.Equal(t, "", snap.Join(0, 3))
}

func TestBuild_ScenarioBlankLine(t *testing.T) {
	snap := Build("A\n\nB")

	require.Len(t, snap.Chunks, 3)
	assert.Equal(t, "A\n", snap.Chunks[0].Text)
	assert.Equal(t, []string{"\n"}, snap.Chunks[1].Tokens)
	assert.Equal(t, "B", snap.Chunks[2].Text)
}

func TestBuild_NoNewlineIsSingleChunk(t *testing.T) {
	snap := Build("no newline at all")

	require.Len(t, snap.Chunks, 1)
	assert.Equal(t, "no newline at all", snap.Chunks[0].Text)
	assert.Equal(t, "c0", snap.Chunks[0].ID)
}

func TestBuild_RoundTrip(t *testing.T) {
	for _, text := range sampleTexts {
		snap := Build(text)
		assert.Equal(t, text, snap.Text(), "chunks must reassemble %q", text)
		assert.Equal(t, text, strings.Join(snap.Tokens, ""), "tokens must reassemble %q", text)
	}
}

func TestBuild_IndexContinuity(t *testing.T) {
	for _, text := range sampleTexts {
		snap := Build(text)
		for i := 1; i < len(snap.Chunks); i++ {
			prev, cur := snap.Chunks[i-1], snap.Chunks[i]
			assert.Equal(t, prev.GlobalStartIndex+prev.Length, cur.GlobalStartIndex, "start index of chunk %d in %q", i, text)
			assert.Equal(t, prev.GlobalWordIndex+len(prev.Tokens), cur.GlobalWordIndex, "word index of chunk %d in %q", i, text)
		}
	}
}

func TestBuild_BoundariesOnlyAtNewlines(t *testing.T) {
	for _, text := range sampleTexts {
		snap := Build(text)
		for i, c := range snap.Chunks {
			last := c.Tokens[len(c.Tokens)-1]
			if i < len(snap.Chunks)-1 {
				assert.Contains(t, last, "\n", "chunk %d of %q must end at a newline token", i, text)
			}
			for _, tok := range c.Tokens[:len(c.Tokens)-1] {
				assert.NotContains(t, tok, "\n", "newline token inside chunk %d of %q", i, text)
			}
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	for _, text := range sampleTexts {
		assert.Equal(t, Build(text), Build(text))
	}
}

func TestSnapshot_RuneOffsets(t *testing.T) {
	snap := Build("ünï x\n日本 y")

	require.Len(t, snap.Chunks, 2)
	assert.Equal(t, 6, snap.Chunks[0].Length)
	assert.Equal(t, 6, snap.Chunks[1].GlobalStartIndex)
	assert.Equal(t, 10, snap.RuneLen())

	// tokens: "ünï" " " "x" "\n" "日本" " " "y"
	assert.Equal(t, 4, snap.TokenStart(2))
	assert.Equal(t, 6, snap.TokenStart(4))
	assert.Equal(t, 2, snap.TokenLen(4))
	assert.Equal(t, 1, snap.ChunkOfToken(4))
	assert.True(t, snap.IsSpace(1))
	assert.False(t, snap.IsSpace(0))
}

func TestSnapshot_Join(t *testing.T) {
	snap := Build("The quick brown fox")

	assert.Equal(t, "quick brown", snap.Join(2, 4))
	assert.Equal(t, "The quick brown fox", snap.Join(-5, 100))
	assert.Equal(t, "", snap.Join(4, 2))
}

func TestSnapshot_NilIsEmpty(t *testing.T) {
	var snap *Snapshot

	assert.True(t, snap.Empty())
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, -1, snap.ChunkOfToken(0))
	assert.Equal(t, "", snap.Text())
}
