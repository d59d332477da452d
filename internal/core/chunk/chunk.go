// Package chunk splits document text into stable render units ("chunks")
// and a flat, document-wide token sequence.
//
// A token is a maximal run of non-whitespace characters or a run of
// whitespace. Whitespace runs are additionally terminated right after every
// newline, so each line break closes a chunk and an empty line becomes a
// chunk of its own. Concatenating all tokens (or all chunk texts) in order
// reproduces the input exactly.
//
// Character indexes in this package are Unicode code point offsets into the
// document, not byte offsets.
package chunk

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunk is a contiguous run of tokens ending at a newline-bearing token or at
// the end of the document.
type Chunk struct {
	ID               string
	Text             string   // exact concatenation of Tokens
	GlobalStartIndex int      // character index of the first character
	GlobalWordIndex  int      // index of the first token in the global sequence
	Length           int      // length of Text in characters
	Tokens           []string // shares backing storage with Snapshot.Tokens
}

// End returns the character index one past the last character of the chunk.
func (c Chunk) End() int {
	return c.GlobalStartIndex + c.Length
}

// Contains reports whether the character index falls inside the chunk.
func (c Chunk) Contains(charIndex int) bool {
	return charIndex >= c.GlobalStartIndex && charIndex < c.End()
}

// Snapshot is the immutable index built from one version of a document. It is
// rebuilt wholesale when the content changes and never mutated afterwards.
type Snapshot struct {
	Chunks []Chunk
	Tokens []string

	starts []int // starts[i] is the character index of token i; len(Tokens)+1 entries
	owners []int // owners[i] is the chunk index holding token i
}

// Tokenize splits text into whitespace and non-whitespace runs. A whitespace
// run ends immediately after a newline. No empty tokens are produced.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	start := 0
	inSpace := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if i > start && space != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
		}
		inSpace = space

		if r == '\n' {
			tokens = append(tokens, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

// Build tokenizes text and groups the tokens into chunks.
// Empty input yields an empty snapshot.
func Build(text string) *Snapshot {
	tokens := Tokenize(text)
	snap := &Snapshot{
		Tokens: tokens,
		starts: make([]int, len(tokens)+1),
		owners: make([]int, len(tokens)),
	}

	pos := 0
	pendingFrom := 0
	pendingStart := 0
	for i, tok := range tokens {
		snap.starts[i] = pos
		snap.owners[i] = len(snap.Chunks)
		pos += utf8.RuneCountInString(tok)

		if strings.IndexByte(tok, '\n') >= 0 {
			snap.appendChunk(pendingFrom, i+1, pendingStart, pos)
			pendingFrom = i + 1
			pendingStart = pos
		}
	}
	snap.starts[len(tokens)] = pos

	if pendingFrom < len(tokens) {
		snap.appendChunk(pendingFrom, len(tokens), pendingStart, pos)
	}

	return snap
}

func (s *Snapshot) appendChunk(from, to, start, end int) {
	toks := s.Tokens[from:to:to]
	s.Chunks = append(s.Chunks, Chunk{
		ID:               "c" + strconv.Itoa(len(s.Chunks)),
		Text:             strings.Join(toks, ""),
		GlobalStartIndex: start,
		GlobalWordIndex:  from,
		Length:           end - start,
		Tokens:           toks,
	})
}

// Empty reports whether the snapshot holds no tokens. A nil snapshot is empty.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Tokens) == 0
}

// Len returns the number of tokens in the global sequence.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tokens)
}

// RuneLen returns the document length in characters.
func (s *Snapshot) RuneLen() int {
	if s.Empty() {
		return 0
	}
	return s.starts[len(s.Tokens)]
}

// TokenStart returns the character index where the token begins.
// Returns -1 for an out-of-range token.
func (s *Snapshot) TokenStart(token int) int {
	if token < 0 || token >= s.Len() {
		return -1
	}
	return s.starts[token]
}

// TokenLen returns the token length in characters, or 0 when out of range.
func (s *Snapshot) TokenLen(token int) int {
	if token < 0 || token >= s.Len() {
		return 0
	}
	return s.starts[token+1] - s.starts[token]
}

// ChunkOfToken returns the index of the chunk holding the token, or -1.
func (s *Snapshot) ChunkOfToken(token int) int {
	if token < 0 || token >= s.Len() {
		return -1
	}
	return s.owners[token]
}

// IsSpace reports whether the token is a whitespace run.
func (s *Snapshot) IsSpace(token int) bool {
	if token < 0 || token >= s.Len() {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s.Tokens[token])
	return unicode.IsSpace(r)
}

// Join concatenates tokens [start, end] inclusive. Bounds are clamped.
func (s *Snapshot) Join(start, end int) string {
	if s.Empty() {
		return ""
	}
	start = max(start, 0)
	end = min(end, len(s.Tokens)-1)
	if start > end {
		return ""
	}
	return strings.Join(s.Tokens[start:end+1], "")
}

// Text reassembles the full document.
func (s *Snapshot) Text() string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	for _, c := range s.Chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}
