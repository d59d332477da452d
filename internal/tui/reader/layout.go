package reader

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/colonyops/lector/internal/core/chunk"
)

const tabWidth = 4

// span is the part of one token drawn on one row.
type span struct {
	token int // local token index within the chunk
	col   int
	width int
	text  string
}

type cell struct {
	row, col int
}

// Layout is a chunk wrapped to a column width. Words move to the next row
// when they do not fit; words wider than a row are broken. Whitespace at
// the start of a wrapped row is dropped and trailing newlines draw nothing.
type Layout struct {
	Width int
	rows  [][]span
	start []cell // first cell of each local token
}

// Wrap lays out c at the given width.
func Wrap(c chunk.Chunk, width int) Layout {
	width = max(width, 1)
	l := Layout{
		Width: width,
		rows:  [][]span{nil},
		start: make([]cell, len(c.Tokens)),
	}

	row, col := 0, 0
	newRow := func() {
		l.rows = append(l.rows, nil)
		row++
		col = 0
	}
	put := func(tok int, text string, w int) {
		l.rows[row] = append(l.rows[row], span{token: tok, col: col, width: w, text: text})
		col += w
	}

	for i, tok := range c.Tokens {
		if isBlank(tok) {
			l.start[i] = cell{row, col}
			if col == 0 && row > 0 {
				continue
			}
			n := min(blankWidth(tok, col), width-col)
			if n > 0 {
				put(i, strings.Repeat(" ", n), n)
			}
			continue
		}

		w := runewidth.StringWidth(tok)
		if col > 0 && col+w > width {
			newRow()
		}
		l.start[i] = cell{row, col}

		if col+w <= width {
			put(i, tok, w)
			continue
		}

		var b strings.Builder
		bw := 0
		for _, r := range tok {
			rw := runewidth.RuneWidth(r)
			if bw > 0 && col+bw+rw > width {
				put(i, b.String(), bw)
				newRow()
				b.Reset()
				bw = 0
			}
			b.WriteRune(r)
			bw += rw
		}
		if bw > 0 {
			put(i, b.String(), bw)
		}
	}

	return l
}

// Height returns the number of rows, at least one.
func (l Layout) Height() int {
	return max(len(l.rows), 1)
}

// TokenAt returns the local token drawn at the given cell.
func (l Layout) TokenAt(row, col int) (int, bool) {
	if row < 0 || row >= len(l.rows) {
		return 0, false
	}
	for _, s := range l.rows[row] {
		if col >= s.col && col < s.col+s.width {
			return s.token, true
		}
	}
	return 0, false
}

// Position returns the row and column where a local token starts.
func (l Layout) Position(local int) (row, col int) {
	if local < 0 || local >= len(l.start) {
		return 0, 0
	}
	c := l.start[local]
	return c.row, c.col
}

// FirstTokenFrom returns the first local token starting on or after row, or
// the last token when none does.
func (l Layout) FirstTokenFrom(row int) int {
	for i, c := range l.start {
		if c.row >= row {
			return i
		}
	}
	return max(len(l.start)-1, 0)
}

func isBlank(tok string) bool {
	for _, r := range tok {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// blankWidth is the display width of a whitespace token starting at col.
func blankWidth(tok string, col int) int {
	w := 0
	for _, r := range tok {
		switch r {
		case '\n', '\r', '\v', '\f':
		case '\t':
			w += tabWidth - (col+w)%tabWidth
		default:
			w += max(runewidth.RuneWidth(r), 1)
		}
	}
	return w
}
