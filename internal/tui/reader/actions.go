package reader

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/muesli/reflow/truncate"

	"github.com/colonyops/lector/internal/core/address"
	"github.com/colonyops/lector/internal/core/annotation"
	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/core/selection"
)

const (
	storeTimeout  = 5 * time.Second
	previewTokens = 24
	previewWidth  = 60
)

// margin is the left padding that centers the text column.
func (m *Model) margin() int {
	return max((m.width-m.wrap)/2, 0)
}

// clickAt maps a screen cell to the token drawn there.
func (m *Model) clickAt(x, y int) tea.Cmd {
	row := y - m.headerRows()
	if row < 0 || row >= m.win.ViewportHeight() {
		return nil
	}
	abs := m.win.ScrollTop() + row
	col := x - m.margin()
	for _, it := range m.mounted {
		if abs < it.Offset || abs >= it.Offset+it.Height {
			continue
		}
		local, ok := m.layoutFor(it.Index).TokenAt(abs-it.Offset, col)
		if !ok {
			return nil
		}
		return m.click(m.snap.Chunks[it.Index].GlobalWordIndex + local)
	}
	return nil
}

// click feeds a token to the selection machine. Whitespace is not
// selectable. A finalized selection opens the toolbar and is announced with
// a SelectionMsg.
func (m *Model) click(token int) tea.Cmd {
	if token < 0 || token >= m.snap.Len() || m.snap.IsSpace(token) {
		return nil
	}
	m.cursor = token
	m.final = nil

	r, done := m.sel.Click(token)
	if !done {
		return nil
	}
	sel, ok := selection.Finalize(m.snap, r)
	if !ok {
		m.sel.Clear()
		return nil
	}

	x, y := m.screenPos(r.Start)
	m.final = &finalized{sel: sel, x: x, y: y}
	return send(SelectionMsg{Text: sel.Text, Offset: sel.Offset, X: x, Y: y})
}

// screenPos returns the cell where a mounted token is drawn.
func (m *Model) screenPos(token int) (int, int) {
	ci := m.snap.ChunkOfToken(token)
	row, col := m.layoutFor(ci).Position(token - m.snap.Chunks[ci].GlobalWordIndex)
	y := m.win.Offset(ci) + row - m.win.ScrollTop() + m.headerRows()
	return m.margin() + col, y
}

// moveCursor steps the keyboard cursor to the neighboring word and scrolls
// it into view.
func (m *Model) moveCursor(dir int) tea.Cmd {
	if !m.ready || m.snap.Empty() {
		return nil
	}

	tok := m.cursor
	if tok < 0 {
		loc, ok := address.Resolve(m.snap, m.charIndexAt(m.win.ScrollTop()))
		if !ok {
			return nil
		}
		tok, dir = loc.TokenIndex, 1
	} else {
		tok += dir
	}
	for tok >= 0 && tok < m.snap.Len() && m.snap.IsSpace(tok) {
		tok += dir
	}
	if tok < 0 || tok >= m.snap.Len() {
		return nil
	}

	m.cursor = tok
	before := m.win.ScrollTop()
	m.win.Reveal(m.tokenRow(tok))
	m.mount()
	if m.win.ScrollTop() != before {
		return m.scrolled()
	}
	return nil
}

// bookmark saves the finalized selection, or the first visible character
// when nothing is selected.
func (m *Model) bookmark() tea.Cmd {
	if m.opts.Writer == nil || !m.ready || m.snap.Empty() {
		return nil
	}

	offset := m.charIndexAt(m.win.ScrollTop())
	text := ""
	if m.final != nil {
		offset, text = m.final.sel.Offset, m.final.sel.Text
	} else if loc, ok := address.Resolve(m.snap, offset); ok {
		text = m.snap.Join(loc.TokenIndex, loc.TokenIndex+previewTokens)
	}

	b := &document.Bookmark{
		ID:          uuid.NewString(),
		DocumentID:  m.doc.ID,
		StartIndex:  offset,
		TextPreview: preview(text),
		CreatedAt:   m.opts.Now(),
	}
	if err := m.opts.Writer.SaveBookmark(context.Background(), b); err != nil {
		m.log.Warn().Err(err).Msg("queue bookmark")
		return m.setStatus("bookmark: "+err.Error(), true)
	}

	m.sel.Clear()
	m.final = nil
	return m.setStatus(fmt.Sprintf("bookmarked %q", b.TextPreview), false)
}

// preview collapses whitespace and truncates to a single short line.
func preview(text string) string {
	return truncate.StringWithTail(strings.Join(strings.Fields(text), " "), previewWidth, "…")
}

func (m *Model) copySelection() tea.Cmd {
	if m.final == nil {
		return m.setStatus("nothing selected", true)
	}
	text, write := m.final.sel.Text, m.opts.Clipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return statusMsg{text: "copy: " + err.Error(), err: true}
		}
		return statusMsg{text: fmt.Sprintf("copied %d characters", utf8.RuneCountInString(text))}
	}
}

func (m *Model) addTerm() tea.Cmd {
	if m.final == nil {
		return m.setStatus("nothing selected", true)
	}
	if m.opts.Vocabulary == nil || !m.opts.Config.AnnotationsEnabled() {
		return m.setStatus("vocabulary is disabled", true)
	}
	term, src := m.final.sel.Text, m.opts.Vocabulary
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return termAddedMsg{term: term, err: src.AddTerm(ctx, term)}
	}
}

// loadAnnotations matches the vocabulary against the current snapshot off
// the UI goroutine. Results for an older generation are dropped.
func (m *Model) loadAnnotations() tea.Cmd {
	if m.opts.Vocabulary == nil || !m.opts.Config.AnnotationsEnabled() || m.snap.Empty() {
		return nil
	}
	src, snap, gen := m.opts.Vocabulary, m.snap, m.generation
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		terms, err := src.Terms(ctx)
		if err != nil {
			return annotationsMsg{generation: gen, err: err}
		}
		return annotationsMsg{generation: gen, spans: annotation.NewSet(terms).Match(snap)}
	}
}

func (m *Model) openBookmarks() tea.Cmd {
	if m.opts.Bookmarks == nil {
		return m.setStatus("bookmarks unavailable", true)
	}
	store, id := m.opts.Bookmarks, m.doc.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		items, err := store.ListBookmarks(ctx, id)
		return bookmarksMsg{items: items, err: err}
	}
}
