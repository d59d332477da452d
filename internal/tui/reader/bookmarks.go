package reader

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/core/styles"
)

const (
	listMaxRows  = 12
	listMinWidth = 30
)

// bookmarkList is the bookmark overlay. Entries are sorted by position.
type bookmarkList struct {
	items   []document.Bookmark
	cursor  int
	runeLen int
}

func newBookmarkList(items []document.Bookmark, runeLen int) *bookmarkList {
	return &bookmarkList{items: items, runeLen: runeLen}
}

func (l *bookmarkList) move(delta int) {
	if len(l.items) == 0 {
		return
	}
	l.cursor = min(max(l.cursor+delta, 0), len(l.items)-1)
}

func (l *bookmarkList) selected() (document.Bookmark, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return document.Bookmark{}, false
	}
	return l.items[l.cursor], true
}

func (l *bookmarkList) remove(id string) {
	for i, b := range l.items {
		if b.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	l.cursor = min(l.cursor, max(len(l.items)-1, 0))
}

func (m *Model) handleListKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.list.move(1)
	case "k", "up":
		m.list.move(-1)
	case "enter":
		b, ok := m.list.selected()
		m.list = nil
		if !ok {
			return nil
		}
		return m.deepLink(b.StartIndex, 1)
	case "d", "x":
		b, ok := m.list.selected()
		if !ok || m.opts.Bookmarks == nil {
			return nil
		}
		store := m.opts.Bookmarks
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			return bookmarkDeletedMsg{id: b.ID, err: store.DeleteBookmark(ctx, b.ID)}
		}
	case "esc", "q", "B":
		m.list = nil
	}
	return nil
}

// view renders the list body, scrolled so the cursor stays visible.
func (l *bookmarkList) view(width int) string {
	if len(l.items) == 0 {
		return styles.MutedStyle.Render("no bookmarks yet, press m while reading")
	}

	first := max(l.cursor-listMaxRows+1, 0)
	last := min(first+listMaxRows, len(l.items))

	rows := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		b := l.items[i]
		pct := 0
		if l.runeLen > 0 {
			pct = b.StartIndex * 100 / l.runeLen
		}
		meta := fmt.Sprintf("%3d%%  %s", pct, humanize.Time(b.CreatedAt))
		room := max(width-lipgloss.Width(meta)-4, 8)
		line := fmt.Sprintf("%s  %s", meta, truncate.StringWithTail(b.TextPreview, uint(room), "…"))

		style, marker := styles.ListNormalStyle, "  "
		if i == l.cursor {
			style, marker = styles.ListSelectedStyle, "> "
		}
		rows = append(rows, style.Render(marker+line))
	}
	return strings.Join(rows, "\n")
}

// overlay centers the bookmark list over the reader.
func (l *bookmarkList) overlay(background string, width, height int) string {
	modalWidth := min(max(width*2/3, listMinWidth), max(width-4, 1))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(fmt.Sprintf("Bookmarks (%d)", len(l.items))),
		"",
		l.view(modalWidth-6),
		"",
		styles.ModalHelpStyle.Render("enter jump • d delete • esc close"),
	)
	modal := styles.ModalStyle.Width(modalWidth).Render(content)

	return centerOver(background, modal, width, height)
}

func centerOver(background, modal string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	x := max((width-lipgloss.Width(modal))/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)
	modalLayer.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
