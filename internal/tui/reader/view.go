package reader

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/colonyops/lector/internal/core/selection"
	"github.com/colonyops/lector/internal/core/styles"
)

// View renders the reader in the alternate screen with mouse reporting.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// render draws the mounted chunks only. Nothing outside m.mounted is laid
// out here.
func (m Model) render() string {
	if !m.ready {
		return ""
	}

	rows := make([]string, 0, m.height)
	if m.prog.HeaderVisible {
		rows = append(rows, m.header())
	}
	rows = append(rows, m.body()...)
	rows = append(rows, m.footer())
	out := strings.Join(rows, "\n")

	switch {
	case m.list != nil:
		out = m.list.overlay(out, m.width, m.height)
	case m.showHelp:
		out = centerOver(out, m.helpView(), m.width, m.height)
	case m.final != nil:
		out = m.toolbar(out)
	}
	return out
}

func (m *Model) header() string {
	right := fmt.Sprintf(" %d%% · %s ", m.prog.Percent, pagesLeft(m.prog.PagesLeft))
	barWidth := max(m.width/4, 10)
	room := max(m.width-barWidth-lipgloss.Width(right)-1, 0)
	title := ansi.Truncate(" "+m.doc.Title, room, "…")
	gap := max(m.width-lipgloss.Width(title)-barWidth-lipgloss.Width(right), 0)

	return styles.HeaderTitleStyle.Render(title) +
		styles.HeaderStyle.Render(strings.Repeat(" ", gap)) +
		progressBar(m.prog.Percent, barWidth) +
		styles.HeaderStyle.Render(right)
}

func progressBar(percent, width int) string {
	full := min(max(percent*width/100, 0), width)
	return styles.ProgressFullStyle.Render(strings.Repeat("█", full)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-full))
}

func pagesLeft(n int) string {
	if n == 1 {
		return "1 page left"
	}
	return humanize.Comma(int64(n)) + " pages left"
}

func (m *Model) body() []string {
	vh := m.win.ViewportHeight()
	lines := make([]string, vh)
	if vh == 0 {
		return lines
	}

	pad := strings.Repeat(" ", m.margin())
	if m.snap.Empty() {
		lines[0] = pad + styles.MutedStyle.Render("(empty document)")
		return lines
	}

	top := m.win.ScrollTop()
	for _, it := range m.mounted {
		l := m.layoutFor(it.Index)
		base := m.snap.Chunks[it.Index].GlobalWordIndex
		for r := range l.Height() {
			y := it.Offset + r - top
			if y < 0 || y >= vh {
				continue
			}
			lines[y] = pad + m.renderRow(l, r, base)
		}
	}
	return lines
}

func (m *Model) renderRow(l Layout, row, base int) string {
	if row >= len(l.rows) {
		return ""
	}
	var b strings.Builder
	for _, sp := range l.rows[row] {
		b.WriteString(m.tokenStyle(base+sp.token, isBlank(sp.text)).Render(sp.text))
	}
	return b.String()
}

// tokenStyle picks the style of a token. Cursor wins over the deep link
// highlight, which wins over the selection, search matches and the
// vocabulary underline.
func (m *Model) tokenStyle(token int, blank bool) lipgloss.Style {
	if token == m.cursor && !blank {
		return styles.CursorStyle
	}
	if m.hl.active && token >= m.hl.start && token <= m.hl.end {
		return styles.HighlightStyle
	}
	if anchor, ok := m.sel.Anchor(); ok && anchor == token {
		return styles.AnchorStyle
	}
	if m.sel.Contains(token) {
		return styles.SelectionStyle
	}
	if blank {
		return styles.TextStyle
	}
	if start := m.snap.TokenStart(token); m.search.Covers(start, start+m.snap.TokenLen(token)) {
		return styles.MatchStyle
	}
	if _, ok := m.annot[token]; ok {
		return styles.AnnotationStyle
	}
	return styles.TextStyle
}

func (m *Model) footer() string {
	if m.search.IsActive() {
		return m.search.View()
	}

	parts := []string{styles.FooterModeStyle.Render(m.sel.Mode().String())}
	if st := m.sel.State(); st != selection.Idle {
		parts = append(parts, styles.FooterStyle.Render(st.String()))
	}
	if q := m.search.Query(); q != "" {
		pos, total := m.search.Position()
		parts = append(parts, styles.FooterStyle.Render(fmt.Sprintf("/%s %d/%d", q, max(pos, 0), total)))
	}
	if m.opts.Pending != nil {
		if n := m.opts.Pending(); n > 0 {
			parts = append(parts, styles.FooterStyle.Render(fmt.Sprintf("%d pending", n)))
		}
	}
	if m.status != "" {
		style := styles.StatusStyle
		if m.statusErr {
			style = styles.StatusErrorStyle
		}
		parts = append(parts, style.Render(m.status))
	}

	left := strings.Join(parts, styles.FooterStyle.Render(" · "))
	hint := styles.FooterStyle.Render("? help")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hint)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + hint
}

// toolbar floats the selection actions just below the selection.
func (m *Model) toolbar(background string) string {
	bar := styles.ToolbarStyle.Render("m bookmark · y copy · a add term · esc close")

	x := min(max(m.final.x, 0), max(m.width-lipgloss.Width(bar), 0))
	y := m.final.y + 1
	if y >= m.height-footerRows {
		y = m.final.y - 1
	}
	y = max(y, 0)

	bg := lipgloss.NewLayer(background)
	layer := lipgloss.NewLayer(bar).X(x).Y(y).Z(1)
	return lipgloss.NewCompositor(bg, layer).Render()
}

func (m *Model) helpView() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Keys"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		styles.ModalHelpStyle.Render("any key to close"),
	)
	return styles.ModalStyle.Render(content)
}
