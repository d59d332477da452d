package reader

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/lector/internal/core/address"
	"github.com/colonyops/lector/internal/core/window"
)

// deepLink scrolls to charIndex and highlights length characters from it.
// The macro scroll centers the owning chunk; the seek then waits for the
// target token to be mounted before the exact row is known.
func (m *Model) deepLink(charIndex, length int) tea.Cmd {
	loc, ok := address.Resolve(m.snap, charIndex)
	if !ok {
		m.log.Debug().Int("char", charIndex).Int("len", m.snap.RuneLen()).Msg("deep link out of range")
		return nil
	}

	before := m.win.ScrollTop()
	m.win.ScrollToIndex(loc.ChunkIndex, window.AlignCenter)
	m.mount()

	m.seekID++
	m.seek = address.NewSeek(m.seekID, m.documentKey(), loc, m.policy)
	m.seekEnd = min(charIndex+max(length, 1)-1, m.snap.RuneLen()-1)

	cmds := []tea.Cmd{send(seekTickMsg{id: m.seekID})}
	if m.win.ScrollTop() != before {
		cmds = append(cmds, m.scrolled())
	}
	return tea.Batch(cmds...)
}

// stepSeek runs one attempt of the active seek. Ticks for superseded seeks
// are ignored.
func (m *Model) stepSeek(id int) tea.Cmd {
	s := m.seek
	if s == nil || s.ID != id {
		return nil
	}

	out := s.Next(m.documentKey(), m.isMounted)
	switch out {
	case address.SeekFound:
		m.seek = nil
		return m.revealTarget(s)
	case address.SeekRetry:
		return tick(s.Policy.Delay, seekTickMsg{id: id})
	case address.SeekExhausted:
		m.seek = nil
		m.log.Warn().
			Int("char", s.Target.TokenStart).
			Int("attempts", s.Attempts()).
			Msg("deep link target never mounted")
	default:
		m.seek = nil
		m.log.Debug().Str("outcome", out.String()).Int("char", s.Target.TokenStart).Msg("deep link seek ended")
	}
	return nil
}

// revealTarget centers the target row and highlights it for a while.
func (m *Model) revealTarget(s *address.Seek) tea.Cmd {
	start := s.Target.TokenIndex
	end := start
	if loc, ok := address.Resolve(m.snap, m.seekEnd); ok && loc.TokenIndex > end {
		end = loc.TokenIndex
	}

	before := m.win.ScrollTop()
	m.win.CenterOn(m.tokenRow(start))
	m.mount()

	seq := m.hl.seq + 1
	m.hl = highlight{start: start, end: end, seq: seq, active: true}
	m.cursor = start

	cmds := []tea.Cmd{tick(s.Policy.HighlightTTL, highlightClearMsg{seq: seq})}
	if m.win.ScrollTop() != before {
		cmds = append(cmds, m.scrolled())
	}
	return tea.Batch(cmds...)
}

func (m *Model) jumpToMatch(mt match, ok bool) tea.Cmd {
	if !ok {
		if m.search.Query() == "" {
			return nil
		}
		return m.setStatus(fmt.Sprintf("no matches for %q", m.search.Query()), true)
	}
	pos, total := m.search.Position()
	return tea.Batch(
		m.deepLink(mt.start, mt.length),
		m.setStatus(fmt.Sprintf("match %d/%d", pos, total), false),
	)
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		n := m.search.Submit()
		m.search.Close()
		if n == 0 {
			return m.jumpToMatch(match{}, false)
		}
		return m.jumpToMatch(m.search.From(m.charIndexAt(m.win.ScrollTop())))
	case "esc":
		m.search.Deactivate()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}
