package reader

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/lector/internal/core/address"
	"github.com/colonyops/lector/internal/core/chunk"
	"github.com/colonyops/lector/internal/core/progress"
	"github.com/colonyops/lector/internal/core/window"
)

const (
	// maxMountPasses bounds the measure/re-window loop. Each pass can only
	// replace estimates with real heights, so it settles quickly.
	maxMountPasses = 8
	footerRows     = 1
	wrapStep       = 4
)

func (m *Model) layoutFor(index int) Layout {
	if l, ok := m.layouts.Get(index); ok {
		return l
	}
	l := Wrap(m.snap.Chunks[index], m.wrap)
	m.layouts.Set(index, l)
	return l
}

// mount lays out and measures every chunk in the window, then records the
// mounted set. Measuring can shift the window, so it repeats until the set
// is stable.
func (m *Model) mount() {
	if m.snap.Empty() || m.wrap <= 0 {
		m.mounted = nil
		return
	}
	for range maxMountPasses {
		changed := false
		for _, it := range m.win.Visible() {
			if m.win.Measured(it.Index) {
				continue
			}
			if m.win.Measure(it.Index, m.layoutFor(it.Index).Height()) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	m.mounted = m.win.Visible()
}

func (m *Model) isMounted(token int) bool {
	if token < 0 || token >= len(m.snap.Tokens) {
		return false
	}
	ci := m.snap.ChunkOfToken(token)
	for _, it := range m.mounted {
		if it.Index == ci {
			return true
		}
	}
	return false
}

func (m *Model) headerRows() int {
	if m.prog.HeaderVisible {
		return 1
	}
	return 0
}

func (m *Model) viewportRows() int {
	return max(m.height-m.headerRows()-footerRows, 1)
}

// event reads the scroll state once for every consumer of a scroll.
func (m *Model) event() progress.Event {
	return progress.Event{
		ScrollTop:    m.win.ScrollTop(),
		ScrollHeight: m.win.TotalHeight(),
		ClientHeight: m.win.ViewportHeight(),
	}
}

func (m *Model) scrollBy(delta int) tea.Cmd {
	return m.scrollTo(m.win.ScrollTop() + delta)
}

// scrollTo is the single entry point for user scrolling.
func (m *Model) scrollTo(y int) tea.Cmd {
	if !m.ready || m.snap.Empty() {
		return nil
	}
	before := m.win.ScrollTop()
	m.win.SetScrollTop(y)
	m.mount()
	if m.win.ScrollTop() == before {
		// Clamped at an edge: still a scroll as far as the toolbar cares.
		m.clearSelection()
		return nil
	}
	return m.scrolled()
}

// scrollToBottom repeats because the chunks near the end only report their
// real height once mounted.
func (m *Model) scrollToBottom() tea.Cmd {
	if !m.ready || m.snap.Empty() {
		return nil
	}
	before := m.win.ScrollTop()
	for range maxMountPasses {
		m.win.SetScrollTop(m.win.MaxScrollTop())
		m.mount()
		if m.win.ScrollTop() == m.win.MaxScrollTop() {
			break
		}
	}
	if m.win.ScrollTop() == before {
		m.clearSelection()
		return nil
	}
	return m.scrolled()
}

func (m *Model) clearSelection() {
	m.sel.Clear()
	m.final = nil
}

// scrolled handles a completed scroll: the selection and its toolbar are
// dropped and the tracker sees the same event the window used.
func (m *Model) scrolled() tea.Cmd {
	ev := m.event()
	m.clearSelection()

	p, ok := m.tracker.Observe(m.opts.Now(), ev)
	if !ok {
		if m.flushArmed {
			return nil
		}
		m.flushArmed = true
		return tick(m.cfg.Throttle, throttleFlushMsg{})
	}
	return m.applyProgress(p)
}

func (m *Model) applyProgress(p progress.Progress) tea.Cmd {
	m.syncProgress(p)
	return m.scheduleSave()
}

// syncProgress stores p and resizes the viewport when the header toggles.
func (m *Model) syncProgress(p progress.Progress) {
	toggled := p.HeaderVisible != m.prog.HeaderVisible
	m.prog = p
	if toggled && m.ready {
		m.win.SetViewport(m.viewportRows())
		m.mount()
	}
}

func (m *Model) scheduleSave() tea.Cmd {
	if m.snap.Empty() || m.opts.Writer == nil {
		return nil
	}
	top := m.win.ScrollTop()
	seq := m.saver.Schedule(progress.Save{
		ScrollTop: top,
		Percent:   m.prog.Percent,
		CharIndex: m.charIndexAt(top),
		Timestamp: m.opts.Now(),
	})
	return tick(m.cfg.SaveDelay, saveTickMsg{seq: seq})
}

// charIndexAt returns the first character drawn on or after absolute row y.
func (m *Model) charIndexAt(y int) int {
	if m.snap.Empty() || m.wrap <= 0 {
		return 0
	}
	i := m.win.IndexAt(y)
	local := m.layoutFor(i).FirstTokenFrom(y - m.win.Offset(i))
	return m.snap.TokenStart(m.snap.Chunks[i].GlobalWordIndex + local)
}

// tokenRow returns the absolute row a global token starts on.
func (m *Model) tokenRow(token int) int {
	ci := m.snap.ChunkOfToken(token)
	row, _ := m.layoutFor(ci).Position(token - m.snap.Chunks[ci].GlobalWordIndex)
	return m.win.Offset(ci) + row
}

// anchorTo puts the row holding charIndex at the top of the viewport. Used
// to keep the reading position across relayouts, where no highlight or
// retry is wanted.
func (m *Model) anchorTo(charIndex int) {
	loc, ok := address.Resolve(m.snap, charIndex)
	if !ok {
		return
	}
	m.win.ScrollToIndex(loc.ChunkIndex, window.AlignStart)
	m.mount()
	for range maxMountPasses {
		row := m.tokenRow(loc.TokenIndex)
		m.win.SetScrollTop(row)
		m.mount()
		if m.tokenRow(loc.TokenIndex) == row {
			break
		}
	}
}

func (m *Model) resize(width, height int) tea.Cmd {
	first := !m.ready
	widthChanged := width != m.width
	m.width, m.height = width, height
	m.ready = true
	m.help.SetWidth(width)
	m.search.SetWidth(width)

	if first {
		m.wrap = m.effectiveWrap()
		m.win.SetViewport(m.viewportRows())
		if r := m.opts.Resume; r != nil && m.jump < 0 && r.ScrollTop > 0 {
			m.win.SettleTo(r.ScrollTop, func(i int) int { return m.layoutFor(i).Height() })
		}
		m.mount()

		var cmd tea.Cmd
		if m.jump >= 0 {
			if m.jumpIsLink {
				cmd = m.deepLink(m.jump, 1)
			} else {
				m.anchorTo(m.jump)
			}
			m.jump = -1
		}
		m.syncProgress(m.tracker.Force(m.opts.Now(), m.event()))
		return cmd
	}

	m.win.SetViewport(m.viewportRows())
	if widthChanged {
		if wrap := m.effectiveWrap(); wrap != m.wrap {
			return m.relayout(wrap)
		}
	}
	m.mount()
	m.syncProgress(m.tracker.Force(m.opts.Now(), m.event()))
	return nil
}

// effectiveWrap is the configured or adjusted wrap width, never wider than
// the terminal allows.
func (m *Model) effectiveWrap() int {
	wrap := m.cfg.WrapWidth
	if m.wrapOverride > 0 {
		wrap = m.wrapOverride
	}
	limit := max(m.width-2, 1)
	if wrap <= 0 || wrap > limit {
		wrap = limit
	}
	return wrap
}

func (m *Model) setWrap(wrap int) tea.Cmd {
	if !m.ready {
		return nil
	}
	wrap = min(max(wrap, m.cfg.MinWrapWidth), max(m.width-2, 1))
	if wrap == m.wrap {
		return nil
	}
	m.wrapOverride = wrap
	return tea.Batch(m.relayout(wrap), m.setStatus(fmt.Sprintf("wrap %d", wrap), false))
}

// relayout re-wraps every chunk at a new width. All heights become estimates
// again, so the first visible character is re-anchored afterwards.
func (m *Model) relayout(wrap int) tea.Cmd {
	anchor := m.charIndexAt(m.win.ScrollTop())
	m.wrap = wrap
	m.layouts.Clear()
	m.win.InvalidateAll()
	m.mount()
	m.anchorTo(anchor)
	m.log.Debug().Int("wrap", wrap).Int("anchor", anchor).Msg("relayout")
	return m.scrolled()
}

// reload swaps in new content. The snapshot is rebuilt wholesale and the
// generation bump makes any seek started for the old content abandon.
func (m *Model) reload(text string) tea.Cmd {
	anchor := -1
	if m.ready {
		anchor = m.charIndexAt(m.win.ScrollTop())
	}

	m.snap = chunk.Build(text)
	m.generation++
	m.win.Reset(len(m.snap.Chunks))
	m.layouts.Clear()
	m.mounted = nil
	m.sel.Clear()
	m.final = nil
	m.cursor = -1
	m.hl.active = false
	m.annot = nil
	m.list = nil
	m.search.Refresh(m.snap)

	m.log.Info().
		Int("generation", m.generation).
		Int("chunks", len(m.snap.Chunks)).
		Msg("document reloaded")

	if !m.ready {
		return m.loadAnnotations()
	}

	m.tracker.Reset()
	m.mount()
	if anchor > 0 && !m.snap.Empty() {
		m.anchorTo(min(anchor, m.snap.RuneLen()-1))
	}
	m.syncProgress(m.tracker.Force(m.opts.Now(), m.event()))
	return tea.Batch(m.loadAnnotations(), m.setStatus("reloaded", false))
}
