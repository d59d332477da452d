// Package window virtualizes a sequence of variable-height render units
// against a scrollable viewport.
//
// Heights are measured in rows. Every unit starts at an estimated height and
// is corrected once its real height is known; absolute offsets are derived
// from a Fenwick tree so a correction costs O(log n) and offsets below it
// recompute silently.
package window

// Align selects where ScrollToIndex places the target unit.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
)

// Options configures a Manager.
type Options struct {
	Estimate         int // initial height per unit, in rows
	Overscan         int // extra units mounted above and below the viewport
	InitialScrollTop int // applied on the first SetViewport call
}

// DefaultOptions returns the options used by the reader.
func DefaultOptions() Options {
	return Options{
		Estimate: 2,
		Overscan: 2,
	}
}

// Item is a mounted unit with its absolute vertical position.
type Item struct {
	Index  int
	Offset int
	Height int
}

// Manager tracks unit heights and the scroll position. It is not safe for
// concurrent use; all calls happen on the UI goroutine.
type Manager struct {
	estimate int
	overscan int

	heights  []int
	measured []bool
	tree     []int // 1-based Fenwick tree over heights

	viewport  int
	scrollTop int

	restore    int
	hasRestore bool
}

// New creates a manager for count units.
func New(count int, opts Options) *Manager {
	if opts.Estimate < 1 {
		opts.Estimate = 1
	}
	if opts.Overscan < 0 {
		opts.Overscan = 0
	}

	m := &Manager{
		estimate:   opts.Estimate,
		overscan:   opts.Overscan,
		restore:    opts.InitialScrollTop,
		hasRestore: opts.InitialScrollTop > 0,
	}
	m.Reset(count)
	return m
}

// Reset discards all heights and sizes the manager for count units.
// Called whenever the document content is rebuilt.
func (m *Manager) Reset(count int) {
	count = max(count, 0)
	m.heights = make([]int, count)
	m.measured = make([]bool, count)
	for i := range m.heights {
		m.heights[i] = m.estimate
	}
	m.rebuild()
	m.scrollTop = 0
}

// InvalidateAll marks every height as unmeasured after a typographic change.
// The scroll position is clamped but otherwise kept; callers re-anchor.
func (m *Manager) InvalidateAll() {
	for i := range m.heights {
		m.heights[i] = m.estimate
		m.measured[i] = false
	}
	m.rebuild()
	m.scrollTop = m.clamp(m.scrollTop)
}

// Count returns the number of units.
func (m *Manager) Count() int {
	return len(m.heights)
}

// SetViewport sets the visible height in rows. The first call applies any
// InitialScrollTop passed to New.
func (m *Manager) SetViewport(height int) {
	m.viewport = max(height, 0)
	if m.hasRestore && m.viewport > 0 {
		m.hasRestore = false
		m.scrollTop = m.clamp(m.restore)
		return
	}
	m.scrollTop = m.clamp(m.scrollTop)
}

// ViewportHeight returns the visible height in rows.
func (m *Manager) ViewportHeight() int {
	return m.viewport
}

// ScrollTop returns the current scroll offset in rows.
func (m *Manager) ScrollTop() int {
	return m.scrollTop
}

// SetScrollTop moves the scroll offset, clamped to the scrollable range.
func (m *Manager) SetScrollTop(y int) int {
	m.scrollTop = m.clamp(y)
	return m.scrollTop
}

// ScrollBy moves the scroll offset by delta rows.
func (m *Manager) ScrollBy(delta int) int {
	return m.SetScrollTop(m.scrollTop + delta)
}

// MaxScrollTop returns the largest valid scroll offset.
func (m *Manager) MaxScrollTop() int {
	return max(m.TotalHeight()-m.viewport, 0)
}

// TotalHeight returns the sum of all unit heights.
func (m *Manager) TotalHeight() int {
	return m.prefix(len(m.heights))
}

// Offset returns the absolute offset of a unit. Out-of-range indexes clamp.
func (m *Manager) Offset(index int) int {
	index = min(max(index, 0), len(m.heights))
	return m.prefix(index)
}

// Height returns the current (measured or estimated) height of a unit.
func (m *Manager) Height(index int) int {
	if index < 0 || index >= len(m.heights) {
		return 0
	}
	return m.heights[index]
}

// Measured reports whether a unit's height has been measured since the last
// reset or invalidation.
func (m *Manager) Measured(index int) bool {
	if index < 0 || index >= len(m.measured) {
		return false
	}
	return m.measured[index]
}

// Measure records the real height of a unit and reports whether the stored
// height changed. When the unit lies entirely above the scroll offset, the
// offset shifts by the same amount so visible content does not move.
func (m *Manager) Measure(index, height int) bool {
	if index < 0 || index >= len(m.heights) {
		return false
	}
	height = max(height, 1)
	m.measured[index] = true

	old := m.heights[index]
	if old == height {
		return false
	}

	above := m.prefix(index)+old <= m.scrollTop
	delta := height - old
	m.heights[index] = height
	m.add(index, delta)

	if above {
		m.scrollTop += delta
	}
	m.scrollTop = m.clamp(m.scrollTop)
	return true
}

// SettleTo scrolls to y after measuring every unit that starts at or above
// it, so a saved offset lands on the same unit it was saved at. Measuring
// runs with the offset at zero, so nothing above shifts it.
func (m *Manager) SettleTo(y int, measure func(index int) int) int {
	m.hasRestore = false
	m.scrollTop = 0
	for i := 0; i < len(m.heights) && m.prefix(i) <= y; i++ {
		if !m.measured[i] {
			m.Measure(i, measure(i))
		}
	}
	return m.SetScrollTop(y)
}

// IndexAt returns the unit containing absolute row y, or -1 when there are no
// units. Rows past the end resolve to the last unit.
func (m *Manager) IndexAt(y int) int {
	n := len(m.heights)
	if n == 0 {
		return -1
	}
	if y <= 0 {
		return 0
	}

	pos := 0
	rem := y
	for step := highBit(n); step > 0; step >>= 1 {
		next := pos + step
		if next <= n && m.tree[next] <= rem {
			pos = next
			rem -= m.tree[next]
		}
	}
	return min(pos, n-1)
}

// Visible returns the units intersecting the viewport plus the overscan
// margin, in order.
func (m *Manager) Visible() []Item {
	n := len(m.heights)
	if n == 0 || m.viewport <= 0 {
		return nil
	}

	first := m.IndexAt(m.scrollTop)
	last := m.IndexAt(m.scrollTop + m.viewport - 1)
	first = max(first-m.overscan, 0)
	last = min(last+m.overscan, n-1)

	items := make([]Item, 0, last-first+1)
	offset := m.prefix(first)
	for i := first; i <= last; i++ {
		items = append(items, Item{Index: i, Offset: offset, Height: m.heights[i]})
		offset += m.heights[i]
	}
	return items
}

// ScrollToIndex scrolls so that the unit is at the top or centered in the
// viewport. Returns the new scroll offset.
func (m *Manager) ScrollToIndex(index int, align Align) int {
	if len(m.heights) == 0 {
		return m.scrollTop
	}
	index = min(max(index, 0), len(m.heights)-1)

	top := m.prefix(index)
	if align == AlignCenter {
		top += m.heights[index]/2 - m.viewport/2
	}
	return m.SetScrollTop(top)
}

// CenterOn scrolls so that absolute row y sits in the middle of the viewport.
func (m *Manager) CenterOn(y int) int {
	return m.SetScrollTop(y - m.viewport/2)
}

// Reveal scrolls the minimum distance needed to bring absolute row y into
// view. Returns the new scroll offset.
func (m *Manager) Reveal(y int) int {
	switch {
	case y < m.scrollTop:
		return m.SetScrollTop(y)
	case m.viewport > 0 && y >= m.scrollTop+m.viewport:
		return m.SetScrollTop(y - m.viewport + 1)
	}
	return m.scrollTop
}

func (m *Manager) clamp(y int) int {
	return min(max(y, 0), m.MaxScrollTop())
}

func (m *Manager) rebuild() {
	n := len(m.heights)
	m.tree = make([]int, n+1)
	for i := 1; i <= n; i++ {
		m.tree[i] += m.heights[i-1]
		if j := i + (i & -i); j <= n {
			m.tree[j] += m.tree[i]
		}
	}
}

func (m *Manager) add(index, delta int) {
	for i := index + 1; i < len(m.tree); i += i & -i {
		m.tree[i] += delta
	}
}

// prefix returns the sum of the first count heights.
func (m *Manager) prefix(count int) int {
	sum := 0
	for i := count; i > 0; i -= i & -i {
		sum += m.tree[i]
	}
	return sum
}

func highBit(n int) int {
	step := 1
	for step<<1 <= n {
		step <<= 1
	}
	return step
}
