// Package progress derives reading progress and header visibility from
// scroll events and debounces persistence of the reading position.
package progress

import (
	"math"
	"time"
)

// Event is one scroll observation. All values are in rows.
type Event struct {
	ScrollTop    int
	ScrollHeight int
	ClientHeight int
}

// Progress is recomputed per observed event.
type Progress struct {
	Percent       int
	PagesLeft     int
	HeaderVisible bool
}

// Options configures a Tracker.
type Options struct {
	PageRows  int           // nominal page height for the pages-left estimate
	TopZone   int           // header always visible at or above this offset
	HideDelta int           // downward movement beyond this hides the header
	ShowDelta int           // upward movement beyond this shows the header
	Throttle  time.Duration // minimum spacing between computations
}

// DefaultOptions returns the tracker defaults.
func DefaultOptions() Options {
	return Options{
		PageRows:  40,
		TopZone:   2,
		HideDelta: 3,
		ShowDelta: 3,
		Throttle:  100 * time.Millisecond,
	}
}

// Tracker computes Progress from scroll events.
type Tracker struct {
	opts Options

	last     Progress
	lastTop  int
	lastAt   time.Time
	observed bool
}

// NewTracker returns a tracker with the header initially visible.
func NewTracker(opts Options) *Tracker {
	if opts.PageRows < 1 {
		opts.PageRows = 1
	}
	return &Tracker{
		opts: opts,
		last: Progress{HeaderVisible: true},
	}
}

// Current returns the most recently computed progress.
func (t *Tracker) Current() Progress {
	return t.last
}

// Observe computes progress for ev. Events arriving within the throttle
// window of the previous computation are skipped; Observe then returns the
// previous progress and false, and the caller schedules a trailing Force.
func (t *Tracker) Observe(now time.Time, ev Event) (Progress, bool) {
	if t.observed && now.Sub(t.lastAt) < t.opts.Throttle {
		return t.last, false
	}
	return t.Force(now, ev), true
}

// Force computes progress for ev regardless of the throttle.
func (t *Tracker) Force(now time.Time, ev Event) Progress {
	p := Progress{
		Percent:       Percent(ev),
		PagesLeft:     PagesLeft(ev, t.opts.PageRows),
		HeaderVisible: t.headerVisible(ev.ScrollTop),
	}

	t.last = p
	t.lastTop = ev.ScrollTop
	t.lastAt = now
	t.observed = true
	return p
}

// Reset forgets the previous offset so the next event is computed fresh.
func (t *Tracker) Reset() {
	t.last = Progress{HeaderVisible: true}
	t.lastTop = 0
	t.lastAt = time.Time{}
	t.observed = false
}

func (t *Tracker) headerVisible(top int) bool {
	if top <= t.opts.TopZone {
		return true
	}
	if !t.observed {
		return t.last.HeaderVisible
	}

	delta := top - t.lastTop
	switch {
	case delta > t.opts.HideDelta:
		return false
	case -delta > t.opts.ShowDelta:
		return true
	default:
		return t.last.HeaderVisible
	}
}

// Percent returns the completion percentage, 0 when the content fits.
func Percent(ev Event) int {
	scrollable := ev.ScrollHeight - ev.ClientHeight
	if scrollable <= 0 {
		return 0
	}
	top := min(max(ev.ScrollTop, 0), scrollable)
	return int(math.Round(float64(top) / float64(scrollable) * 100))
}

// PagesLeft estimates the remaining pages below the viewport.
func PagesLeft(ev Event, pageRows int) int {
	remaining := ev.ScrollHeight - ev.ClientHeight - ev.ScrollTop
	if remaining <= 0 || pageRows <= 0 {
		return 0
	}
	return (remaining + pageRows - 1) / pageRows
}

// Save is the payload persisted for a reading position.
type Save struct {
	ScrollTop int
	Percent   int
	CharIndex int
	Timestamp time.Time
}

// Debouncer keeps only the latest scheduled value. Each Schedule returns a
// sequence number; the host arms a timer with it and calls Fire when the
// timer expires. Only the latest sequence fires.
type Debouncer[T any] struct {
	seq     int
	pending T
	armed   bool
}

// Schedule replaces any pending value and returns its sequence number.
func (d *Debouncer[T]) Schedule(v T) int {
	d.seq++
	d.pending = v
	d.armed = true
	return d.seq
}

// Fire returns the pending value if seq is still the latest schedule.
func (d *Debouncer[T]) Fire(seq int) (T, bool) {
	var zero T
	if !d.armed || seq != d.seq {
		return zero, false
	}
	v := d.pending
	d.pending = zero
	d.armed = false
	return v, true
}

// Flush returns the pending value regardless of timers. Used on shutdown.
func (d *Debouncer[T]) Flush() (T, bool) {
	return d.Fire(d.seq)
}

// Pending reports whether a value is waiting to fire.
func (d *Debouncer[T]) Pending() bool {
	return d.armed
}
