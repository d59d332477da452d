package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want int
	}{
		{name: "top", ev: Event{ScrollTop: 0, ScrollHeight: 100, ClientHeight: 20}, want: 0},
		{name: "middle", ev: Event{ScrollTop: 40, ScrollHeight: 100, ClientHeight: 20}, want: 50},
		{name: "bottom", ev: Event{ScrollTop: 80, ScrollHeight: 100, ClientHeight: 20}, want: 100},
		{name: "rounds", ev: Event{ScrollTop: 1, ScrollHeight: 11, ClientHeight: 8}, want: 33},
		{name: "content fits", ev: Event{ScrollTop: 0, ScrollHeight: 10, ClientHeight: 20}, want: 0},
		{name: "exact fit", ev: Event{ScrollTop: 0, ScrollHeight: 20, ClientHeight: 20}, want: 0},
		{name: "overscrolled", ev: Event{ScrollTop: 500, ScrollHeight: 100, ClientHeight: 20}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.ev))
		})
	}
}

func TestPagesLeft(t *testing.T) {
	assert.Equal(t, 2, PagesLeft(Event{ScrollTop: 0, ScrollHeight: 100, ClientHeight: 20}, 40))
	assert.Equal(t, 1, PagesLeft(Event{ScrollTop: 79, ScrollHeight: 100, ClientHeight: 20}, 40))
	assert.Equal(t, 0, PagesLeft(Event{ScrollTop: 80, ScrollHeight: 100, ClientHeight: 20}, 40))
	assert.Equal(t, 0, PagesLeft(Event{ScrollHeight: 10, ClientHeight: 20}, 40))
}

func TestTracker_HeaderHysteresis(t *testing.T) {
	tr := NewTracker(Options{PageRows: 10, TopZone: 2, HideDelta: 3, ShowDelta: 3})
	now := time.Unix(0, 0)
	ev := func(top int) Event { return Event{ScrollTop: top, ScrollHeight: 1000, ClientHeight: 20} }

	steps := []struct {
		top  int
		want bool
	}{
		{top: 0, want: true},
		{top: 2, want: true},   // inside top zone
		{top: 5, want: true},   // small delta keeps state
		{top: 20, want: false}, // large downward delta hides
		{top: 22, want: false}, // small delta keeps hidden
		{top: 20, want: false}, // small upward delta keeps hidden
		{top: 10, want: true},  // large upward delta shows
		{top: 12, want: true},
		{top: 1, want: true},
	}

	for i, s := range steps {
		p, ok := tr.Observe(now.Add(time.Duration(i)*time.Second), ev(s.top))
		require.True(t, ok)
		assert.Equal(t, s.want, p.HeaderVisible, "step %d (top=%d)", i, s.top)
	}
}

func TestTracker_Throttle(t *testing.T) {
	tr := NewTracker(Options{PageRows: 10, Throttle: 100 * time.Millisecond})
	start := time.Unix(100, 0)

	p, ok := tr.Observe(start, Event{ScrollTop: 10, ScrollHeight: 120, ClientHeight: 20})
	require.True(t, ok)
	assert.Equal(t, 10, p.Percent)

	p, ok = tr.Observe(start.Add(50*time.Millisecond), Event{ScrollTop: 50, ScrollHeight: 120, ClientHeight: 20})
	assert.False(t, ok)
	assert.Equal(t, 10, p.Percent, "throttled event returns previous progress")

	p = tr.Force(start.Add(60*time.Millisecond), Event{ScrollTop: 50, ScrollHeight: 120, ClientHeight: 20})
	assert.Equal(t, 50, p.Percent)
	assert.Equal(t, p, tr.Current())

	_, ok = tr.Observe(start.Add(200*time.Millisecond), Event{ScrollTop: 60, ScrollHeight: 120, ClientHeight: 20})
	assert.True(t, ok)
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(DefaultOptions())
	tr.Observe(time.Unix(1, 0), Event{ScrollTop: 0, ScrollHeight: 500, ClientHeight: 20})
	tr.Observe(time.Unix(2, 0), Event{ScrollTop: 100, ScrollHeight: 500, ClientHeight: 20})
	require.False(t, tr.Current().HeaderVisible)

	tr.Reset()

	assert.True(t, tr.Current().HeaderVisible)
	_, ok := tr.Observe(time.Unix(2, 0), Event{ScrollTop: 100, ScrollHeight: 500, ClientHeight: 20})
	assert.True(t, ok)
}

func TestDebouncer_LatestWins(t *testing.T) {
	var d Debouncer[Save]

	first := d.Schedule(Save{ScrollTop: 1})
	second := d.Schedule(Save{ScrollTop: 2})

	_, ok := d.Fire(first)
	assert.False(t, ok, "superseded schedule must not fire")

	v, ok := d.Fire(second)
	require.True(t, ok)
	assert.Equal(t, 2, v.ScrollTop)

	_, ok = d.Fire(second)
	assert.False(t, ok, "fires once")
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	var d Debouncer[int]

	_, ok := d.Flush()
	assert.False(t, ok)

	d.Schedule(7)
	assert.True(t, d.Pending())

	v, ok := d.Flush()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}
