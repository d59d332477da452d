// Package selection tracks click-driven token selection in single-word or
// phrase mode and reconstructs the selected text with its absolute offset.
package selection

import (
	"strings"

	"github.com/colonyops/lector/internal/core/chunk"
)

// Mode is the selection granularity.
type Mode int

const (
	Single Mode = iota
	Phrase
)

func (m Mode) String() string {
	if m == Phrase {
		return "phrase"
	}
	return "single"
}

// State is the machine state.
type State int

const (
	Idle State = iota
	Anchored
	Ranged
)

func (s State) String() string {
	switch s {
	case Anchored:
		return "anchored"
	case Ranged:
		return "ranged"
	default:
		return "idle"
	}
}

// Range is an inclusive span of global token indexes with Start <= End.
type Range struct {
	Start int
	End   int
	Mode  Mode
}

// Contains reports whether the token falls inside the range.
func (r Range) Contains(token int) bool {
	return token >= r.Start && token <= r.End
}

// Machine is the selection state machine. The zero value is Idle in Single
// mode.
type Machine struct {
	mode   Mode
	state  State
	anchor int
	rng    Range
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode { return m.mode }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Anchor returns the anchored token while Anchored.
func (m *Machine) Anchor() (int, bool) {
	return m.anchor, m.state == Anchored
}

// Range returns the finalized range while Ranged.
func (m *Machine) Range() (Range, bool) {
	return m.rng, m.state == Ranged
}

// Contains reports whether the token is part of the in-progress or finalized
// selection.
func (m *Machine) Contains(token int) bool {
	switch m.state {
	case Anchored:
		return token == m.anchor
	case Ranged:
		return m.rng.Contains(token)
	}
	return false
}

// Click feeds a token click into the machine. It returns the range when the
// click finalizes a selection.
func (m *Machine) Click(token int) (Range, bool) {
	if token < 0 {
		return Range{}, false
	}

	if m.mode == Single {
		m.finalize(token, token)
		return m.rng, true
	}

	if m.state == Anchored {
		m.finalize(m.anchor, token)
		return m.rng, true
	}

	// Idle or Ranged: a new click starts over from a fresh anchor.
	m.state = Anchored
	m.anchor = token
	m.rng = Range{}
	return Range{}, false
}

func (m *Machine) finalize(a, b int) {
	if b < a {
		a, b = b, a
	}
	m.state = Ranged
	m.rng = Range{Start: a, End: b, Mode: m.mode}
}

// Clear drops any in-progress or finalized selection.
func (m *Machine) Clear() {
	m.state = Idle
	m.anchor = 0
	m.rng = Range{}
}

// SetMode switches mode and clears the selection.
func (m *Machine) SetMode(mode Mode) {
	m.mode = mode
	m.Clear()
}

// Toggle flips between Single and Phrase and returns the new mode.
func (m *Machine) Toggle() Mode {
	if m.mode == Single {
		m.SetMode(Phrase)
	} else {
		m.SetMode(Single)
	}
	return m.mode
}

// Selection is a finalized range resolved against a snapshot.
type Selection struct {
	Range  Range
	Text   string // trimmed join of the selected tokens
	Offset int    // absolute character index of the first selected token
}

// Finalize reconstructs the text and absolute offset of r. The offset is
// summed from the owning chunk's start, never from the document start. It
// reports false when r does not address the snapshot.
func Finalize(snap *chunk.Snapshot, r Range) (Selection, bool) {
	ci := snap.ChunkOfToken(r.Start)
	if ci < 0 || r.End < r.Start || r.End >= snap.Len() {
		return Selection{}, false
	}

	c := snap.Chunks[ci]
	offset := c.GlobalStartIndex
	for tok := c.GlobalWordIndex; tok < r.Start; tok++ {
		offset += snap.TokenLen(tok)
	}

	return Selection{
		Range:  r,
		Text:   strings.TrimSpace(snap.Join(r.Start, r.End)),
		Offset: offset,
	}, true
}
