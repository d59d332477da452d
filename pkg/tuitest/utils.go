// Package tuitest provides message builders and output helpers for testing
// Bubble Tea models without a terminal.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace so rendered
// frames can be compared as plain text.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.TrimRight(line, " "))
	}
	return strings.TrimRight(strings.Join(result, "\n"), "\n")
}

// Lines returns the stripped frame split into rows.
func Lines(s string) []string {
	return strings.Split(StripANSI(s), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: key, Text: string(key)})
}

// KeyCtrl creates a ctrl+<key> press message.
func KeyCtrl(key rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: key, Mod: tea.ModCtrl})
}

// Type returns one key press message per rune of s.
func Type(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, KeyPress(r))
	}
	return msgs
}

// KeyDown creates a down arrow key press message.
func KeyDown() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyDown})
}

// KeyUp creates an up arrow key press message.
func KeyUp() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyUp})
}

// KeyEnter creates an enter key press message.
func KeyEnter() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
}

// KeyEsc creates an escape key press message.
func KeyEsc() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyEscape})
}

// KeyPgDown creates a page down key press message.
func KeyPgDown() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyPgDown})
}

// KeyHome creates a home key press message.
func KeyHome() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyHome})
}

// KeyEnd creates an end key press message.
func KeyEnd() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyEnd})
}

// Click creates a left mouse click at the given cell.
func Click(x, y int) tea.Msg {
	return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
}

// WheelDown creates a mouse wheel down event.
func WheelDown() tea.Msg {
	return tea.MouseWheelMsg{Button: tea.MouseWheelDown}
}

// WheelUp creates a mouse wheel up event.
func WheelUp() tea.Msg {
	return tea.MouseWheelMsg{Button: tea.MouseWheelUp}
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
