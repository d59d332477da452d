package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lector/internal/core/config"
	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/tui/reader"
	"github.com/colonyops/lector/pkg/tuitest"
)

func newProgram(t *testing.T, text string) Model {
	t.Helper()
	r := reader.New(reader.Options{
		Document: document.Document{ID: "doc", Title: "Book"},
		Text:     text,
		Config:   config.DefaultConfig(),
		At:       -1,
	})
	return New(r, nil)
}

func TestModel_ForwardsToReader(t *testing.T) {
	m := newProgram(t, "one two three\n")

	next, _ := m.Update(tuitest.WindowSize(40, 8))
	m = next.(Model)

	out := tuitest.StripANSI(m.View().Content)
	assert.Contains(t, out, "one two three")
	assert.Contains(t, out, "Book")
}

func TestModel_ReloadReplacesContent(t *testing.T) {
	m := newProgram(t, "old text\n")
	next, _ := m.Update(tuitest.WindowSize(40, 8))
	m = next.(Model)

	next, _ = m.Update(reader.ReloadMsg{Text: "new text\n"})
	m = next.(Model)

	out := tuitest.StripANSI(m.View().Content)
	assert.Contains(t, out, "new text")
	assert.NotContains(t, out, "old text")
}

func TestModel_InitWithoutWatcher(t *testing.T) {
	m := newProgram(t, "")
	require.NotPanics(t, func() { _ = m.Init() })
	assert.Equal(t, 0, m.Reader().ScrollTop())
}
