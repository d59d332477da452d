// Package tui hosts the reader program: the reader model plus the file
// watcher that feeds it reloads.
package tui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/lector/internal/core/logging"
	"github.com/colonyops/lector/internal/tui/reader"
)

// Model is the root Bubble Tea model.
type Model struct {
	reader  reader.Model
	watcher *FileWatcher // nil when watching is disabled
	log     zerolog.Logger
}

// New wraps a reader. watcher may be nil.
func New(r reader.Model, watcher *FileWatcher) Model {
	return Model{reader: r, watcher: watcher, log: logging.Component("tui")}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reader.Init(), m.watch())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case reader.ReloadMsg:
		// The watcher command returns after each change; re-arm it.
		cmds = append(cmds, m.watch())
	case reader.SelectionMsg:
		m.log.Debug().Int("offset", msg.Offset).Int("len", len(msg.Text)).Msg("selection")
	}

	next, cmd := m.reader.Update(msg)
	m.reader = next.(reader.Model)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() tea.View {
	return m.reader.View()
}

// Reader returns the wrapped reader, e.g. to read the final progress after
// the program exits.
func (m Model) Reader() reader.Model {
	return m.reader
}

func (m Model) watch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Start()
}
