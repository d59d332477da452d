package reader

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/lector/internal/core/address"
	"github.com/colonyops/lector/internal/core/annotation"
	"github.com/colonyops/lector/internal/core/document"
)

// DeepLinkMsg asks the reader to scroll to a character of the open
// document. Links for other documents are ignored.
type DeepLinkMsg struct {
	Link address.DeepLink
}

// ReloadMsg replaces the document content, typically after the file changed
// on disk.
type ReloadMsg struct {
	Text string
}

// SelectionMsg is emitted when a selection is finalized.
type SelectionMsg struct {
	Text   string
	Offset int // absolute character index of the first selected token
	X, Y   int // screen cell the toolbar is anchored to
}

type (
	seekTickMsg       struct{ id int }
	highlightClearMsg struct{ seq int }
	saveTickMsg       struct{ seq int }
	throttleFlushMsg  struct{}
	statusClearMsg    struct{ seq int }
)

type statusMsg struct {
	text string
	err  bool
}

type annotationsMsg struct {
	generation int
	spans      []annotation.Span
	err        error
}

type bookmarksMsg struct {
	items []document.Bookmark
	err   error
}

type bookmarkDeletedMsg struct {
	id  string
	err error
}

type termAddedMsg struct {
	term string
	err  error
}

const statusTTL = 3 * time.Second

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
