// Package reader is the terminal reader. It lays out a document chunk by
// chunk, renders only the chunks inside the scroll window, and drives deep
// links, word and phrase selection, and progress persistence from Bubble Tea
// messages.
package reader

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/colonyops/lector/internal/core/address"
	"github.com/colonyops/lector/internal/core/annotation"
	"github.com/colonyops/lector/internal/core/chunk"
	"github.com/colonyops/lector/internal/core/config"
	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/core/logging"
	"github.com/colonyops/lector/internal/core/progress"
	"github.com/colonyops/lector/internal/core/selection"
	"github.com/colonyops/lector/internal/core/window"
	"github.com/colonyops/lector/pkg/kv"
)

// layoutCacheSize bounds the number of wrapped chunks kept in memory.
const layoutCacheSize = 1024

// BookmarkStore is the part of the document store the bookmark list needs.
type BookmarkStore interface {
	ListBookmarks(ctx context.Context, documentID string) ([]document.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
}

// Options configures a reader Model.
type Options struct {
	Document document.Document
	Text     string
	Config   config.Config

	// Writer receives progress and bookmark saves. Saves are fire-and-forget;
	// pass the write queue, not the store.
	Writer     document.Writer
	Bookmarks  BookmarkStore     // optional
	Vocabulary annotation.Source // optional

	// Resume restores a saved position. At, when non-negative, deep links to
	// a character instead.
	Resume *document.Progress
	At     int

	Pending   func() int         // queued writes, shown in the footer; optional
	Clipboard func(string) error // defaults to the system clipboard
	Now       func() time.Time   // defaults to time.Now
}

type highlight struct {
	start, end int // global tokens, inclusive
	seq        int
	active     bool
}

// finalized is a selection handed to the toolbar.
type finalized struct {
	sel  selection.Selection
	x, y int
}

// Model is the reader's Bubble Tea model.
type Model struct {
	opts   Options
	cfg    config.ReaderConfig
	policy address.RetryPolicy
	keys   KeyMap
	help   help.Model
	log    zerolog.Logger

	doc        document.Document
	snap       *chunk.Snapshot
	generation int
	win        *window.Manager
	layouts    *kv.Store[int, Layout]
	mounted    []window.Item

	width, height int
	wrap          int
	wrapOverride  int
	ready         bool
	jump          int // character to reach once sized; -1 for none
	jumpIsLink    bool

	tracker    *progress.Tracker
	prog       progress.Progress
	flushArmed bool
	saver      progress.Debouncer[progress.Save]

	sel    selection.Machine
	final  *finalized
	cursor int // keyboard cursor token, -1 when unset

	seek    *address.Seek
	seekID  int
	seekEnd int // last character the highlight should cover
	hl      highlight

	annot map[int]int

	search   SearchMode
	list     *bookmarkList
	showHelp bool

	status    string
	statusErr bool
	statusSeq int
}

// New creates a reader for the given document.
func New(opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	rc := opts.Config.Reader
	snap := chunk.Build(opts.Text)

	winOpts := window.Options{
		Estimate: rc.EstimateRows,
		Overscan: rc.Overscan,
	}
	jump, jumpIsLink := -1, false
	if opts.Resume != nil {
		// ScrollTop only holds while the wrap width is unchanged; the
		// character index re-anchors once the first chunks are laid out.
		winOpts.InitialScrollTop = opts.Resume.ScrollTop
		if opts.Resume.CharIndex > 0 {
			jump = opts.Resume.CharIndex
		}
	}
	if opts.At >= 0 {
		jump, jumpIsLink = opts.At, true
	}

	tracker := progress.NewTracker(progress.Options{
		PageRows:  rc.PageRows,
		TopZone:   rc.HeaderTopZone,
		HideDelta: rc.HeaderHideDelta,
		ShowDelta: rc.HeaderShowDelta,
		Throttle:  rc.Throttle,
	})

	search := NewSearchMode()
	search.Refresh(snap)

	return Model{
		opts: opts,
		cfg:  rc,
		policy: address.RetryPolicy{
			Attempts:     opts.Config.DeepLink.Attempts,
			Delay:        opts.Config.DeepLink.Delay,
			HighlightTTL: opts.Config.DeepLink.HighlightTTL,
		},
		keys:       DefaultKeyMap(),
		help:       help.New(),
		log:        logging.Document("reader", opts.Document.ID),
		doc:        opts.Document,
		snap:       snap,
		win:        window.New(len(snap.Chunks), winOpts),
		layouts:    kv.New[int, Layout](layoutCacheSize),
		jump:       jump,
		jumpIsLink: jumpIsLink,
		tracker:    tracker,
		prog:       tracker.Current(),
		cursor:     -1,
		search:     search,
	}
}

// Init loads the vocabulary overlay.
func (m Model) Init() tea.Cmd {
	return m.loadAnnotations()
}

// Update handles a message. Every message ends with the visible chunks laid
// out and measured, so the next render and the next scroll read see settled
// heights.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.ready {
		m.mount()
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height)
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		if mouse := msg.Mouse(); mouse.Button == tea.MouseLeft && m.list == nil {
			return m.clickAt(mouse.X, mouse.Y)
		}
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelDown:
			return m.scrollBy(3)
		case tea.MouseWheelUp:
			return m.scrollBy(-3)
		}
	case DeepLinkMsg:
		if msg.Link.DocumentID != "" && msg.Link.DocumentID != m.doc.ID {
			m.log.Debug().Str("target", msg.Link.DocumentID).Msg("deep link for another document ignored")
			return nil
		}
		if !m.ready {
			m.jump, m.jumpIsLink = msg.Link.TargetCharIndex, true
			return nil
		}
		return m.deepLink(msg.Link.TargetCharIndex, 1)
	case ReloadMsg:
		return m.reload(msg.Text)
	case seekTickMsg:
		return m.stepSeek(msg.id)
	case highlightClearMsg:
		if msg.seq == m.hl.seq {
			m.hl.active = false
		}
	case saveTickMsg:
		if save, ok := m.saver.Fire(msg.seq); ok {
			m.persist(save)
		}
	case throttleFlushMsg:
		m.flushArmed = false
		return m.applyProgress(m.tracker.Force(m.opts.Now(), m.event()))
	case statusMsg:
		return m.setStatus(msg.text, msg.err)
	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status, m.statusErr = "", false
		}
	case annotationsMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("load vocabulary")
			return nil
		}
		if msg.generation == m.generation {
			m.annot = annotation.Index(msg.spans)
		}
	case bookmarksMsg:
		if msg.err != nil {
			return m.setStatus("bookmarks: "+msg.err.Error(), true)
		}
		m.list = newBookmarkList(msg.items, m.snap.RuneLen())
	case bookmarkDeletedMsg:
		if msg.err != nil {
			return m.setStatus("delete bookmark: "+msg.err.Error(), true)
		}
		if m.list != nil {
			m.list.remove(msg.id)
		}
		return m.setStatus("bookmark deleted", false)
	case termAddedMsg:
		if msg.err != nil {
			return m.setStatus("add term: "+msg.err.Error(), true)
		}
		return tea.Batch(m.setStatus(fmt.Sprintf("added %q", msg.term), false), m.loadAnnotations())
	default:
		if m.search.IsActive() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return cmd
		}
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case m.showHelp:
		m.showHelp = false
		return nil
	case m.list != nil:
		return m.handleListKey(msg)
	case m.search.IsActive():
		return m.handleSearchKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Down):
		return m.scrollBy(1)
	case key.Matches(msg, k.Up):
		return m.scrollBy(-1)
	case key.Matches(msg, k.PageDown):
		return m.scrollBy(max(m.win.ViewportHeight()-1, 1))
	case key.Matches(msg, k.PageUp):
		return m.scrollBy(-max(m.win.ViewportHeight()-1, 1))
	case key.Matches(msg, k.HalfDown):
		return m.scrollBy(max(m.win.ViewportHeight()/2, 1))
	case key.Matches(msg, k.HalfUp):
		return m.scrollBy(-max(m.win.ViewportHeight()/2, 1))
	case key.Matches(msg, k.Top):
		return m.scrollTo(0)
	case key.Matches(msg, k.Bottom):
		return m.scrollToBottom()
	case key.Matches(msg, k.Narrower):
		return m.setWrap(m.wrap - 4)
	case key.Matches(msg, k.Wider):
		return m.setWrap(m.wrap + 4)
	case key.Matches(msg, k.PhraseMode):
		m.final = nil
		return m.setStatus(m.sel.Toggle().String()+" mode", false)
	case key.Matches(msg, k.Left):
		return m.moveCursor(-1)
	case key.Matches(msg, k.Right):
		return m.moveCursor(1)
	case key.Matches(msg, k.Select):
		if m.cursor < 0 {
			return nil
		}
		return m.click(m.cursor)
	case key.Matches(msg, k.Bookmark):
		return m.bookmark()
	case key.Matches(msg, k.Copy):
		return m.copySelection()
	case key.Matches(msg, k.AddTerm):
		return m.addTerm()
	case key.Matches(msg, k.Bookmarks):
		return m.openBookmarks()
	case key.Matches(msg, k.Search):
		return m.search.Activate()
	case key.Matches(msg, k.NextMatch):
		return m.jumpToMatch(m.search.NextMatch())
	case key.Matches(msg, k.PrevMatch):
		return m.jumpToMatch(m.search.PrevMatch())
	case key.Matches(msg, k.Clear):
		m.sel.Clear()
		m.final = nil
		m.hl.active = false
		m.cursor = -1
		m.search.Deactivate()
	case key.Matches(msg, k.Help):
		m.showHelp = true
	}
	return nil
}

// quit flushes the pending progress save before exiting.
func (m *Model) quit() tea.Cmd {
	if save, ok := m.saver.Flush(); ok {
		m.persist(save)
	}
	return tea.Quit
}

func (m *Model) persist(save progress.Save) {
	if m.opts.Writer == nil || m.doc.ID == "" {
		return
	}
	err := m.opts.Writer.SaveProgress(context.Background(), document.Progress{
		DocumentID: m.doc.ID,
		ScrollTop:  save.ScrollTop,
		Percent:    save.Percent,
		CharIndex:  save.CharIndex,
		Timestamp:  save.Timestamp,
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("queue progress save")
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status, m.statusErr = text, isErr
	m.statusSeq++
	return tick(statusTTL, statusClearMsg{seq: m.statusSeq})
}

// documentKey identifies the content on screen. It changes on reload so
// seeks started for older content abandon.
func (m *Model) documentKey() string {
	return fmt.Sprintf("%s#%d", m.doc.ID, m.generation)
}

// Progress returns the most recent reading progress.
func (m Model) Progress() progress.Progress {
	return m.prog
}

// ScrollTop returns the current scroll offset in rows.
func (m Model) ScrollTop() int {
	return m.win.ScrollTop()
}
