package tui

import (
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/core/logging"
	"github.com/colonyops/lector/internal/tui/reader"
)

// FileWatcher reloads one document when it changes on disk. The parent
// directory is watched so that editors which save through a rename are
// still seen.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	debounceDur time.Duration
	lastHash    string
	log         zerolog.Logger
}

// NewFileWatcher watches path. content is what the reader currently shows;
// writes that leave the content unchanged do not trigger a reload.
func NewFileWatcher(path, content string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return &FileWatcher{
		watcher:     watcher,
		path:        abs,
		debounceDur: 100 * time.Millisecond,
		lastHash:    document.HashContent([]byte(content)),
		log:         logging.Component("watcher"),
	}, nil
}

// Start returns a command that blocks until the file content changes and
// then delivers it as a reader.ReloadMsg. Issue it again after each reload.
func (w *FileWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}

				// Debounce: wait for changes to settle
				time.Sleep(w.debounceDur)
				w.drain()

				data, err := os.ReadFile(w.path)
				if err != nil {
					w.log.Debug().Err(err).Str("path", w.path).Msg("read after change")
					continue
				}
				hash := document.HashContent(data)
				if hash == w.lastHash {
					continue
				}
				w.lastHash = hash
				return reader.ReloadMsg{Text: string(data)}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				w.log.Warn().Err(err).Msg("watch error")
			}
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// drain discards events that arrived during the debounce.
func (w *FileWatcher) drain() {
	for {
		select {
		case <-w.watcher.Events:
		default:
			return
		}
	}
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}
