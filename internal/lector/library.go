package lector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/core/logging"
	"github.com/colonyops/lector/pkg/randid"
)

// idLength is the length of generated document ids.
const idLength = 8

var (
	// ErrNotText is returned when a file is not valid UTF-8.
	ErrNotText = errors.New("not a UTF-8 text file")
	// ErrNoMatches is returned when an import pattern matches no files.
	ErrNoMatches = errors.New("pattern matched no files")
)

// Library imports documents and opens them for reading.
type Library struct {
	store document.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewLibrary creates a library over store.
func NewLibrary(store document.Store) *Library {
	return &Library{
		store: store,
		log:   logging.Component("library"),
		now:   time.Now,
	}
}

// ImportResult reports the outcome for one imported path.
type ImportResult struct {
	Path     string
	Document document.Document
	Created  bool
	Err      error
}

// Import registers the file at path, or refreshes the existing entry when
// the path was imported before. The document id never changes on refresh,
// so saved progress and bookmarks stay attached.
func (l *Library) Import(ctx context.Context, path string) (document.Document, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return document.Document{}, false, fmt.Errorf("resolve path: %w", err)
	}

	data, err := readText(abs)
	if err != nil {
		return document.Document{}, false, err
	}

	hash := document.HashContent(data)
	now := l.now()

	existing, err := l.store.GetDocumentByPath(ctx, abs)
	switch {
	case err == nil:
		if existing.ContentHash == hash {
			return existing, false, nil
		}
		existing.ContentHash = hash
		existing.Size = int64(len(data))
		existing.UpdatedAt = now
		if err := l.store.SaveDocument(ctx, existing); err != nil {
			return document.Document{}, false, fmt.Errorf("update document: %w", err)
		}
		l.log.Info().Str("document_id", existing.ID).Str("path", abs).Msg("document content changed")
		return existing, false, nil
	case !errors.Is(err, document.ErrNotFound):
		return document.Document{}, false, fmt.Errorf("lookup document: %w", err)
	}

	doc := document.Document{
		ID:          randid.Generate(idLength),
		Title:       document.TitleFromPath(abs),
		Path:        abs,
		ContentHash: hash,
		Size:        int64(len(data)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.store.SaveDocument(ctx, doc); err != nil {
		return document.Document{}, false, fmt.Errorf("save document: %w", err)
	}

	l.log.Info().Str("document_id", doc.ID).Str("path", abs).Msg("document imported")
	return doc, true, nil
}

// ImportGlob expands each pattern with doublestar (so "**/*.txt" works) and
// imports every matching regular file once. Per-file failures are reported
// in the results; only a malformed pattern aborts.
func (l *Library) ImportGlob(ctx context.Context, patterns []string) ([]ImportResult, error) {
	seen := make(map[string]bool)
	var results []ImportResult

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return results, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			results = append(results, ImportResult{Path: pattern, Err: ErrNoMatches})
			continue
		}

		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil || seen[abs] {
				continue
			}
			seen[abs] = true

			if info, err := os.Stat(abs); err != nil || !info.Mode().IsRegular() {
				continue
			}

			doc, created, err := l.Import(ctx, abs)
			results = append(results, ImportResult{Path: abs, Document: doc, Created: created, Err: err})
		}
	}

	return results, nil
}

// Resolve finds the document named by arg. An existing file is imported on
// the fly; anything else is treated as a document id.
func (l *Library) Resolve(ctx context.Context, arg string) (document.Document, error) {
	if info, err := os.Stat(arg); err == nil && info.Mode().IsRegular() {
		doc, _, err := l.Import(ctx, arg)
		return doc, err
	}

	doc, err := l.store.GetDocument(ctx, arg)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return document.Document{}, fmt.Errorf("%q is neither a file nor a document id: %w", arg, err)
		}
		return document.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Session is an opened document ready for the reader.
type Session struct {
	Document document.Document
	Text     string
	Progress *document.Progress // nil when the document was never read
	Changed  bool               // content differs from the last import
}

// Open reads the document content and its saved position. A content change
// since import is recorded on the document; the saved character index still
// restores a nearby position.
func (l *Library) Open(ctx context.Context, doc document.Document) (Session, error) {
	data, err := readText(doc.Path)
	if err != nil {
		return Session{}, err
	}

	s := Session{Document: doc, Text: string(data)}

	if hash := document.HashContent(data); hash != doc.ContentHash {
		s.Changed = true
		s.Document.ContentHash = hash
		s.Document.Size = int64(len(data))
		s.Document.UpdatedAt = l.now()
		if err := l.store.SaveDocument(ctx, s.Document); err != nil {
			return Session{}, fmt.Errorf("update document: %w", err)
		}
	}

	p, err := l.store.GetProgress(ctx, doc.ID)
	switch {
	case err == nil:
		s.Progress = &p
	case !errors.Is(err, document.ErrNotFound):
		return Session{}, fmt.Errorf("get progress: %w", err)
	}

	return s, nil
}

// Search returns the documents whose title or path fuzzy-match query, best
// match first. An empty query lists every document, most recent first.
func (l *Library) Search(ctx context.Context, query string) ([]document.Document, error) {
	docs, err := l.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if query == "" {
		return docs, nil
	}

	matches := fuzzy.FindFrom(query, documentSource(docs))
	out := make([]document.Document, 0, len(matches))
	for _, m := range matches {
		out = append(out, docs[m.Index])
	}
	return out, nil
}

// Remove deletes a document with its progress and bookmarks.
func (l *Library) Remove(ctx context.Context, id string) error {
	if err := l.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// documentSource adapts documents to fuzzy.Source.
type documentSource []document.Document

func (s documentSource) String(i int) string {
	return s[i].Title + " " + filepath.Base(s[i].Path)
}

func (s documentSource) Len() int {
	return len(s)
}

func readText(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(data) || slices.Contains(data, 0) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return data, nil
}
