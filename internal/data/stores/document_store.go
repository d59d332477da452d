package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/data/db"
	"github.com/colonyops/lector/pkg/randid"
)

// DocumentStore implements document.Store using SQLite.
type DocumentStore struct {
	db *db.DB
}

var _ document.Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new SQLite-backed document store.
func NewDocumentStore(db *db.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, title, path, content_hash, size, created_at, updated_at`

// SaveDocument inserts a document or updates it in place when the ID exists.
// Generates an ID if not set.
func (s *DocumentStore) SaveDocument(ctx context.Context, doc document.Document) error {
	if doc.ID == "" {
		doc.ID = randid.Generate(8)
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			path = excluded.path,
			content_hash = excluded.content_hash,
			size = excluded.size,
			updated_at = excluded.updated_at`,
		doc.ID, doc.Title, doc.Path, doc.ContentHash, doc.Size,
		doc.CreatedAt.UnixNano(), doc.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save document %q: %w", doc.ID, err)
	}
	return nil
}

// GetDocument returns a document by ID.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (document.Document, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if IsNotFoundError(err) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, fmt.Errorf("get document %q: %w", id, err)
	}
	return doc, nil
}

// GetDocumentByPath returns the document imported from path.
func (s *DocumentStore) GetDocumentByPath(ctx context.Context, path string) (document.Document, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE path = ?`, path)

	doc, err := scanDocument(row)
	if err != nil {
		if IsNotFoundError(err) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, fmt.Errorf("get document by path: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by updated_at DESC.
func (s *DocumentStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]document.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document. Progress and bookmarks go with it
// through the foreign key cascade.
func (s *DocumentStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document %q: %w", id, err)
	}
	return requireAffected(res, id)
}

// SaveProgress upserts the reading position of a document.
func (s *DocumentStore) SaveProgress(ctx context.Context, p document.Progress) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO reading_progress (document_id, scroll_top, percent, char_index, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (document_id) DO UPDATE SET
			scroll_top = excluded.scroll_top,
			percent = excluded.percent,
			char_index = excluded.char_index,
			updated_at = excluded.updated_at`,
		p.DocumentID, p.ScrollTop, p.Percent, p.CharIndex, p.Timestamp.UnixNano(),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return document.ErrNotFound
		}
		return fmt.Errorf("save progress %q: %w", p.DocumentID, err)
	}
	return nil
}

// GetProgress returns the saved reading position of a document.
func (s *DocumentStore) GetProgress(ctx context.Context, documentID string) (document.Progress, error) {
	var (
		p  = document.Progress{DocumentID: documentID}
		ts int64
	)
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT scroll_top, percent, char_index, updated_at
		FROM reading_progress WHERE document_id = ?`, documentID,
	).Scan(&p.ScrollTop, &p.Percent, &p.CharIndex, &ts)
	if err != nil {
		if IsNotFoundError(err) {
			return document.Progress{}, document.ErrNotFound
		}
		return document.Progress{}, fmt.Errorf("get progress %q: %w", documentID, err)
	}

	p.Timestamp = time.Unix(0, ts)
	return p, nil
}

// SaveBookmark persists a bookmark, filling in ID and CreatedAt when unset.
func (s *DocumentStore) SaveBookmark(ctx context.Context, b *document.Bookmark) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO bookmarks (id, document_id, start_index, text_preview, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			start_index = excluded.start_index,
			text_preview = excluded.text_preview`,
		b.ID, b.DocumentID, b.StartIndex, b.TextPreview, b.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return document.ErrNotFound
		}
		return fmt.Errorf("save bookmark: %w", err)
	}
	return nil
}

// ListBookmarks returns bookmarks ordered by document then start index.
// An empty documentID lists every document's bookmarks.
func (s *DocumentStore) ListBookmarks(ctx context.Context, documentID string) ([]document.Bookmark, error) {
	query := `SELECT id, document_id, start_index, text_preview, created_at FROM bookmarks`
	var args []any
	if documentID != "" {
		query += ` WHERE document_id = ?`
		args = append(args, documentID)
	}
	query += ` ORDER BY document_id, start_index, created_at`

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	marks := make([]document.Bookmark, 0)
	for rows.Next() {
		var (
			b  document.Bookmark
			ts int64
		)
		if err := rows.Scan(&b.ID, &b.DocumentID, &b.StartIndex, &b.TextPreview, &ts); err != nil {
			return nil, fmt.Errorf("list bookmarks: %w", err)
		}
		b.CreatedAt = time.Unix(0, ts)
		marks = append(marks, b)
	}
	return marks, rows.Err()
}

// DeleteBookmark removes a bookmark by ID.
func (s *DocumentStore) DeleteBookmark(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark %q: %w", id, err)
	}
	return requireAffected(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (document.Document, error) {
	var (
		doc                  document.Document
		createdAt, updatedAt int64
	)
	err := row.Scan(&doc.ID, &doc.Title, &doc.Path, &doc.ContentHash, &doc.Size, &createdAt, &updatedAt)
	if err != nil {
		return document.Document{}, err
	}
	doc.CreatedAt = time.Unix(0, createdAt)
	doc.UpdatedAt = time.Unix(0, updatedAt)
	return doc, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %q: %w", id, err)
	}
	if n == 0 {
		return document.ErrNotFound
	}
	return nil
}
