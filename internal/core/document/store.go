package document

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document, progress row, or bookmark does
// not exist.
var ErrNotFound = errors.New("not found")

// Store defines persistence for documents, reading progress, and bookmarks.
type Store interface {
	// SaveDocument inserts or updates a document by ID.
	SaveDocument(ctx context.Context, doc Document) error

	// GetDocument returns a document by ID.
	// Returns ErrNotFound if the document does not exist.
	GetDocument(ctx context.Context, id string) (Document, error)

	// GetDocumentByPath returns the document imported from path.
	// Returns ErrNotFound if the path was never imported.
	GetDocumentByPath(ctx context.Context, path string) (Document, error)

	// ListDocuments returns all documents, most recently updated first.
	ListDocuments(ctx context.Context) ([]Document, error)

	// DeleteDocument removes a document with its progress and bookmarks.
	// Returns ErrNotFound if the document does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// SaveProgress upserts the reading position of a document.
	SaveProgress(ctx context.Context, p Progress) error

	// GetProgress returns the saved reading position.
	// Returns ErrNotFound if nothing was saved yet.
	GetProgress(ctx context.Context, documentID string) (Progress, error)

	// SaveBookmark persists a bookmark. The store populates ID and CreatedAt
	// when empty.
	SaveBookmark(ctx context.Context, b *Bookmark) error

	// ListBookmarks returns bookmarks of a document ordered by StartIndex.
	// An empty documentID lists bookmarks of every document.
	ListBookmarks(ctx context.Context, documentID string) ([]Bookmark, error)

	// DeleteBookmark removes a bookmark.
	// Returns ErrNotFound if the bookmark does not exist.
	DeleteBookmark(ctx context.Context, id string) error
}

// Writer is the fire-and-forget subset of Store the reader uses while
// scrolling.
type Writer interface {
	SaveProgress(ctx context.Context, p Progress) error
	SaveBookmark(ctx context.Context, b *Bookmark) error
}
