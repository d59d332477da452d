package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/data/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seedDocument(t *testing.T, store *DocumentStore, id, path string) document.Document {
	t.Helper()
	doc := document.Document{
		ID:          id,
		Title:       document.TitleFromPath(path),
		Path:        path,
		ContentHash: document.HashContent([]byte(id)),
		Size:        42,
	}
	require.NoError(t, store.SaveDocument(context.Background(), doc))
	return doc
}

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))
		seedDocument(t, store, "doc-1", "/books/war_and-peace.txt")

		got, err := store.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "war and peace", got.Title)
		assert.Equal(t, "/books/war_and-peace.txt", got.Path)
		assert.Equal(t, int64(42), got.Size)
		assert.False(t, got.CreatedAt.IsZero())

		byPath, err := store.GetDocumentByPath(ctx, "/books/war_and-peace.txt")
		require.NoError(t, err)
		assert.Equal(t, "doc-1", byPath.ID)
	})

	t.Run("save generates ID", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))
		require.NoError(t, store.SaveDocument(ctx, document.Document{Title: "t", Path: "/p", ContentHash: "h"}))

		docs, err := store.ListDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Len(t, docs[0].ID, 8)
	})

	t.Run("save updates in place", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))
		doc := seedDocument(t, store, "doc-1", "/a.txt")

		doc.ContentHash = "changed"
		doc.UpdatedAt = time.Now().Add(time.Minute)
		require.NoError(t, store.SaveDocument(ctx, doc))

		got, err := store.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "changed", got.ContentHash)
	})

	t.Run("missing", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))

		_, err := store.GetDocument(ctx, "nope")
		require.ErrorIs(t, err, document.ErrNotFound)
		_, err = store.GetDocumentByPath(ctx, "/nope")
		require.ErrorIs(t, err, document.ErrNotFound)
		require.ErrorIs(t, store.DeleteDocument(ctx, "nope"), document.ErrNotFound)
		_, err = store.GetProgress(ctx, "nope")
		require.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))
		base := time.Now()
		for i, id := range []string{"old", "new"} {
			require.NoError(t, store.SaveDocument(ctx, document.Document{
				ID: id, Title: id, Path: "/" + id, ContentHash: id,
				UpdatedAt: base.Add(time.Duration(i) * time.Hour),
			}))
		}

		docs, err := store.ListDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "new", docs[0].ID)
		assert.Equal(t, "old", docs[1].ID)
	})

	t.Run("progress upsert", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))
		seedDocument(t, store, "doc-1", "/a.txt")

		require.NoError(t, store.SaveProgress(ctx, document.Progress{DocumentID: "doc-1", ScrollTop: 10, Percent: 5, CharIndex: 100}))
		require.NoError(t, store.SaveProgress(ctx, document.Progress{DocumentID: "doc-1", ScrollTop: 90, Percent: 50, CharIndex: 900}))

		got, err := store.GetProgress(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 90, got.ScrollTop)
		assert.Equal(t, 50, got.Percent)
		assert.Equal(t, 900, got.CharIndex)
		assert.False(t, got.Timestamp.IsZero())
	})

	t.Run("progress for unknown document", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))

		err := store.SaveProgress(ctx, document.Progress{DocumentID: "ghost"})
		require.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("bookmarks", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))
		seedDocument(t, store, "doc-1", "/a.txt")
		seedDocument(t, store, "doc-2", "/b.txt")

		late := &document.Bookmark{DocumentID: "doc-1", StartIndex: 500, TextPreview: "later"}
		early := &document.Bookmark{DocumentID: "doc-1", StartIndex: 20, TextPreview: "earlier"}
		other := &document.Bookmark{DocumentID: "doc-2", StartIndex: 1}
		for _, b := range []*document.Bookmark{late, early, other} {
			require.NoError(t, store.SaveBookmark(ctx, b))
			assert.NotEmpty(t, b.ID)
			assert.False(t, b.CreatedAt.IsZero())
		}

		marks, err := store.ListBookmarks(ctx, "doc-1")
		require.NoError(t, err)
		require.Len(t, marks, 2)
		assert.Equal(t, 20, marks[0].StartIndex)
		assert.Equal(t, "earlier", marks[0].TextPreview)
		assert.Equal(t, 500, marks[1].StartIndex)

		all, err := store.ListBookmarks(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		require.NoError(t, store.DeleteBookmark(ctx, early.ID))
		require.ErrorIs(t, store.DeleteBookmark(ctx, early.ID), document.ErrNotFound)

		marks, err = store.ListBookmarks(ctx, "doc-1")
		require.NoError(t, err)
		assert.Len(t, marks, 1)
	})

	t.Run("delete cascades", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))
		seedDocument(t, store, "doc-1", "/a.txt")
		require.NoError(t, store.SaveProgress(ctx, document.Progress{DocumentID: "doc-1", ScrollTop: 3}))
		require.NoError(t, store.SaveBookmark(ctx, &document.Bookmark{DocumentID: "doc-1", StartIndex: 7}))

		require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

		_, err := store.GetProgress(ctx, "doc-1")
		require.ErrorIs(t, err, document.ErrNotFound)
		marks, err := store.ListBookmarks(ctx, "doc-1")
		require.NoError(t, err)
		assert.Empty(t, marks)
	})

	t.Run("bookmark for unknown document", func(t *testing.T) {
		store := NewDocumentStore(openTestDB(t))

		err := store.SaveBookmark(ctx, &document.Bookmark{DocumentID: "ghost"})
		require.ErrorIs(t, err, document.ErrNotFound)
	})
}
