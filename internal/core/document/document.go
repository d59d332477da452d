// Package document defines the reader's persisted entities and the store
// interface the reader saves through.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
)

// Document is an imported plain-text document.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Path        string    `json:"path"`
	ContentHash string    `json:"content_hash"` // SHA256 hash of the content at import
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TitleFromPath derives a display title from a file name.
// "/books/war_and-peace.txt" -> "war and peace"
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.TrimSpace(base)
}

// Progress is the saved reading position of a document.
type Progress struct {
	DocumentID string    `json:"document_id"`
	ScrollTop  int       `json:"scroll_top"`
	Percent    int       `json:"percent"`
	CharIndex  int       `json:"char_index"` // first visible character, survives wrap changes
	Timestamp  time.Time `json:"timestamp"`
}

// Bookmark marks a character offset in a document.
type Bookmark struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	StartIndex  int       `json:"start_index"`
	TextPreview string    `json:"text_preview"`
	CreatedAt   time.Time `json:"created_at"`
}

// HashContent returns the hex SHA256 of content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
