package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/lector/internal/core/annotation"
	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/data/db"
)

var (
	// ErrEmptyTerm is returned when a term normalizes to nothing.
	ErrEmptyTerm = errors.New("term is empty after normalization")
	// ErrTermNotFound is document.ErrNotFound, returned by Remove.
	ErrTermNotFound = document.ErrNotFound
)

// Term is a stored vocabulary entry.
type Term struct {
	Term      string    `json:"term"`    // normalized form used for matching
	Display   string    `json:"display"` // text as the user entered it
	CreatedAt time.Time `json:"created_at"`
}

// VocabularyStore implements annotation.Source using SQLite.
type VocabularyStore struct {
	db *db.DB
}

var _ annotation.Source = (*VocabularyStore)(nil)

// NewVocabularyStore creates a new SQLite-backed vocabulary store.
func NewVocabularyStore(db *db.DB) *VocabularyStore {
	return &VocabularyStore{db: db}
}

// Terms returns every normalized term in alphabetical order.
func (s *VocabularyStore) Terms(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `SELECT term FROM vocabulary ORDER BY term`)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	terms := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("list terms: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// AddTerm normalizes and stores a term. Adding an existing term keeps the
// original entry.
func (s *VocabularyStore) AddTerm(ctx context.Context, term string) error {
	n := annotation.Normalize(term)
	if n == "" {
		return ErrEmptyTerm
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO vocabulary (term, display, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (term) DO NOTHING`,
		n, term, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("add term %q: %w", n, err)
	}
	return nil
}

// List returns all entries with their display form, oldest first.
func (s *VocabularyStore) List(ctx context.Context) ([]Term, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT term, display, created_at FROM vocabulary ORDER BY created_at, term`)
	if err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]Term, 0)
	for rows.Next() {
		var (
			t  Term
			ts int64
		)
		if err := rows.Scan(&t.Term, &t.Display, &ts); err != nil {
			return nil, fmt.Errorf("list vocabulary: %w", err)
		}
		t.CreatedAt = time.Unix(0, ts)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Remove deletes a term given in any form that normalizes to it.
func (s *VocabularyStore) Remove(ctx context.Context, term string) error {
	n := annotation.Normalize(term)
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM vocabulary WHERE term = ?`, n)
	if err != nil {
		return fmt.Errorf("remove term %q: %w", n, err)
	}
	return requireAffected(res, n)
}
