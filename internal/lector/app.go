// Package lector wires the stores, the write queue and the library service
// that the CLI commands and the reader share.
package lector

import (
	"github.com/colonyops/lector/internal/core/config"
	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/data/db"
	"github.com/colonyops/lector/internal/data/stores"
)

// App is the central entry point for all lector operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Library    *Library
	Documents  document.Store
	Vocabulary *stores.VocabularyStore

	Config *config.Config
	DB     *db.DB
}

// NewApp constructs an App over an open database.
func NewApp(cfg *config.Config, database *db.DB) *App {
	docs := stores.NewDocumentStore(database)
	return &App{
		Library:    NewLibrary(docs),
		Documents:  docs,
		Vocabulary: stores.NewVocabularyStore(database),
		Config:     cfg,
		DB:         database,
	}
}
