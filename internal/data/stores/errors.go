package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/lector/internal/data/db"
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsCorruptionError returns true if the error indicates database corruption.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isForeignKeyError returns true if the error is a foreign key violation.
func isForeignKeyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// RecoverFromCorruption moves a corrupted database aside, together with its
// WAL and SHM files, so the next Open starts from an empty schema. The
// backups are named "<db>.corrupt.<timestamp>[-wal|-shm]".
func RecoverFromCorruption(dataDir string) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := dbPath + ".corrupt." + time.Now().Format("20060102-150405")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := dbPath + suffix
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		if err := os.Rename(src, backupPath+suffix); err != nil {
			// SQLite must not find orphaned WAL/SHM files next to a fresh database.
			if rmErr := os.Remove(src); rmErr != nil {
				return "", fmt.Errorf("move aside %s: %w", filepath.Base(src), err)
			}
		}
	}

	return backupPath, nil
}

// OpenWithRecovery opens the database and, when the file is corrupted, moves
// it aside and opens a fresh one. The returned path is the backup location, or
// empty when no recovery was needed.
func OpenWithRecovery(dataDir string, opts db.OpenOptions) (*db.DB, string, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil {
		return database, "", nil
	}
	if !IsCorruptionError(err) {
		return nil, "", err
	}

	backup, recErr := RecoverFromCorruption(dataDir)
	if recErr != nil {
		return nil, "", fmt.Errorf("recover from corruption: %w (original: %v)", recErr, err)
	}

	database, err = db.Open(dataDir, opts)
	if err != nil {
		return nil, backup, err
	}
	return database, backup, nil
}
