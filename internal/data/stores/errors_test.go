package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lector/internal/data/db"
)

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	for _, suffix := range []string{"", "-wal", "-shm"} {
		require.NoError(t, os.WriteFile(dbPath+suffix, []byte("garbage"), 0o644))
	}

	backup, err := RecoverFromCorruption(dir)
	require.NoError(t, err)

	for _, suffix := range []string{"", "-wal", "-shm"} {
		assert.NoFileExists(t, dbPath+suffix)
		assert.FileExists(t, backup+suffix)
	}
}

func TestRecoverFromCorruption_NothingToMove(t *testing.T) {
	backup, err := RecoverFromCorruption(t.TempDir())

	require.NoError(t, err)
	assert.NoFileExists(t, backup)
}

func TestOpenWithRecovery_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	garbage := make([]byte, 4096)
	for i := range garbage {
		garbage[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, db.FileName), garbage, 0o644))

	database, backup, err := OpenWithRecovery(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	assert.NotEmpty(t, backup)
	assert.FileExists(t, backup)
}

func TestOpenWithRecovery_Healthy(t *testing.T) {
	database, backup, err := OpenWithRecovery(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	assert.Empty(t, backup)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsNotFoundError(fmt.Errorf("wrap: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(errors.New("other")))

	assert.True(t, IsCorruptionError(errors.New("file is not a database (26)")))
	assert.False(t, IsCorruptionError(nil))
	assert.False(t, IsBusyError(errors.New("busy")))
}
