package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func hasField(errs criterio.FieldErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_UnknownTheme(t *testing.T) {
	cfg := validConfig(t)
	cfg.Theme = "neon-sunrise"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "theme"), "expected error about theme")
	assert.Contains(t, err.Error(), "unknown theme")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(cfg.DataDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "data_dir"), "expected error about data dir")
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "config_file"), "expected error about config file being a directory")
}

func TestValidateDeep_MissingConfigFileIsFine(t *testing.T) {
	cfg := validConfig(t)

	assert.NoError(t, cfg.ValidateDeep(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestValidateDeep_Limits(t *testing.T) {
	cfg := validConfig(t)
	cfg.Reader.WrapWidth = 5000
	cfg.Database.MaxIdleConns = 10

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "reader.wrap_width"))
	assert.True(t, hasField(fieldErrs, "database.max_idle_conns"))
}

func TestValidateDeep_RunsBasicValidationFirst(t *testing.T) {
	cfg := validConfig(t)
	cfg.Queue.Size = 0

	err := cfg.ValidateDeep("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue.size")
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Reader.SaveDelay = 10 * time.Millisecond
	cfg.DeepLink.Attempts = 500

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "save_delay", warnings[0].Item)
	assert.Equal(t, "attempts", warnings[1].Item)
}
