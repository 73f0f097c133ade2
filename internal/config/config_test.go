package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutEnvFile(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 100, cfg.Search.DefaultMaxRows)
	assert.Equal(t, 1023, cfg.Search.ScanLimit)
	assert.Equal(t, 16, cfg.Search.MaxCells)
	assert.Equal(t, "truncate", cfg.Search.CellOverflow)
	assert.Equal(t, 100, cfg.Reindex.PageSize)
	assert.False(t, cfg.Index.IncludeLeafToken)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SEARCH_CELL_OVERFLOW", "fail")
	t.Setenv("REINDEX_PAGE_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "fail", cfg.Search.CellOverflow)
	assert.Equal(t, 25, cfg.Reindex.PageSize)
}

func TestLoad_RejectsUnknownOverflowPolicy(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())
	t.Setenv("SEARCH_CELL_OVERFLOW", "drop")

	_, err := Load()
	assert.Error(t, err)
}

// chdir is equivalent to testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
