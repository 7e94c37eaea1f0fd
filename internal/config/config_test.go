package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescope/pkg/models"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("SALESCOPE_CONFIG", "")
	return tempDir
}

func TestGetConfigPath(t *testing.T) {
	home := useTempHome(t)
	assert.Equal(t, filepath.Join(home, ".salescope"), GetConfigPath())
}

func TestGetConfigFile(t *testing.T) {
	home := useTempHome(t)
	assert.Equal(t, filepath.Join(home, ".salescope", "config.yaml"), GetConfigFile())
}

func TestGetConfigFileEnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	override := filepath.Join(tempDir, "custom.yaml")
	t.Setenv("SALESCOPE_CONFIG", override)

	assert.Equal(t, override, GetConfigFile())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useTempHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, models.Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	useTempHome(t)

	testConfig := models.Default()
	testConfig.Database.Path = "custom.db"
	testConfig.Generate.Customers = 500
	testConfig.Generate.OutputDir = "/tmp/exports"
	testConfig.Forecast.Months = 6

	require.NoError(t, Save(testConfig))
	assert.True(t, Exists())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "custom.db", loaded.Database.Path)
	assert.Equal(t, 500, loaded.Generate.Customers)
	assert.Equal(t, "/tmp/exports", loaded.Generate.OutputDir)
	assert.Equal(t, 6, loaded.Forecast.Months)
}

func TestLoadBackfillsSparseConfig(t *testing.T) {
	home := useTempHome(t)

	configDir := filepath.Join(home, ".salescope")
	require.NoError(t, os.MkdirAll(configDir, 0700))

	sparse := "database:\n  path: only.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(sparse), 0600))

	cfg, err := Load()
	require.NoError(t, err)

	def := models.Default()
	assert.Equal(t, "only.db", cfg.Database.Path)
	assert.Equal(t, def.Database.BusyTimeout, cfg.Database.BusyTimeout)
	assert.Equal(t, def.Generate.Customers, cfg.Generate.Customers)
	assert.Equal(t, def.Generate.StartDate, cfg.Generate.StartDate)
	assert.Equal(t, def.Forecast.Months, cfg.Forecast.Months)
	assert.Equal(t, def.Forecast.ChartFile, cfg.Forecast.ChartFile)
}

func TestLoadInvalidYAML(t *testing.T) {
	home := useTempHome(t)

	configDir := filepath.Join(home, ".salescope")
	require.NoError(t, os.MkdirAll(configDir, 0700))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.yaml"), []byte("{not yaml: ["), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	useTempHome(t)
	assert.False(t, Exists())

	require.NoError(t, Save(models.Default()))
	assert.True(t, Exists())
}
