package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, 8, cfg.LowWaterMark)
	require.Equal(t, 4, cfg.BatchSize)
	require.True(t, cfg.OCREnabled)
	require.True(t, cfg.HuntingEnabled)
	require.True(t, cfg.Dedupe)
	require.NotEmpty(t, cfg.SavePath)
	require.NotEmpty(t, cfg.CSVPath)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
workers = 9
ocrenabled = false
savepath = "/tmp/scavenger-results"

[[flaggers]]
kind = "keyword"
name = "credential-leak"
params = { keywords = "password,secret" }
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9, cfg.Workers)
	require.False(t, cfg.OCREnabled)
	require.Equal(t, "/tmp/scavenger-results", cfg.SavePath)
	require.Len(t, cfg.Flaggers, 1)
	require.Equal(t, "keyword", cfg.Flaggers[0].Kind)
	require.Equal(t, "password,secret", cfg.Flaggers[0].Params["keywords"])

	// Fields untouched by the file should still carry their default values.
	require.Equal(t, Defaults().BatchSize, cfg.BatchSize)
}
