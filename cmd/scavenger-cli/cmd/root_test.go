package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears Viper's global state between tests, since loadGlobalConfig
// reads and writes through the package-level viper singleton.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	workersFlag = -1
	savePathFlag = ""
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("savepath", rootCmd.PersistentFlags().Lookup("save-path"))
	t.Cleanup(func() {
		viper.Reset()
		cfgFile = ""
		workersFlag = -1
		savePathFlag = ""
	})
}

func TestLoadGlobalConfigMissingFileUsesDefaults(t *testing.T) {
	resetViper(t)
	cfgFile = filepath.Join(t.TempDir(), "does-not-exist.toml")

	if err := loadGlobalConfig(rootCmd, nil); err != nil {
		t.Fatalf("loadGlobalConfig: %v", err)
	}
	if globalConfig.Workers != 2 {
		t.Errorf("Workers = %d, want default 2", globalConfig.Workers)
	}
	if globalConfig.GalleryBaseURL == "" {
		t.Error("expected a default gallery base URL")
	}
}

func TestLoadGlobalConfigFileOverridesDefaults(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
gallerybaseurl = "https://internal.example/gallery"
workers = 9
savepath = "/tmp/scavenger-out"
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	cfgFile = path

	if err := loadGlobalConfig(rootCmd, nil); err != nil {
		t.Fatalf("loadGlobalConfig: %v", err)
	}
	if globalConfig.GalleryBaseURL != "https://internal.example/gallery" {
		t.Errorf("GalleryBaseURL = %q, want override", globalConfig.GalleryBaseURL)
	}
	if globalConfig.Workers != 9 {
		t.Errorf("Workers = %d, want 9", globalConfig.Workers)
	}
	if globalConfig.SavePath != "/tmp/scavenger-out" {
		t.Errorf("SavePath = %q, want override", globalConfig.SavePath)
	}
	// Untouched defaults must survive alongside the overrides.
	if globalConfig.OCRLanguages != "eng" {
		t.Errorf("OCRLanguages = %q, want default %q", globalConfig.OCRLanguages, "eng")
	}
}

func TestLoadGlobalConfigFlagOverridesFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`workers = 3`), 0644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	cfgFile = path

	rootCmd.PersistentFlags().Set("workers", "7")
	defer rootCmd.PersistentFlags().Set("workers", "-1")

	if err := loadGlobalConfig(rootCmd, nil); err != nil {
		t.Fatalf("loadGlobalConfig: %v", err)
	}
	if globalConfig.Workers != 7 {
		t.Errorf("Workers = %d, want the flag override 7, not the file's 3", globalConfig.Workers)
	}
}
