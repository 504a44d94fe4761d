package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `log_level = "debug"
log_file = "/tmp/out.log"
debug_ast = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.LogFile != "/tmp/out.log" {
		t.Errorf("unexpected log file %s", cfg.LogFile)
	}
	if !cfg.DebugAST {
		t.Error("expected debug_ast to be true")
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected the default log level, got %s", cfg.LogLevel)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected an error")
	}
}
