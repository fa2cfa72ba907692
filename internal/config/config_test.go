package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Addr: ":8080"},
		HTTP:   HTTPConfig{Timeout: 30 * time.Second},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := []byte("girder:\n  url: https://girder.example.org/api/v1/\n  rest_path: slicer_cli_web/abc/Task\nhttp:\n  timeout: 5s\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SLICERFORM_GIRDER_TOKEN", "from-env")
	t.Setenv("SLICERFORM_LOG_LEVEL", "warn")

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Girder.URL != "https://girder.example.org/api/v1" {
		t.Errorf("unexpected url %q", cfg.Girder.URL)
	}
	if cfg.Girder.Token != "from-env" || cfg.Log.Level != "warn" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.HTTP.Timeout != 5*time.Second || cfg.Girder.RestPath != "slicer_cli_web/abc/Task" {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}
