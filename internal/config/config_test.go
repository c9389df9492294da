package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dotpipe.yaml")
	content := []byte("listen: \":9090\"\npage: pages/home.json\nredis:\n  address: localhost:6379\n  ttl_seconds: 60\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Page != "pages/home.json" {
		t.Errorf("page = %q", cfg.Page)
	}
	if cfg.Redis.Address != "localhost:6379" || cfg.Redis.TTLSeconds != 60 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dotpipe.json")
	if err := os.WriteFile(path, []byte(`{"listen": ":7070"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("listen = %q", cfg.Listen)
	}
}

func TestLoad_MissingDefaultIsFine(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("expected default listen, got %q", cfg.Listen)
	}
}

func TestLoad_MissingExplicitFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}
