package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("MaxResults = %d, want 5", cfg.Search.MaxResults)
	}
	if cfg.Search.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", cfg.Search.Workers)
	}
	if len(cfg.Corpus.Extensions) != 1 || cfg.Corpus.Extensions[0] != ".txt" {
		t.Errorf("Extensions = %v, want [.txt]", cfg.Corpus.Extensions)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := `
corpus:
  archive: corpus.zip
  dir: docs
search:
  maxResults: 3
  workers: 2
  taskTimeout: 2s
redis:
  enabled: true
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PS_CORPUS_DIR", "override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Corpus.Archive != "corpus.zip" {
		t.Errorf("Archive = %q", cfg.Corpus.Archive)
	}
	if cfg.Corpus.Dir != "override" {
		t.Errorf("Dir = %q, want env override", cfg.Corpus.Dir)
	}
	if cfg.Search.MaxResults != 3 || cfg.Search.Workers != 2 {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Search.TaskTimeout != 2*time.Second {
		t.Errorf("TaskTimeout = %v", cfg.Search.TaskTimeout)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis.Enabled = false, want true")
	}
	if cfg.Index.StorePath == "" {
		t.Error("StorePath default lost after YAML merge")
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PS_SEARCH_MAX_RESULTS", "0")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for maxResults=0")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
