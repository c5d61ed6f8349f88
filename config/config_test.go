package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5123" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.UploadedBy != "Current User" {
		t.Errorf("UploadedBy = %q", cfg.API.UploadedBy)
	}
	if cfg.Upload.PollIntervalSeconds != 2 || cfg.Upload.MaxRetries != 3 {
		t.Errorf("Upload = %+v", cfg.Upload)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.API.BaseURL = "https://qadesk.example.com"
	cfg.API.Token = "tok"
	cfg.Upload.PollIntervalSeconds = 5
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.API.BaseURL != "https://qadesk.example.com" || loaded.API.Token != "tok" {
		t.Errorf("API = %+v", loaded.API)
	}
	if loaded.Upload.PollIntervalSeconds != 5 {
		t.Errorf("PollIntervalSeconds = %d", loaded.Upload.PollIntervalSeconds)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".qadesk")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	partial := "api:\n  base_url: https://only-this.example.com\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://only-this.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Upload.PollIntervalSeconds != 2 {
		t.Errorf("PollIntervalSeconds = %d, defaults must survive a partial file", cfg.Upload.PollIntervalSeconds)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".qadesk")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg == nil || cfg.API.BaseURL != "http://localhost:5123" {
		t.Fatalf("cfg = %+v, defaults must come back alongside the error", cfg)
	}
}
