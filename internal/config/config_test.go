package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty title", func(c *Config) { c.Window.Title = " " }},
		{"tiny window", func(c *Config) { c.Window.Width = 100 }},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"filter", func(c *Config) { c.Dialogs.FileFilter = "Markdown" }},
		{"bridge addr", func(c *Config) { c.Bridge.Addr = "localhost" }},
		{"history", func(c *Config) { c.Bridge.History = -1 }},
		{"code style", func(c *Config) { c.Notes.CodeStyle = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnsureCreatesThenLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "presentation.json")

	cfg, created, err := Ensure(path)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected a new config file")
	}
	if cfg.UI.Theme != "dark" {
		t.Fatalf("unexpected theme %q", cfg.UI.Theme)
	}

	cfg.UI.Theme = "light"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	again, created, err := Ensure(path)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("existing config reported as created")
	}
	if again.UI.Theme != "light" {
		t.Fatalf("saved theme not loaded: %q", again.UI.Theme)
	}
}

func TestLoadKeepsDefaultsAndStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"ui":{"theme":"light"}}`)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.Theme != "light" {
		t.Fatalf("theme = %q", cfg.UI.Theme)
	}
	if cfg.Window.Width != Default().Window.Width {
		t.Fatal("missing fields should keep defaults")
	}
}

func TestDialogOptionsResolveStartDir(t *testing.T) {
	cfg := Default()
	if n := len(cfg.DialogOptions("/base")); n != 1 {
		t.Fatalf("expected titles option only, got %d options", n)
	}
	cfg.Dialogs.StartDir = "docs"
	if n := len(cfg.DialogOptions("/base")); n != 2 {
		t.Fatalf("expected titles and start dir options, got %d", n)
	}
}
