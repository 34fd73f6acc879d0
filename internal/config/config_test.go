package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/sitetoc/sitetoc/internal/toc"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TOC.SidebarID != "toc-sidebar" {
		t.Errorf("expected default sidebar id %q, got %q", "toc-sidebar", cfg.TOC.SidebarID)
	}
	if cfg.TOC.MinLevel != 2 || cfg.TOC.MaxLevel != 6 {
		t.Errorf("expected default levels 2..6, got %d..%d", cfg.TOC.MinLevel, cfg.TOC.MaxLevel)
	}
	if cfg.Tracker.ScrollOffset != 150 || cfg.Tracker.ClickOffset != 100 {
		t.Errorf("unexpected tracker offsets: %+v", cfg.Tracker)
	}
	if cfg.Tracker.Delay != 100*time.Millisecond {
		t.Errorf("expected default delay 100ms, got %v", cfg.Tracker.Delay)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.sitetoc.yml")

	original := DefaultConfig()
	original.ProjectName = "Handbook"
	original.TOC.Title = "Contents"
	original.TOC.MaxLevel = 4
	original.TOC.Slug = toc.SlugTranslit
	original.Tracker.Delay = 250 * time.Millisecond
	original.Include = []string{"guide/**/*.md", "*.md"}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ProjectName != original.ProjectName {
		t.Errorf("project_name: got %q, want %q", loaded.ProjectName, original.ProjectName)
	}
	if loaded.TOC.Title != original.TOC.Title {
		t.Errorf("toc.title: got %q, want %q", loaded.TOC.Title, original.TOC.Title)
	}
	if loaded.TOC.MaxLevel != 4 {
		t.Errorf("toc.max_level: got %d, want 4", loaded.TOC.MaxLevel)
	}
	if loaded.TOC.Slug != toc.SlugTranslit {
		t.Errorf("toc.slug: got %q, want %q", loaded.TOC.Slug, toc.SlugTranslit)
	}
	if loaded.Tracker.Delay != 250*time.Millisecond {
		t.Errorf("tracker.delay: got %v, want 250ms", loaded.Tracker.Delay)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Errorf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.TOC.Scope != "main" {
		t.Errorf("expected default scope, got %q", cfg.TOC.Scope)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("SITETOC_TOC__TITLE", "On this page")
	t.Setenv("SITETOC_OUTPUT_DIR", "public")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.TOC.Title != "On this page" {
		t.Errorf("env override failed: got %q", loaded.TOC.Title)
	}
	if loaded.OutputDir != "public" {
		t.Errorf("env override failed: got %q", loaded.OutputDir)
	}
}

func TestLoadKeepsDefaultExcludes(t *testing.T) {
	want := slices.Clone(DefaultExcludes)

	path := filepath.Join(t.TempDir(), "exclude.yml")
	if err := os.WriteFile(path, []byte("exclude:\n  - vendor/**\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !slices.Equal(loaded.Exclude, []string{"vendor/**"}) {
		t.Errorf("exclude = %v, want the file's list only", loaded.Exclude)
	}

	if !slices.Equal(DefaultExcludes, want) {
		t.Errorf("DefaultExcludes changed by Load: %v, want %v", DefaultExcludes, want)
	}
	if got := DefaultConfig().Exclude; !slices.Equal(got, want) {
		t.Errorf("DefaultConfig().Exclude = %v, want %v", got, want)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("toc: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty docs dir", func(c *Config) { c.DocsDir = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"empty scope", func(c *Config) { c.TOC.Scope = "" }},
		{"level out of range", func(c *Config) { c.TOC.MaxLevel = 7 }},
		{"min above max", func(c *Config) { c.TOC.MinLevel = 5; c.TOC.MaxLevel = 3 }},
		{"empty sidebar", func(c *Config) { c.TOC.SidebarID = "" }},
		{"unknown slug", func(c *Config) { c.TOC.Slug = "emoji" }},
		{"negative offset", func(c *Config) { c.Tracker.ScrollOffset = -1 }},
		{"negative delay", func(c *Config) { c.Tracker.Delay = -time.Second }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig should be valid, got: %v", err)
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestBuilderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TOC.Scope = "article"
	cfg.TOC.Slug = toc.SlugBasic
	opts := cfg.TOC.BuilderOptions()
	if opts.Scope != "article" {
		t.Errorf("scope = %q, want article", opts.Scope)
	}
	if got := opts.Slugger("FAQ & Tips!"); got != "faq-tips" {
		t.Errorf("slugger produced %q", got)
	}

	tr := cfg.Tracker.Options()
	if tr.ScrollOffset != cfg.Tracker.ScrollOffset || tr.InitialDelay != cfg.Tracker.InitialDelay {
		t.Errorf("tracker options mismatch: %+v", tr)
	}
}

func TestLoggerPrepare(t *testing.T) {
	logger, err := LogConfig{Level: LogNone}.Prepare()
	if err != nil {
		t.Fatalf("Prepare(none): %v", err)
	}
	logger.Info("discarded")

	dest := filepath.Join(t.TempDir(), "sitetoc.log")
	logger, err = LogConfig{Level: LogDebug, Destination: dest}.Prepare()
	if err != nil {
		t.Fatalf("Prepare(debug): %v", err)
	}
	logger.Debug("written to file")
	_ = logger.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}

	if _, err := (LogConfig{Level: "loud"}).Prepare(); err == nil {
		t.Error("expected error for unknown level")
	}
}
