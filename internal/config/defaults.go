package config

import (
	"slices"

	"github.com/sitetoc/sitetoc/internal/toc"
	"github.com/sitetoc/sitetoc/internal/tracker"
)

// DefaultExcludes are glob patterns skipped when walking the docs directory.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"**/_*.md",
	"**/drafts/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	opts := toc.DefaultOptions()
	tr := tracker.DefaultOptions()
	return &Config{
		ProjectName: "Documentation",
		DocsDir:     "docs",
		OutputDir:   "site",
		Include:     []string{"**/*.md"},
		Exclude:     slices.Clone(DefaultExcludes),
		TOC: TOCConfig{
			Scope:     opts.Scope,
			MinLevel:  opts.MinLevel,
			MaxLevel:  opts.MaxLevel,
			SidebarID: opts.SidebarID,
			Title:     opts.Title,
			Slug:      toc.SlugBasic,
		},
		Tracker: TrackerConfig{
			ScrollOffset: tr.ScrollOffset,
			ClickOffset:  tr.ClickOffset,
			Delay:        tr.Delay,
			InitialDelay: tr.InitialDelay,
		},
		Server: ServerConfig{
			Port:     8080,
			Database: ".sitetoc/outline.db",
		},
		Log: LogConfig{
			Level: LogNormal,
		},
	}
}

// BuilderOptions converts the TOC section into builder options.
func (c TOCConfig) BuilderOptions() toc.Options {
	opts := toc.DefaultOptions()
	opts.Scope = c.Scope
	opts.MinLevel = c.MinLevel
	opts.MaxLevel = c.MaxLevel
	opts.SidebarID = c.SidebarID
	opts.Title = c.Title
	opts.Slugger = toc.SluggerFor(c.Slug)
	return opts
}

// Options converts the tracker section into tracker options.
func (c TrackerConfig) Options() tracker.Options {
	return tracker.Options{
		ScrollOffset: c.ScrollOffset,
		ClickOffset:  c.ClickOffset,
		Delay:        c.Delay,
		InitialDelay: c.InitialDelay,
	}
}
