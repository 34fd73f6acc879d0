package config

import "time"

// Log levels accepted by LogConfig.Level.
const (
	LogNone   = "none"
	LogNormal = "normal"
	LogDebug  = "debug"
)

// Config is the top-level sitetoc configuration, corresponding to .sitetoc.yml.
type Config struct {
	ProjectName string        `yaml:"project_name" koanf:"project_name"`
	DocsDir     string        `yaml:"docs_dir" koanf:"docs_dir"`
	OutputDir   string        `yaml:"output_dir" koanf:"output_dir"`
	Include     []string      `yaml:"include" koanf:"include"`
	Exclude     []string      `yaml:"exclude" koanf:"exclude"`
	TOC         TOCConfig     `yaml:"toc" koanf:"toc"`
	Tracker     TrackerConfig `yaml:"tracker" koanf:"tracker"`
	Server      ServerConfig  `yaml:"server" koanf:"server"`
	Log         LogConfig     `yaml:"log" koanf:"log"`
}

// TOCConfig controls heading collection and the rendered TOC block.
type TOCConfig struct {
	Scope     string `yaml:"scope" koanf:"scope"`
	MinLevel  int    `yaml:"min_level" koanf:"min_level"`
	MaxLevel  int    `yaml:"max_level" koanf:"max_level"`
	SidebarID string `yaml:"sidebar_id" koanf:"sidebar_id"`
	Title     string `yaml:"title" koanf:"title"`
	Slug      string `yaml:"slug" koanf:"slug"`
}

// TrackerConfig holds the scroll tracker's offsets (in CSS pixels) and delays.
type TrackerConfig struct {
	ScrollOffset float64       `yaml:"scroll_offset" koanf:"scroll_offset"`
	ClickOffset  float64       `yaml:"click_offset" koanf:"click_offset"`
	Delay        time.Duration `yaml:"delay" koanf:"delay"`
	InitialDelay time.Duration `yaml:"initial_delay" koanf:"initial_delay"`
}

// ServerConfig holds settings for `sitetoc serve`.
type ServerConfig struct {
	Port            int    `yaml:"port" koanf:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Database        string `yaml:"database" koanf:"database"`
}

// LogConfig selects the console log level and an optional log file.
type LogConfig struct {
	Level       string `yaml:"level" koanf:"level"`
	Destination string `yaml:"destination,omitempty" koanf:"destination"`
}
