package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/sitetoc/sitetoc/internal/toc"
)

// EnvPrefix is the prefix of environment variable overrides. Nested keys use
// a double underscore: SITETOC_TOC__TITLE -> toc.title.
const EnvPrefix = "SITETOC_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SITETOC_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// ZeroFields makes a list from the file replace the default list
	// instead of overwriting its leading elements.
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc()),
			WeaklyTypedInput: true,
			ZeroFields:       true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validSlugStyles = map[string]bool{
	toc.SlugBasic:    true,
	toc.SlugTranslit: true,
}

var validLogLevels = map[string]bool{
	LogNone:   true,
	LogNormal: true,
	LogDebug:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.TOC.Scope == "" {
		return fmt.Errorf("toc.scope is required")
	}
	if c.TOC.MinLevel < 1 || c.TOC.MinLevel > 6 || c.TOC.MaxLevel < 1 || c.TOC.MaxLevel > 6 {
		return fmt.Errorf("toc levels must be between 1 and 6, got %d..%d", c.TOC.MinLevel, c.TOC.MaxLevel)
	}
	if c.TOC.MinLevel > c.TOC.MaxLevel {
		return fmt.Errorf("toc.min_level %d exceeds toc.max_level %d", c.TOC.MinLevel, c.TOC.MaxLevel)
	}
	if c.TOC.SidebarID == "" {
		return fmt.Errorf("toc.sidebar_id is required")
	}
	if !validSlugStyles[c.TOC.Slug] {
		return fmt.Errorf("invalid toc.slug %q: must be one of basic, translit", c.TOC.Slug)
	}

	if c.Tracker.ScrollOffset < 0 || c.Tracker.ClickOffset < 0 {
		return fmt.Errorf("tracker offsets must be non-negative")
	}
	if c.Tracker.Delay < 0 || c.Tracker.InitialDelay < 0 {
		return fmt.Errorf("tracker delays must be non-negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of none, normal, debug", c.Log.Level)
	}

	return nil
}
