package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sitetoc/sitetoc/internal/config"
	"github.com/sitetoc/sitetoc/internal/db"
	"github.com/sitetoc/sitetoc/internal/toc"
)

// loadConfig loads and validates the config, providing a user-friendly error.
// --verbose raises the log level to debug.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `sitetoc init` to create a config file", err)
	}
	if verbose {
		cfg.Log.Level = config.LogDebug
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setup loads the config and prepares the logger every command shares.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := cfg.Log.Prepare()
	if err != nil {
		return nil, nil, fmt.Errorf("preparing logger: %w", err)
	}
	return cfg, log, nil
}

func newBuilder(cfg *config.Config) *toc.Builder {
	return toc.NewBuilder(cfg.TOC.BuilderOptions())
}

// openStore opens the outline database named in the config.
func openStore(cfg *config.Config) (*db.DB, error) {
	store, err := db.Open(cfg.Server.Database)
	if err != nil {
		return nil, fmt.Errorf("opening outline store %s: %w", cfg.Server.Database, err)
	}
	return store, nil
}
