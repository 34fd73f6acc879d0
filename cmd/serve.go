package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sitetoc/sitetoc/internal/config"
	"github.com/sitetoc/sitetoc/internal/db"
	"github.com/sitetoc/sitetoc/internal/server"
	"github.com/sitetoc/sitetoc/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a built site with live section tracking",
	Long: `Serves the output directory over HTTP together with the outline API and the
/ws/track websocket that keeps each reader's TOC highlight in step with their
scroll position.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		if _, err := os.Stat(cfg.OutputDir); os.IsNotExist(err) {
			return fmt.Errorf("site directory not found at %s\nRun `sitetoc build` first", cfg.OutputDir)
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		return serveSite(cmd.Context(), cfg, store, log)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}

// serveSite runs the HTTP server until interrupted.
func serveSite(ctx context.Context, cfg *config.Config, store *db.DB, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.New(store, cfg.Tracker.Options(), log)
	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		SiteDir:  cfg.OutputDir,
		AllowAll: cfg.Server.AllowAllOrigins,
	}, store, sessions, log)

	fmt.Printf("Serving %s at http://localhost:%d (press Ctrl+C to stop)\n", cfg.OutputDir, cfg.Server.Port)
	if err := srv.Run(ctx, 5*time.Second); err != nil {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
