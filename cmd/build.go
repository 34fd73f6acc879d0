package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sitetoc/sitetoc/internal/progress"
	"github.com/sitetoc/sitetoc/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the documentation site with tables of contents",
	Long: `Renders every markdown page of the docs directory to HTML, injects a table
of contents into each page's sidebar, copies standalone HTML pages (which get
a TOC as well) and records every page outline in the outline store.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("docs", "", "override the markdown source directory")
	buildCmd.Flags().String("output", "", "override the output directory")
	buildCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	buildCmd.Flags().Int("port", 0, "port for the local server (defaults to server.port)")
	buildCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if docs, _ := cmd.Flags().GetString("docs"); docs != "" {
		cfg.DocsDir = docs
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.OutputDir = output
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	generator := site.NewSiteGenerator(cfg.DocsDir, cfg.OutputDir, cfg.ProjectName, newBuilder(cfg))
	generator.Include = cfg.Include
	generator.Exclude = cfg.Exclude
	generator.Tracker = cfg.Tracker.Options()
	generator.Store = store
	generator.Log = log.Named("site")
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		generator.Reporter = progress.NewReporter("Building pages")
	}

	pageCount, err := generator.Generate(cmd.Context())
	if err != nil {
		if pageCount == 0 {
			return fmt.Errorf("generating site: %w", err)
		}
		log.Warn("Some pages failed", zap.Error(err))
	}

	fmt.Printf("Static site generated: %s (%d pages)\n", cfg.OutputDir, pageCount)

	if serve, _ := cmd.Flags().GetBool("serve"); serve {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		return serveSite(cmd.Context(), cfg, store, log)
	}
	return nil
}
