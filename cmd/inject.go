package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var injectCmd = &cobra.Command{
	Use:   "inject <file.html>...",
	Short: "Add a table of contents to existing HTML pages in place",
	Long: `Collects the headings inside each page's content area, assigns anchors to
headings without an id and appends the TOC to the sidebar element. Pages
without headings or without a sidebar are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		builder := newBuilder(cfg)
		var errs error
		for _, path := range args {
			t, err := builder.ProcessFile(path)
			if err != nil {
				log.Error("Inject failed", zap.String("file", path), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			fmt.Printf("%s: %d entries\n", path, len(t.Entries))
		}
		return errs
	},
}

func init() {
	rootCmd.AddCommand(injectCmd)
}
