package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sitetoc",
	Short: "In-page tables of contents and section tracking for documentation sites",
	Long: `sitetoc builds a table of contents for every documentation page from
its h2-h6 headings, assigns anchors to headings that lack them, and injects
the TOC into the page's sidebar. While serving a site it tracks the section
each reader is looking at and highlights it in the TOC.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".sitetoc.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
