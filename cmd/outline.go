package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sitetoc/sitetoc/internal/toc"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file.html>",
	Short: "Print the table of contents of an HTML page without changing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		t, err := newBuilder(cfg).Outline(f)
		if err != nil {
			return fmt.Errorf("reading outline of %s: %w", args[0], err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return printOutline(cmd.OutOrStdout(), t, asJSON)
	},
}

func init() {
	outlineCmd.Flags().Bool("json", false, "print the outline as JSON")
	rootCmd.AddCommand(outlineCmd)
}

// printOutline writes one indented line per entry, or the TOC as JSON.
func printOutline(w io.Writer, t *toc.TOC, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}
	if t.Empty() {
		fmt.Fprintln(w, "(no headings)")
		return nil
	}
	fmt.Fprintln(w, t.Title)
	for _, e := range t.Entries {
		depth := e.Level - 2
		if depth < 0 {
			depth = 0
		}
		fmt.Fprintf(w, "%s- %s %s\n", strings.Repeat("  ", depth), e.Text, e.Href())
	}
	return nil
}
