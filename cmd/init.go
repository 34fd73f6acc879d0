package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitetoc/sitetoc/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sitetoc configuration file",
	Long:  `Writes a .sitetoc.yml with default settings, or runs an interactive wizard with --interactive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(cfgFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}

		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
			_, err := config.RunWizard(cfgFile)
			return err
		}

		if err := config.DefaultConfig().Save(cfgFile); err != nil {
			return err
		}
		fmt.Printf("Configuration saved to %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolP("interactive", "i", false, "run the interactive configuration wizard")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
