package cmd

import (
	"github.com/spf13/cobra"

	"constellation/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure constellation for your project and generates a .constellation.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
