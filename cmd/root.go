package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "constellation",
	Short: "Live radial diagram of a directory tree",
	Long: `Constellation watches a directory tree and maintains a live radial
node-link diagram of it: directories become topics around a central
root, files become detail nodes fanning out from their topic. The
diagram is served over HTTP with a WebSocket feed of animated frames,
and individual files can be explained by a streaming LLM.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".constellation.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
