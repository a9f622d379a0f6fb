package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"constellation/internal/config"
	"constellation/internal/diagram"
	"constellation/internal/diagrams"
	"constellation/internal/scanner"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export the diagram of a directory tree as mermaid",
	Long: `Scans the tree once and writes a mermaid rendering of the resulting
diagram, either a mindmap (default) or an explicit graph.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		root := cfg.Root
		if len(args) == 1 {
			root = args[0]
		}

		sc, err := scanner.New(scanner.Config{
			Root:         root,
			Exclude:      cfg.Exclude,
			MaxFileBytes: int64(cfg.MaxFileBytes),
		}, scanner.NewStubSummarizer(time.Now().UnixNano()))
		if err != nil {
			return fmt.Errorf("creating scanner: %w", err)
		}

		d := diagram.New()
		for _, ev := range sc.WalkOnce() {
			d.Apply(ev)
		}

		var out string
		switch exportFormat {
		case "mindmap":
			out = diagrams.Mindmap(d)
		case "graph":
			out = diagrams.TopicGraph(d)
		default:
			return fmt.Errorf("unknown format %q: must be mindmap or graph", exportFormat)
		}

		if exportOut == "" || exportOut == "-" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(out), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", exportOut, err)
		}
		fmt.Printf("Wrote %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "mindmap", "output format: mindmap or graph")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "-", "output file (- for stdout)")
	rootCmd.AddCommand(exportCmd)
}
