package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"constellation/internal/config"
	"constellation/internal/diagram"
	"constellation/internal/progress"
	"constellation/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Walk a directory tree once and print what the diagram would show",
	Long: `Performs a single scan pass without starting the server, listing
every topic and detail the live diagram would contain. Useful for
checking exclude patterns before serving.`,
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

		events := sc.WalkOnce()

		reporter := progress.NewReporter()
		reporter.Start(len(events))
		d := diagram.New()
		for i, ev := range events {
			d.Apply(ev)
			reporter.Update(i+1, ev.Label)
		}
		reporter.Finish()

		for _, topic := range d.TopicOrder {
			fmt.Printf("%s\n", topic)
			for _, id := range d.Details[topic] {
				n := d.Node(id)
				fmt.Printf("  %s\n", n.Label)
			}
		}
		fmt.Printf("\n%d topics, %d nodes\n", d.TopicCount(), len(d.Nodes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
