package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"constellation/internal/config"
	"constellation/internal/engine"
	"constellation/internal/explain"
	"constellation/internal/llm"
	"constellation/internal/scanner"
	"constellation/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Scan a directory tree and serve its live diagram",
	Long: `Starts the continuous scanner, the diagram engine, and the HTTP
server. The diagram is available as JSON at /api/diagram, as mermaid at
/api/diagram/mermaid, and as a live WebSocket feed at /ws.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		interval, err := cfg.ScanIntervalDuration()
		if err != nil {
			return fmt.Errorf("invalid scan_interval: %w", err)
		}

		sc, err := scanner.New(scanner.Config{
			Root:         cfg.Root,
			Exclude:      cfg.Exclude,
			Interval:     interval,
			MaxFileBytes: int64(cfg.MaxFileBytes),
		}, scanner.NewStubSummarizer(time.Now().UnixNano()))
		if err != nil {
			return fmt.Errorf("creating scanner: %w", err)
		}

		provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}
		if cfg.RateLimitRPM > 0 {
			provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
		}
		mgr := explain.NewManager(provider, cfg.Model)

		eng := engine.New(sc.Events(), mgr, float64(cfg.Width), float64(cfg.Height))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go sc.Run(ctx)
		go eng.Run(ctx)

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: cfg.AllowAll}, eng)

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: shutdown: %v\n", err)
			}
		}()

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
