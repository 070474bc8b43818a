// cmd/tools/matchctl/root.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"match-workers/internal/common/logger"
)

var (
	logLevel   string
	jsonOutput bool

	log logger.Logger = logger.NewNoOpLogger()
)

var rootCmd = &cobra.Command{
	Use:   "matchctl",
	Short: "Score, rank and generate job-candidate matches from local files",
	Long: `matchctl runs the matching engine outside the workflow engine.
Candidates and jobs are read from JSON files; generated matches are kept in a
SQLite match store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logLevel, "console")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = logger.NewZapAdapter(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(extractCmd, scoreCmd, rankCmd, generateCmd)
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
