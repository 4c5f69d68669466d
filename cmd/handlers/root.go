package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newslens/internal/aggregator"
	"newslens/internal/config"
	"newslens/internal/llm"
	"newslens/internal/logger"
	"newslens/internal/store"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newslens",
		Short: "newslens aggregates news, labels per-source bias and personalizes story feeds.",
		Long: `newslens fetches articles from configured outlets, clusters articles
covering the same event, synthesizes cross-source stories with per-source
political-bias labels and supporting quotes, and personalizes story feeds
against a survey-derived political profile.

Run 'newslens aggregate' to build stories, 'newslens serve' to expose the
HTTP API, and 'newslens backfill' to enrich stories that missed their
analysis.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.newslens.yaml)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewAggregateCmd())
	rootCmd.AddCommand(NewBackfillCmd())
	rootCmd.AddCommand(NewSurveyScoreCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// buildPipeline wires the store, aggregator and optional llm client.
// Without a Gemini key the client is nil: stories are persisted
// unenriched and summarization is disabled.
func buildPipeline(ctx context.Context, cfg *config.Config) (*store.Store, *aggregator.Aggregator, *llm.Client, error) {
	st, err := store.NewStore(cfg.Store.Directory)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	var enricher aggregator.Enricher
	client, err := llm.NewClient(ctx, cfg.AI.Gemini)
	if err != nil {
		logger.Get().Warn("Analysis service unavailable, stories will not be enriched", "error", err)
		client = nil
	} else {
		enricher = client
	}

	return st, aggregator.New(cfg, st, enricher), client, nil
}
