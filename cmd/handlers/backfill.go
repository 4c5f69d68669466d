package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newslens/internal/config"
)

// NewBackfillCmd creates the backfill command for enriching stored stories
func NewBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Enrich a batch of stories that missed their analysis",
		Long: `Run one bounded enrichment pass over stories persisted without
cross-source analysis. Safe to run repeatedly, for example from cron,
until no stories remain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd.Context())
		},
	}

	return cmd
}

func runBackfill(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, agg, _, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := agg.Backfill(ctx)
	if err != nil {
		return fmt.Errorf("backfill pass failed: %w", err)
	}

	fmt.Printf("Processed %d stories (%d failed), %d remaining\n",
		result.Processed, result.Failed, result.Remaining)
	return nil
}
