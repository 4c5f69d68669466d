package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newslens/internal/aggregator"
	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/logger"
)

// NewAggregateCmd creates the aggregate command for one pipeline run
func NewAggregateCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Run one aggregation pass over all configured outlets",
		Long: `Fetch articles from every configured outlet, cluster articles covering
the same event, synthesize stories with per-source bias labels and persist
them. Stories are enriched through the analysis service when a Gemini API
key is configured; otherwise they stay eligible for 'newslens backfill'.

Examples:
  # Aggregate everything
  newslens aggregate

  # Keep only health stories from this run
  newslens aggregate --category health`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd.Context(), category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Keep only stories in this category")

	return cmd
}

func runAggregate(ctx context.Context, category string) error {
	log := logger.Get()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, agg, _, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := agg.Run(ctx, aggregator.RunOptions{
		Category: category,
		NewsType: core.NewsTypeStatic,
	})
	if err != nil {
		return fmt.Errorf("aggregation run failed: %w", err)
	}

	log.Info("Aggregation finished",
		"articles", result.ArticlesFetched,
		"clusters", result.ClustersFormed,
		"stories", result.StoriesSaved,
		"enriched", result.StoriesEnriched,
	)
	fmt.Printf("Saved %d stories from %d articles (%d enriched)\n",
		result.StoriesSaved, result.ArticlesFetched, result.StoriesEnriched)
	return nil
}
