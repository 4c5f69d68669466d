// Package aggregator orchestrates one aggregation run: fetch, keyword
// extraction, clustering, story synthesis, persistence and enrichment.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newslens/internal/clusterer"
	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/fetch"
	"newslens/internal/images"
	"newslens/internal/logger"
	"newslens/internal/store"
	"newslens/internal/synthesis"
	"newslens/internal/textrank"
)

// Enricher attaches cross-source analysis to a story. Satisfied by the
// llm client; nil disables enrichment for a run.
type Enricher interface {
	Synthesize(ctx context.Context, story *core.Story) (core.Analysis, error)
}

// Aggregator wires the pipeline stages together.
type Aggregator struct {
	cfg      *config.Config
	fetcher  *fetch.Fetcher
	strategy clusterer.Strategy
	synth    *synthesis.Synthesizer
	store    *store.Store
	enricher Enricher
	log      *slog.Logger
}

// New creates an aggregator. The enricher may be nil, in which case
// stories are persisted unenriched and picked up later by backfill.
func New(cfg *config.Config, st *store.Store, enricher Enricher) *Aggregator {
	return &Aggregator{
		cfg:      cfg,
		fetcher:  fetch.NewFetcher(cfg.Fetch),
		strategy: clusterer.NewGreedy(),
		synth:    synthesis.New(),
		store:    st,
		enricher: enricher,
		log:      logger.Get(),
	}
}

// RunOptions tunes a single aggregation run.
type RunOptions struct {
	Category string // Restrict the run to one story category ("" = all)
	NewsType string // Provenance flag for persisted stories
}

// RunResult reports what a run produced.
type RunResult struct {
	ArticlesFetched int
	ClustersFormed  int
	StoriesSaved    int
	StoriesEnriched int
	Stories         []core.Story
}

// Run executes one aggregation pass. Every stage degrades rather than
// aborts: failed outlets are skipped, unenrichable stories stay eligible
// for backfill.
func (a *Aggregator) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	newsType := opts.NewsType
	if newsType == "" {
		newsType = core.NewsTypeStatic
	}

	fetchResult := a.fetcher.FetchAll(ctx, a.cfg.Fetch.Outlets)
	result := &RunResult{ArticlesFetched: len(fetchResult.Articles)}
	if len(fetchResult.Articles) == 0 {
		a.log.Warn("No articles fetched, nothing to aggregate")
		return result, nil
	}

	articles := fetchResult.Articles
	for i := range articles {
		articles[i].Keywords = textrank.ExtractKeywords(
			articles[i].Title + " " + articles[i].Description + " " + articles[i].Content)
	}

	clusters := a.strategy.Cluster(articles)
	result.ClustersFormed = len(clusters)
	selected := clusterer.Select(clusters, a.cfg.Aggregation.MinSources, a.cfg.Aggregation.MaxStories)

	for i := range selected {
		story := a.synth.Synthesize(&selected[i], newsType)
		if opts.Category != "" && story.Category != opts.Category {
			continue
		}
		if story.ImageURL == "" {
			rep := synthesis.Representative(&selected[i])
			if rep != nil {
				story.ImageURL = images.ForHeadline(story.Headline, rep.Keywords)
			}
		}
		if err := a.store.SaveStory(&story); err != nil {
			a.log.Error("Failed to save story", "story_id", story.ID, "error", err)
			continue
		}
		result.StoriesSaved++
		result.Stories = append(result.Stories, story)
	}

	result.StoriesEnriched = a.enrich(ctx, result.Stories)

	a.log.Info("Aggregation run completed",
		"articles", result.ArticlesFetched,
		"clusters", result.ClustersFormed,
		"stories", result.StoriesSaved,
		"enriched", result.StoriesEnriched,
	)
	return result, nil
}

// enrich runs the analysis service over freshly saved stories under the
// run-level budget. Enrichment failures are logged only; the stories
// remain eligible for backfill.
func (a *Aggregator) enrich(ctx context.Context, stories []core.Story) int {
	if a.enricher == nil || len(stories) == 0 {
		return 0
	}

	budget := a.cfg.Aggregation.EnrichTimeout
	if budget <= 0 {
		budget = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	enriched := 0
	for i := range stories {
		if ctx.Err() != nil {
			a.log.Warn("Enrichment budget exhausted", "remaining", len(stories)-i)
			break
		}
		analysis, err := a.enricher.Synthesize(ctx, &stories[i])
		if err != nil {
			a.log.Warn("Enrichment failed, story left for backfill", "story_id", stories[i].ID, "error", err)
			continue
		}
		if err := a.store.SaveAnalysis(&analysis); err != nil {
			a.log.Warn("Failed to save analysis", "story_id", stories[i].ID, "error", err)
			continue
		}
		enriched++
	}
	return enriched
}

// BackfillResult reports one backfill pass.
type BackfillResult struct {
	Processed int
	Failed    int
	Remaining int
}

// Backfill enriches a bounded batch of stories that missed their
// analysis. Safe to run repeatedly.
func (a *Aggregator) Backfill(ctx context.Context) (*BackfillResult, error) {
	if a.enricher == nil {
		return nil, fmt.Errorf("no enricher configured")
	}

	batchSize := a.cfg.Aggregation.BackfillBatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	ids, err := a.store.ListStoryIDsMissingAnalysis(batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories for backfill: %w", err)
	}

	result := &BackfillResult{}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		story, err := a.store.GetStory(id)
		if err != nil || story == nil {
			a.log.Warn("Backfill could not load story", "story_id", id, "error", err)
			result.Failed++
			continue
		}
		analysis, err := a.enricher.Synthesize(ctx, story)
		if err != nil {
			a.log.Warn("Backfill enrichment failed", "story_id", id, "error", err)
			result.Failed++
			continue
		}
		if err := a.store.SaveAnalysis(&analysis); err != nil {
			a.log.Warn("Backfill could not save analysis", "story_id", id, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	remaining, err := a.store.CountStoriesMissingAnalysis()
	if err != nil {
		return result, fmt.Errorf("failed to count remaining stories: %w", err)
	}
	result.Remaining = remaining

	a.log.Info("Backfill pass completed",
		"processed", result.Processed,
		"failed", result.Failed,
		"remaining", result.Remaining,
	)
	return result, nil
}
