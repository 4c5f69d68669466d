package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/store"
)

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>%s</title>
<item>
  <title>Senate passes landmark climate bill</title>
  <link>https://%s.test/climate</link>
  <description>The Senate approved sweeping climate legislation on Tuesday after months of negotiation between lawmakers.</description>
  <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
</channel></rss>`

func feedServer(t *testing.T, name string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, feedTemplate, name, name)
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, outlets []config.Outlet) *config.Config {
	t.Helper()
	return &config.Config{
		Fetch: config.Fetch{
			Timeout:        5 * time.Second,
			MaxConcurrency: 4,
			PageSize:       10,
			RateLimit:      time.Millisecond,
			UserAgent:      "newslens-test/1.0",
			Outlets:        outlets,
		},
		Store: config.Store{Directory: t.TempDir()},
		Aggregation: config.Aggregation{
			MinSources:        2,
			MaxStories:        10,
			EnrichTimeout:     10 * time.Second,
			BackfillBatchSize: 5,
		},
	}
}

// fakeEnricher returns a canned analysis and counts calls.
type fakeEnricher struct {
	calls int
	fail  bool
}

func (f *fakeEnricher) Synthesize(ctx context.Context, story *core.Story) (core.Analysis, error) {
	f.calls++
	if f.fail {
		return core.Analysis{}, fmt.Errorf("model unavailable")
	}
	return core.Analysis{
		StoryID: story.ID,
		SourceBias: []core.SourceBias{
			{Source: "Reuters", Bias: core.BiasCenter, Quotes: []string{"The bill passed."}},
		},
	}, nil
}

func TestRun_NearIdenticalArticlesFormOneStory(t *testing.T) {
	outlets := []config.Outlet{
		{ID: "reuters", Name: "Reuters", Kind: "rss", URL: feedServer(t, "reuters").URL},
		{ID: "ap", Name: "AP", Kind: "rss", URL: feedServer(t, "ap").URL},
		{ID: "bbc", Name: "BBC", Kind: "rss", URL: feedServer(t, "bbc").URL},
	}
	cfg := testConfig(t, outlets)

	st, err := store.NewStore(cfg.Store.Directory)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	enricher := &fakeEnricher{}
	agg := New(cfg, st, enricher)

	result, err := agg.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ArticlesFetched != 3 {
		t.Fatalf("expected 3 articles, got %d", result.ArticlesFetched)
	}
	if result.StoriesSaved != 1 {
		t.Fatalf("three near-identical articles must form one story, got %d", result.StoriesSaved)
	}

	stories, err := st.ListStories("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(stories) != 1 {
		t.Fatalf("expected 1 persisted story, got %d", len(stories))
	}
	if len(stories[0].Sources) != 3 {
		t.Errorf("expected 3 sources on the story, got %d", len(stories[0].Sources))
	}
	if stories[0].ImageURL == "" {
		t.Error("expected an image URL on the story")
	}
	if enricher.calls != 1 {
		t.Errorf("expected one enrichment call, got %d", enricher.calls)
	}
}

func TestRun_EnrichmentFailureLeavesStoryForBackfill(t *testing.T) {
	outlets := []config.Outlet{
		{ID: "reuters", Name: "Reuters", Kind: "rss", URL: feedServer(t, "reuters").URL},
		{ID: "ap", Name: "AP", Kind: "rss", URL: feedServer(t, "ap").URL},
	}
	cfg := testConfig(t, outlets)

	st, err := store.NewStore(cfg.Store.Directory)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	enricher := &fakeEnricher{fail: true}
	agg := New(cfg, st, enricher)

	result, err := agg.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.StoriesSaved != 1 || result.StoriesEnriched != 0 {
		t.Fatalf("expected 1 saved / 0 enriched, got %d / %d",
			result.StoriesSaved, result.StoriesEnriched)
	}

	ids, err := st.ListStoryIDsMissingAnalysis(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("story must remain eligible for backfill, got %v", ids)
	}

	// A later backfill pass with a healthy enricher completes it.
	enricher.fail = false
	backfill, err := agg.Backfill(context.Background())
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if backfill.Processed != 1 || backfill.Remaining != 0 {
		t.Errorf("expected 1 processed / 0 remaining, got %d / %d",
			backfill.Processed, backfill.Remaining)
	}
}

func TestBackfill_NoEnricher(t *testing.T) {
	cfg := testConfig(t, nil)
	st, err := store.NewStore(cfg.Store.Directory)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	agg := New(cfg, st, nil)
	if _, err := agg.Backfill(context.Background()); err == nil {
		t.Error("expected error without an enricher")
	}
}

func TestRun_NoArticles(t *testing.T) {
	cfg := testConfig(t, nil)
	st, err := store.NewStore(cfg.Store.Directory)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	agg := New(cfg, st, nil)
	result, err := agg.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("empty run must not error: %v", err)
	}
	if result.StoriesSaved != 0 {
		t.Errorf("expected no stories, got %d", result.StoriesSaved)
	}
}
