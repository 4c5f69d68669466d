// Package fetch retrieves articles from configured outlets. Two outlet
// kinds exist: "newsapi" outlets hit a JSON top-headlines endpoint, "rss"
// outlets parse a syndication feed. A fetch failure for one outlet never
// fails the run; the outlet just contributes nothing.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/logger"
)

// Fetcher retrieves articles from outlets with per-outlet rate limiting.
type Fetcher struct {
	cfg    config.Fetch
	client *http.Client
	parser *gofeed.Parser
	log    *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher creates a fetcher for the given configuration.
func NewFetcher(cfg config.Fetch) *Fetcher {
	client := &http.Client{Timeout: cfg.Timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = cfg.UserAgent

	return &Fetcher{
		cfg:      cfg,
		client:   client,
		parser:   parser,
		log:      logger.Get(),
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiter returns the rate limiter for an outlet, creating it on first use.
func (f *Fetcher) limiter(outletID string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.limiters[outletID]; ok {
		return l
	}
	interval := f.cfg.RateLimit
	if interval <= 0 {
		interval = time.Second
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	f.limiters[outletID] = l
	return l
}

// Fetch retrieves articles from a single outlet. Upstream throttling
// (429) and server errors return an empty slice rather than an error so
// the outlet is simply skipped for this run.
func (f *Fetcher) Fetch(ctx context.Context, outlet config.Outlet) ([]core.Article, error) {
	if err := f.limiter(outlet.ID).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", outlet.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	switch outlet.Kind {
	case "rss":
		return f.fetchRSS(ctx, outlet)
	case "newsapi":
		return f.fetchNewsAPI(ctx, outlet)
	default:
		return nil, fmt.Errorf("outlet %q has unknown kind %q", outlet.ID, outlet.Kind)
	}
}

// newsAPIResponse mirrors the top-headlines JSON shape.
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (f *Fetcher) fetchNewsAPI(ctx context.Context, outlet config.Outlet) ([]core.Article, error) {
	base := f.cfg.NewsAPIBaseURL
	if outlet.URL != "" {
		base = outlet.URL
	}

	params := url.Values{}
	params.Set("sources", outlet.ID)
	params.Set("pageSize", strconv.Itoa(f.cfg.PageSize))
	endpoint := strings.TrimSuffix(base, "/") + "/top-headlines?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", f.cfg.NewsAPIKey)
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outlet %s: %w", outlet.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Throttling and upstream failures degrade to an empty result.
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		f.log.Warn("Outlet unavailable, skipping", "outlet", outlet.ID, "status", resp.StatusCode)
		return []core.Article{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("outlet %s returned status %d", outlet.ID, resp.StatusCode)
	}

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", outlet.ID, err)
	}

	articles := make([]core.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" {
			continue
		}
		sourceName := outlet.Name
		if sourceName == "" {
			sourceName = a.Source.Name
		}
		articles = append(articles, core.Article{
			Title:       a.Title,
			Description: StripHTML(a.Description),
			Content:     StripHTML(a.Content),
			SourceID:    outlet.ID,
			SourceName:  sourceName,
			URL:         a.URL,
			PublishedAt: parseTimestamp(a.PublishedAt),
			ImageURL:    a.URLToImage,
		})
	}
	return articles, nil
}

func (f *Fetcher) fetchRSS(ctx context.Context, outlet config.Outlet) ([]core.Article, error) {
	feed, err := f.parser.ParseURLWithContext(outlet.URL, ctx)
	if err != nil {
		// gofeed wraps HTTP errors; treat them all as a skipped outlet.
		if he, ok := err.(gofeed.HTTPError); ok &&
			(he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500) {
			f.log.Warn("Feed unavailable, skipping", "outlet", outlet.ID, "status", he.StatusCode)
			return []core.Article{}, nil
		}
		return nil, fmt.Errorf("failed to parse feed for %s: %w", outlet.ID, err)
	}

	limit := f.cfg.PageSize
	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	articles := make([]core.Article, 0, limit)
	for _, item := range feed.Items[:limit] {
		if item.Title == "" {
			continue
		}
		article := core.Article{
			Title:       item.Title,
			Description: StripHTML(item.Description),
			Content:     StripHTML(item.Content),
			SourceID:    outlet.ID,
			SourceName:  outlet.Name,
			URL:         item.Link,
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = item.PublishedParsed.UTC()
		}
		if item.Image != nil {
			article.ImageURL = item.Image.URL
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// Result contains per-run fetch statistics.
type Result struct {
	Articles       []core.Article
	OutletsFetched int
	OutletsFailed  int
	Errors         []error
}

// FetchAll retrieves articles from all outlets concurrently with a
// bounded worker pool. Failed outlets are logged and skipped; the run
// continues with whatever the remaining outlets return.
func (f *Fetcher) FetchAll(ctx context.Context, outlets []config.Outlet) *Result {
	if len(outlets) == 0 {
		f.log.Warn("No outlets configured")
		return &Result{}
	}

	concurrency := f.cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	f.log.Info("Starting fetch", "outlet_count", len(outlets), "max_concurrency", concurrency)

	result := &Result{}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, outlet := range outlets {
		select {
		case <-ctx.Done():
			f.log.Warn("Fetch cancelled", "reason", ctx.Err())
			return result
		default:
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(o config.Outlet) {
			defer wg.Done()
			defer func() { <-sem }()

			articles, err := f.Fetch(ctx, o)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				f.log.Error("Failed to fetch outlet", "outlet", o.ID, "error", err)
				result.OutletsFailed++
				result.Errors = append(result.Errors, fmt.Errorf("outlet %s: %w", o.ID, err))
				return
			}
			result.OutletsFetched++
			result.Articles = append(result.Articles, articles...)
		}(outlet)
	}

	wg.Wait()

	f.log.Info("Fetch completed",
		"fetched", result.OutletsFetched,
		"failed", result.OutletsFailed,
		"articles", len(result.Articles),
	)
	return result
}

// StripHTML reduces an HTML fragment to its text content with collapsed
// whitespace. Plain text passes through unchanged.
func StripHTML(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
