// Package synthesis turns an event cluster into a single story record:
// representative article selection, source aggregation, per-source bias
// aggregation and topical categorization.
package synthesis

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"newslens/internal/bias"
	"newslens/internal/core"
)

// categoryRule is one ordered entry in the category decision list.
type categoryRule struct {
	category string
	pattern  *regexp.Regexp
}

// categoryRules are tested in priority order; the first match wins.
// US-politics terms come before general politics, politics before world,
// and so on down to the social catch-all.
var categoryRules = []categoryRule{
	{core.CategoryUSPolitics, regexp.MustCompile(`(?i)\b(congress|senate|white house|biden|trump|republican|democrat|capitol hill|supreme court|federal)\b`)},
	{core.CategoryPolitics, regexp.MustCompile(`(?i)\b(politic|election|government|parliament|minister|legislation|policy|vote|campaign)\b`)},
	{core.CategoryWorld, regexp.MustCompile(`(?i)\b(world|international|global|foreign|united nations|diplomat|embassy|treaty|border conflict)\b`)},
	{core.CategoryBusiness, regexp.MustCompile(`(?i)\b(business|econom|market|stock|trade|inflation|earnings|company|merger|startup)\b`)},
	{core.CategoryTechnology, regexp.MustCompile(`(?i)\b(tech|software|artificial intelligence|cyber|internet|smartphone|computing|silicon valley|robot)\b`)},
	{core.CategoryHealth, regexp.MustCompile(`(?i)\b(health|medical|hospital|vaccine|disease|virus|patient|medicine|drug)\b`)},
	{core.CategoryScience, regexp.MustCompile(`(?i)\b(science|research|study|discover|nasa|space|physics|biology|climate)\b`)},
	{core.CategorySports, regexp.MustCompile(`(?i)\b(sport|game|championship|tournament|league|playoff|olympic|match|team)\b`)},
	{core.CategoryEntertainment, regexp.MustCompile(`(?i)\b(entertainment|movie|film|music|celebrity|television|festival|award|streaming)\b`)},
	{core.CategorySocial, regexp.MustCompile(`(?i)\b(social|community|education|school|culture|lifestyle|housing|family)\b`)},
}

// Synthesizer builds stories from clusters.
type Synthesizer struct{}

// New returns a story synthesizer.
func New() *Synthesizer {
	return &Synthesizer{}
}

// Representative returns the cluster member with the most combined content
// and description text, a proxy for the most detailed account.
func Representative(cluster *core.Cluster) *core.Article {
	if len(cluster.Articles) == 0 {
		return nil
	}
	best := 0
	bestLen := -1
	for i := range cluster.Articles {
		l := len(cluster.Articles[i].Content) + len(cluster.Articles[i].Description)
		if l > bestLen {
			best = i
			bestLen = l
		}
	}
	return &cluster.Articles[best]
}

// Categorize returns the first matching category for the given article
// text, or "other" when no rule matches.
func Categorize(article *core.Article) string {
	haystack := article.Title + " " + article.Description + " " + strings.Join(article.Keywords, " ")
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(haystack) {
			return rule.category
		}
	}
	return core.CategoryOther
}

// Synthesize builds one Story from a cluster. The story carries the
// representative article's headline and summary, one source entry per
// member, a bias entry per member that produced quotes (deduplicated by
// source name, first wins) and a category decided once from the
// representative article. NewsType marks provenance.
func (s *Synthesizer) Synthesize(cluster *core.Cluster, newsType string) core.Story {
	rep := Representative(cluster)
	if rep == nil {
		return core.Story{ID: uuid.NewString(), NewsType: newsType, Category: core.CategoryOther}
	}

	if cluster.Category == "" {
		cluster.Category = Categorize(rep)
	}

	story := core.Story{
		ID:       uuid.NewString(),
		Headline: rep.Title,
		Summary:  rep.Description,
		Category: cluster.Category,
		NewsType: newsType,
		ImageURL: rep.ImageURL,
	}
	if rep.Content != "" {
		story.FullContent = rep.Content
	} else {
		story.FullContent = rep.Description
	}
	if !rep.PublishedAt.IsZero() {
		published := rep.PublishedAt.UTC().Truncate(time.Second)
		story.PublishedAt = &published
	}

	seenBias := make(map[string]struct{})
	for i := range cluster.Articles {
		member := &cluster.Articles[i]
		story.Sources = append(story.Sources, core.NewsSource{
			Title:  member.Title,
			Source: member.SourceName,
			Link:   member.URL,
		})

		result := bias.Classify(member.Title, member.Description, member.Content)
		member.Bias = result.Label
		member.BiasQuotes = result.Quotes
		if len(result.Quotes) == 0 {
			continue
		}
		if _, dup := seenBias[member.SourceName]; dup {
			continue
		}
		seenBias[member.SourceName] = struct{}{}
		story.SourceBias = append(story.SourceBias, core.SourceBias{
			Source: member.SourceName,
			Bias:   result.Label,
			Quotes: result.Quotes,
		})
	}

	return story
}
