// Package similarity scores pairs of articles for event-level matching.
// The layered thresholds in AreSimilar trade precision against recall: an
// exact-ish title match is the strongest signal, entity and keyword overlap
// compensate for differently phrased headlines, and time proximity is a
// last-resort tie-breaker that still requires corroboration.
package similarity

import (
	"strings"
	"time"
	"unicode"

	"newslens/internal/core"
	"newslens/internal/textrank"
)

// Time window for the proximity rule.
const proximityWindow = 12 * time.Hour

// titleStopWords is a small list stripped during title normalization.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "in": {}, "on": {}, "to": {},
	"for": {}, "and": {}, "as": {},
}

// normalizeTitle lowercases, strips punctuation, collapses whitespace and
// drops the small title stop-word list.
func normalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	var kept []string
	for _, w := range strings.Fields(b.String()) {
		if _, stop := titleStopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// TitleSimilarity returns a [0,1] similarity between two titles.
// Exact match after normalization scores 1.0. Containment scores
// 0.8 * min/max length ratio. Otherwise the score is a blend of word-level
// Jaccard similarity (words longer than 3 chars) and a match ratio against
// the longer word set.
func TitleSimilarity(a, b string) float64 {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		shorter, longer := len(na), len(nb)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return 0.8 * float64(shorter) / float64(longer)
	}

	wordsA := significantWords(na)
	wordsB := significantWords(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shared := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			shared++
		}
	}
	union := len(wordsA) + len(wordsB) - shared
	jaccard := float64(shared) / float64(union)

	longerCount := len(wordsA)
	if len(wordsB) > longerCount {
		longerCount = len(wordsB)
	}
	matchRatio := float64(shared) / float64(longerCount)

	return 0.6*jaccard + 0.4*matchRatio
}

func significantWords(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if len(w) > 3 {
			words[w] = struct{}{}
		}
	}
	return words
}

func sharedEntityCount(a, b *core.Article) int {
	entitiesA := textrank.ExtractNamedEntities(a.Title + " " + a.Description)
	entitiesB := textrank.ExtractNamedEntities(b.Title + " " + b.Description)

	setB := make(map[string]struct{}, len(entitiesB))
	for _, e := range entitiesB {
		setB[e] = struct{}{}
	}
	shared := 0
	for _, e := range entitiesA {
		if _, ok := setB[e]; ok {
			shared++
		}
	}
	return shared
}

func sharedKeywordCount(a, b *core.Article) int {
	setB := make(map[string]struct{}, len(b.Keywords))
	for _, kw := range b.Keywords {
		setB[kw] = struct{}{}
	}
	shared := 0
	for _, kw := range a.Keywords {
		if _, ok := setB[kw]; ok {
			shared++
		}
	}
	return shared
}

func publishedWithin(a, b *core.Article, window time.Duration) bool {
	if a.PublishedAt.IsZero() || b.PublishedAt.IsZero() {
		return false
	}
	diff := a.PublishedAt.Sub(b.PublishedAt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

// AreSimilar reports whether two articles likely describe the same event.
// Articles from the same outlet never match: a cluster holds at most one
// article per source.
func AreSimilar(a, b *core.Article) bool {
	if a.SourceID == b.SourceID {
		return false
	}

	titleScore := TitleSimilarity(a.Title, b.Title)
	if titleScore > 0.8 {
		return true
	}

	entities := sharedEntityCount(a, b)
	if entities >= 2 && titleScore > 0.4 {
		return true
	}

	if sharedKeywordCount(a, b) >= 3 && titleScore > 0.3 {
		return true
	}

	if publishedWithin(a, b, proximityWindow) && titleScore > 0.35 && entities >= 1 {
		return true
	}

	return false
}
