// Package textrank extracts ranked keywords and candidate named entities
// from article text. Both extractors are pure string heuristics; entity
// detection is capitalization-based, not NLP, and false positives on long
// capitalized common words are expected.
package textrank

import (
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords caps the keyword list per article.
const MaxKeywords = 10

// stopWords are dropped during keyword extraction: articles, prepositions,
// auxiliary verbs and generic news filler.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "nor": {},
	"for": {}, "yet": {}, "so": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "from": {}, "by": {}, "with": {}, "about": {}, "into": {},
	"over": {}, "under": {}, "after": {}, "before": {}, "between": {},
	"through": {}, "during": {}, "above": {}, "below": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "there": {}, "here": {}, "where": {},
	"when": {}, "while": {}, "which": {}, "what": {}, "their": {}, "they": {},
	"them": {}, "have": {}, "has": {}, "had": {}, "been": {}, "being": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "does": {}, "did": {},
	"says": {}, "said": {}, "say": {}, "report": {}, "reports": {},
	"reported": {}, "news": {}, "according": {}, "told": {}, "also": {},
	"more": {}, "most": {}, "some": {}, "such": {}, "than": {}, "then": {},
	"were": {}, "was": {}, "are": {}, "its": {}, "his": {}, "her": {},
	"who": {}, "whom": {}, "whose": {}, "other": {}, "amid": {},
}

// sentenceStarters are common first words that do not indicate an entity
// when capitalized at the start of the text.
var sentenceStarters = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "This": {}, "That": {}, "These": {},
	"Those": {}, "It": {}, "In": {}, "On": {}, "At": {}, "As": {}, "After": {},
	"Before": {}, "When": {}, "While": {}, "But": {}, "And": {}, "For": {},
	"With": {}, "From": {}, "By": {}, "If": {}, "There": {}, "Here": {},
}

// normalize lowercases text, converts punctuation to spaces and collapses
// whitespace.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExtractKeywords returns up to MaxKeywords lowercase tokens ranked by
// frequency, ties broken by first appearance. Tokens of length <= 3 and
// stop-words are dropped. Deterministic: the same input always yields the
// same output.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}

	words := strings.Fields(normalize(text))

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, seen := counts[w]; !seen {
			firstSeen[w] = order
			order++
		}
		counts[w]++
	}

	keywords := make([]string, 0, len(counts))
	for w := range counts {
		keywords = append(keywords, w)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return firstSeen[keywords[i]] < firstSeen[keywords[j]]
	})

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return keywords
}

// ExtractNamedEntities returns deduplicated lowercase candidate entities.
// A candidate starts at a capitalized token; consecutive capitalized tokens
// merge into one entity. An entity survives only if it contains a space or
// is longer than 7 characters, which filters short capitalized common
// words. The first word of the text is excluded when it is a common
// sentence-starter.
func ExtractNamedEntities(text string) []string {
	if text == "" {
		return nil
	}

	// Normalize punctuation to spaces but keep case.
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	words := strings.Fields(b.String())

	var entities []string
	seen := make(map[string]struct{})
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		entity := strings.Join(current, " ")
		current = current[:0]
		if !strings.Contains(entity, " ") && len(entity) <= 7 {
			return
		}
		lower := strings.ToLower(entity)
		if _, dup := seen[lower]; dup {
			return
		}
		seen[lower] = struct{}{}
		entities = append(entities, lower)
	}

	for i, w := range words {
		r := []rune(w)
		capitalized := unicode.IsUpper(r[0])

		// The leading word only counts when it is capitalized and not a
		// generic sentence opener.
		if i == 0 && capitalized {
			if _, starter := sentenceStarters[w]; starter {
				capitalized = false
			}
		}

		if capitalized {
			current = append(current, w)
		} else {
			flush()
		}
	}
	flush()

	return entities
}
