// Package bias assigns a left/right/center label to article text by
// scanning it against two polarized term lexicons, and extracts up to three
// supporting quotes. The lexicons are political vocabulary, not named
// entities, and are static configuration loaded once at process start.
package bias

import (
	"regexp"
	"strings"

	"newslens/internal/core"
)

// MaxQuotes caps the supporting quotes per classification.
const MaxQuotes = 3

// dominanceRatio: one side must exceed the other by this factor to win.
const dominanceRatio = 1.5

var leftTerms = []string{
	"progressive", "social justice", "climate crisis", "climate action",
	"universal healthcare", "gun control", "gun reform", "income inequality",
	"wealth tax", "living wage", "workers' rights", "union organizing",
	"reproductive rights", "abortion rights", "voting rights",
	"systemic racism", "racial equity", "lgbtq rights", "marriage equality",
	"undocumented immigrants", "path to citizenship", "green new deal",
	"medicare for all", "affordable housing", "police reform",
}

var rightTerms = []string{
	"conservative", "traditional values", "family values", "small government",
	"free market", "tax cuts", "deregulation", "second amendment",
	"gun rights", "religious freedom", "border security", "illegal immigration",
	"law and order", "tough on crime", "national sovereignty",
	"fiscal responsibility", "job creators", "school choice",
	"pro-life", "limited government", "states' rights", "energy independence",
	"strong military", "america first", "radical left",
}

var attributionMarkers = []string{
	"according to", "said", "stated", "believes", "argues", "claims",
	"suggests", "indicates",
}

// sentenceBoundary splits on ., ! or ? followed by whitespace.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// Result is the outcome of a classification.
type Result struct {
	Label  core.Bias
	Quotes []string
}

// Classify scans the given text fields against the two lexicons and
// returns a label plus up to three supporting quotes. It never fails: text
// with no lexical markers yields {center, no quotes}. Center, not unknown,
// is the default so the label is always displayable.
func Classify(title, description, content string) Result {
	text := strings.TrimSpace(strings.Join([]string{title, description, content}, ". "))
	if text == "" {
		return Result{Label: core.BiasCenter}
	}

	sentences := sentenceBoundary.Split(text, -1)

	var leftCount, rightCount int
	var quotes []string
	collected := make(map[string]struct{})

	addQuote := func(sentence string) bool {
		if len(quotes) >= MaxQuotes {
			return false
		}
		trimmed := strings.TrimSpace(sentence)
		trimmed = strings.TrimRight(trimmed, ".!?")
		if trimmed == "" {
			return false
		}
		quote := trimmed + "."
		if _, dup := collected[quote]; dup {
			return false
		}
		collected[quote] = struct{}{}
		quotes = append(quotes, quote)
		return true
	}

	// First pass: sentences containing lexicon terms.
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		matched := 0
		for _, term := range leftTerms {
			if strings.Contains(lower, term) {
				leftCount++
				matched++
			}
		}
		for _, term := range rightTerms {
			if strings.Contains(lower, term) {
				rightCount++
				matched++
			}
		}
		if matched > 0 && len(sentence) >= 20 && len(sentence) < 300 {
			addQuote(sentence)
		}
	}

	// Second pass: attributed statements, when the lexicon produced too few.
	if len(quotes) < 2 {
		for _, sentence := range sentences {
			if len(sentence) < 40 || len(sentence) >= 250 {
				continue
			}
			lower := strings.ToLower(sentence)
			for _, marker := range attributionMarkers {
				if strings.Contains(lower, marker) {
					addQuote(sentence)
					break
				}
			}
			if len(quotes) >= 2 {
				break
			}
		}
	}

	// Third pass: longest remaining sentences.
	if len(quotes) < 2 {
		candidates := make([]string, 0, len(sentences))
		for _, sentence := range sentences {
			if len(sentence) >= 30 && len(sentence) < 250 {
				candidates = append(candidates, sentence)
			}
		}
		// Longest first; stable for equal lengths.
		for i := 1; i < len(candidates); i++ {
			for j := i; j > 0 && len(candidates[j]) > len(candidates[j-1]); j-- {
				candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
			}
		}
		for _, sentence := range candidates {
			if len(quotes) >= 2 {
				break
			}
			addQuote(sentence)
		}
	}

	return Result{Label: decideLabel(leftCount, rightCount), Quotes: quotes}
}

func decideLabel(leftCount, rightCount int) core.Bias {
	switch {
	case float64(leftCount) > dominanceRatio*float64(rightCount):
		return core.BiasLeft
	case float64(rightCount) > dominanceRatio*float64(leftCount):
		return core.BiasRight
	default:
		return core.BiasCenter
	}
}
