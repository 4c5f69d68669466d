package bias

import (
	"strings"
	"testing"

	"newslens/internal/core"
)

func TestClassify_EmptyInputNeverFails(t *testing.T) {
	result := Classify("", "", "")
	if result.Label != core.BiasCenter {
		t.Errorf("expected center for empty input, got %s", result.Label)
	}
	if len(result.Quotes) != 0 {
		t.Errorf("expected no quotes for empty input, got %v", result.Quotes)
	}
}

func TestClassify_NoLexiconMatchesDefaultsToCenter(t *testing.T) {
	result := Classify(
		"Bakery opens downtown",
		"A new bakery opened its doors this morning",
		"",
	)
	if result.Label != core.BiasCenter {
		t.Errorf("expected center default, got %s", result.Label)
	}
}

func TestClassify_LeftDominance(t *testing.T) {
	content := "Advocates demanded climate action and universal healthcare. " +
		"Supporters of the wealth tax rallied for social justice downtown. " +
		"Organizers called for a living wage across the state."

	result := Classify("Rally draws thousands", "", content)
	if result.Label != core.BiasLeft {
		t.Errorf("expected left label, got %s", result.Label)
	}
	if len(result.Quotes) == 0 {
		t.Error("expected supporting quotes for matched sentences")
	}
}

func TestClassify_RightDominance(t *testing.T) {
	content := "Lawmakers praised tax cuts and deregulation in the speech. " +
		"The governor invoked family values and border security repeatedly. " +
		"Backers cited fiscal responsibility and the free market."

	result := Classify("Governor addresses convention", "", content)
	if result.Label != core.BiasRight {
		t.Errorf("expected right label, got %s", result.Label)
	}
}

func TestClassify_BalancedCountsYieldCenter(t *testing.T) {
	content := "One side pushed for gun control while the other defended gun rights. " +
		"Debate over climate action and tax cuts continued late into the night."

	result := Classify("Legislature debates", "", content)
	if result.Label != core.BiasCenter {
		t.Errorf("expected center when neither side dominates, got %s", result.Label)
	}
}

func TestClassify_QuoteCapAndFormat(t *testing.T) {
	var sentences []string
	for i := 0; i < 6; i++ {
		sentences = append(sentences, "Activists renewed their call for climate action in the capital today")
	}
	content := strings.Join(sentences, ". ") + "."

	result := Classify("", "", content)
	if len(result.Quotes) > MaxQuotes {
		t.Errorf("quotes exceed cap: %d", len(result.Quotes))
	}
	for _, q := range result.Quotes {
		if !strings.HasSuffix(q, ".") {
			t.Errorf("quote missing trailing period: %q", q)
		}
		if q != strings.TrimSpace(q) {
			t.Errorf("quote not trimmed: %q", q)
		}
	}
}

func TestClassify_AttributionFallback(t *testing.T) {
	content := "The committee met for several hours behind closed doors on Thursday. " +
		"According to officials familiar with the matter, negotiations will resume next week."

	result := Classify("Committee talks continue", "", content)
	if result.Label != core.BiasCenter {
		t.Errorf("expected center, got %s", result.Label)
	}
	if len(result.Quotes) == 0 {
		t.Error("expected fallback quotes from attributed sentences")
	}
}

func TestClassify_DeduplicatesQuotes(t *testing.T) {
	sentence := "Advocates demanded climate action at the statehouse rally"
	content := sentence + ". " + sentence + "."

	result := Classify("", "", content)
	seen := map[string]int{}
	for _, q := range result.Quotes {
		seen[q]++
		if seen[q] > 1 {
			t.Errorf("duplicate quote collected: %q", q)
		}
	}
}
