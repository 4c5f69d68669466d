package textrank

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractKeywords_Deterministic(t *testing.T) {
	text := "Senate passes landmark climate bill as climate activists celebrate the climate vote"

	first := ExtractKeywords(text)
	for i := 0; i < 10; i++ {
		if got := ExtractKeywords(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("ExtractKeywords not deterministic: %v vs %v", got, first)
		}
	}

	if len(first) == 0 || first[0] != "climate" {
		t.Errorf("expected most frequent keyword 'climate' first, got %v", first)
	}
}

func TestExtractKeywords_FiltersStopWordsAndShortTokens(t *testing.T) {
	text := "The cat sat on a mat and it says the report was new today"

	keywords := ExtractKeywords(text)
	if len(keywords) > MaxKeywords {
		t.Fatalf("keyword list exceeds cap: %d", len(keywords))
	}
	for _, kw := range keywords {
		if len(kw) <= 3 {
			t.Errorf("keyword %q has length <= 3", kw)
		}
		if _, stop := stopWords[kw]; stop {
			t.Errorf("keyword %q is a stop word", kw)
		}
	}
}

func TestExtractKeywords_CapsAtTen(t *testing.T) {
	words := []string{
		"economy", "inflation", "senate", "congress", "election", "policy",
		"budget", "tariff", "healthcare", "immigration", "climate", "energy",
	}
	text := strings.Join(words, " ")

	keywords := ExtractKeywords(text)
	if len(keywords) != MaxKeywords {
		t.Errorf("expected exactly %d keywords, got %d", MaxKeywords, len(keywords))
	}
}

func TestExtractKeywords_TieBrokenByFirstSeen(t *testing.T) {
	keywords := ExtractKeywords("zebra apple zebra apple mango")
	want := []string{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("expected %v, got %v", want, keywords)
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	if got := ExtractKeywords(""); len(got) != 0 {
		t.Errorf("expected no keywords for empty text, got %v", got)
	}
}

func TestExtractNamedEntities_MergesConsecutiveCapitalized(t *testing.T) {
	entities := ExtractNamedEntities("Officials met with Joe Biden at the White House on Tuesday")

	found := map[string]bool{}
	for _, e := range entities {
		found[e] = true
	}
	if !found["joe biden"] {
		t.Errorf("expected 'joe biden' in entities, got %v", entities)
	}
	if !found["white house"] {
		t.Errorf("expected 'white house' in entities, got %v", entities)
	}
}

func TestExtractNamedEntities_ShortCapitalizedWordsFiltered(t *testing.T) {
	// "Rome" alone is capitalized but short and single-word, so it is dropped;
	// "Washington" is longer than 7 characters and kept.
	entities := ExtractNamedEntities("protests reached Rome and Washington overnight")

	for _, e := range entities {
		if e == "rome" {
			t.Errorf("short single-word entity 'rome' should be filtered, got %v", entities)
		}
	}
	found := false
	for _, e := range entities {
		if e == "washington" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'washington' in entities, got %v", entities)
	}
}

func TestExtractNamedEntities_SentenceStarterExcluded(t *testing.T) {
	entities := ExtractNamedEntities("The election results surprised pollsters")
	for _, e := range entities {
		if strings.Contains(e, "the") && strings.Contains(e, "election") {
			t.Errorf("sentence starter merged into entity: %v", entities)
		}
	}
}

func TestExtractNamedEntities_Deduplicates(t *testing.T) {
	entities := ExtractNamedEntities("Supreme Court ruled today. Supreme Court justices split.")
	count := 0
	for _, e := range entities {
		if e == "supreme court" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected 'supreme court' exactly once, got %v", entities)
	}
}
