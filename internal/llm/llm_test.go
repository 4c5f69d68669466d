package llm

import (
	"strings"
	"testing"

	"newslens/internal/core"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"code fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", `Here is the analysis: {"a": {"b": 2}} hope it helps`, `{"a": {"b": 2}}`},
		{"braces in strings", `{"quote": "he said {this}"}`, `{"quote": "he said {this}"}`},
		{"no object", "sorry, I cannot do that", ""},
		{"unbalanced", `{"a": 1`, ""},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("%s: extractJSON = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseAnalysis_ValidResponse(t *testing.T) {
	raw := "```json\n" + `{
		"sources": [{"title": "t", "source": "Reuters", "link": "https://example.test"}],
		"uniqueClaims": [{"source": "Reuters", "claims": "Only Reuters reports X.", "bias": "center"}],
		"sourceBias": [{"source": "Reuters", "bias": "left", "biasQuotes": ["q1.", "q2.", "q3.", "q4."]}]
	}` + "\n```"

	analysis := ParseAnalysis("s1", raw)
	if analysis.StoryID != "s1" {
		t.Errorf("story id = %q", analysis.StoryID)
	}
	if len(analysis.Sources) != 1 || len(analysis.UniqueClaims) != 1 {
		t.Errorf("unexpected parse result: %+v", analysis)
	}
	if len(analysis.SourceBias) != 1 || analysis.SourceBias[0].Bias != core.BiasLeft {
		t.Errorf("bias not parsed: %+v", analysis.SourceBias)
	}
	if len(analysis.SourceBias[0].Quotes) != 3 {
		t.Errorf("quotes must be capped at 3, got %d", len(analysis.SourceBias[0].Quotes))
	}
}

func TestParseAnalysis_MalformedResponseIsEmptyNotNil(t *testing.T) {
	for _, raw := range []string{"", "not json at all", `{"sources": "wrong type"}`} {
		analysis := ParseAnalysis("s1", raw)
		if analysis.Sources == nil || analysis.UniqueClaims == nil || analysis.SourceBias == nil {
			t.Errorf("slices must be initialized for %q: %+v", raw, analysis)
		}
		if len(analysis.Sources)+len(analysis.UniqueClaims)+len(analysis.SourceBias) != 0 {
			t.Errorf("malformed response must yield empty analysis for %q: %+v", raw, analysis)
		}
	}
}

func TestAnalysisPrompt_IncludesCoverage(t *testing.T) {
	story := &core.Story{
		ID:       "s1",
		Headline: "Senate passes climate bill",
		Summary:  "Lawmakers voted today.",
		Sources: []core.NewsSource{
			{Title: "Senate passes climate bill", Source: "Reuters", Link: "https://example.test/a"},
			{Title: "Climate bill clears Senate", Source: "Fox News", Link: "https://example.test/b"},
		},
	}

	prompt := AnalysisPrompt(story)
	for _, fragment := range []string{"Senate passes climate bill", "Reuters", "Fox News", "uniqueClaims", "sourceBias"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}
