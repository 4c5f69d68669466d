// Package llm enriches stories through the Gemini API: cross-source
// analysis (per-source bias, unique claims) and neutral summaries.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/logger"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// analysisPromptTemplate demands strict JSON so the response can be
// parsed without post-processing. Models still wrap output in prose or
// code fences often enough that extractJSON stays defensive.
const analysisPromptTemplate = `You are a media analyst. Analyze the following news story as covered by multiple sources and respond with ONLY a JSON object, no markdown, no explanation.

The JSON object must have exactly these keys:
{
  "sources": [{"title": "...", "source": "...", "link": "..."}],
  "uniqueClaims": [{"source": "...", "claims": "...", "bias": "left|right|center"}],
  "sourceBias": [{"source": "...", "bias": "left|right|center", "biasQuotes": ["..."]}]
}

"uniqueClaims" lists claims made by one source but not corroborated by the others. "sourceBias" labels each source's political lean with up to 3 verbatim supporting quotes.

Headline: %s

Summary: %s

Coverage:
%s`

const summarizePromptTemplate = `Summarize the following text in 2-3 sentences using neutral, factual language. Do not editorialize.

%s`

// Client wraps the Gemini API for story analysis.
type Client struct {
	modelName string
	gClient   *genai.Client
}

// NewClient creates a Gemini-backed client from configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required, set GEMINI_API_KEY")
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// generateContent wraps the SDK's GenerateContent call.
func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// Synthesize runs the cross-source analysis for a story. A response that
// cannot be parsed degrades to an empty analysis rather than an error so
// the caller can persist the story unenriched and retry via backfill.
func (c *Client) Synthesize(ctx context.Context, story *core.Story) (core.Analysis, error) {
	raw, err := c.generateContent(ctx, AnalysisPrompt(story))
	if err != nil {
		return core.Analysis{StoryID: story.ID}, fmt.Errorf("analysis for story %s: %w", story.ID, err)
	}
	return ParseAnalysis(story.ID, raw), nil
}

// Summarize produces a short neutral summary of the given text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to summarize")
	}
	return c.generateContent(ctx, fmt.Sprintf(summarizePromptTemplate, text))
}

// AnalysisPrompt renders the analysis prompt for a story.
func AnalysisPrompt(story *core.Story) string {
	var coverage strings.Builder
	for _, src := range story.Sources {
		fmt.Fprintf(&coverage, "- %s: %s (%s)\n", src.Source, src.Title, src.Link)
	}
	return fmt.Sprintf(analysisPromptTemplate, story.Headline, story.Summary, coverage.String())
}

// analysisPayload mirrors the JSON contract in the prompt.
type analysisPayload struct {
	Sources      []core.NewsSource  `json:"sources"`
	UniqueClaims []core.UniqueClaim `json:"uniqueClaims"`
	SourceBias   []core.SourceBias  `json:"sourceBias"`
}

// ParseAnalysis extracts the first JSON object from a model response and
// maps it onto an Analysis. Malformed responses yield an empty analysis
// with initialized slices, never an error.
func ParseAnalysis(storyID, raw string) core.Analysis {
	empty := core.Analysis{
		StoryID:      storyID,
		Sources:      []core.NewsSource{},
		UniqueClaims: []core.UniqueClaim{},
		SourceBias:   []core.SourceBias{},
	}

	jsonText := extractJSON(raw)
	if jsonText == "" {
		logger.Get().Warn("Model response contained no JSON object", "story_id", storyID)
		return empty
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		logger.Get().Warn("Failed to parse model response", "story_id", storyID, "error", err)
		return empty
	}

	analysis := empty
	if payload.Sources != nil {
		analysis.Sources = payload.Sources
	}
	if payload.UniqueClaims != nil {
		analysis.UniqueClaims = payload.UniqueClaims
	}
	if payload.SourceBias != nil {
		analysis.SourceBias = payload.SourceBias
	}
	for i := range analysis.SourceBias {
		if len(analysis.SourceBias[i].Quotes) > 3 {
			analysis.SourceBias[i].Quotes = analysis.SourceBias[i].Quotes[:3]
		}
	}
	return analysis
}

// extractJSON returns the first balanced top-level {...} block, which
// also handles responses wrapped in code fences or prose.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}
	return ""
}
