package core

import "time"

// Bias is a per-source political lean label.
type Bias string

const (
	BiasLeft    Bias = "left"
	BiasRight   Bias = "right"
	BiasCenter  Bias = "center"
	BiasUnknown Bias = "unknown"
)

// Article is one article as returned by an outlet fetch, plus the fields
// attached during processing (keywords, bias label, supporting quotes).
type Article struct {
	Title       string    `json:"title"`        // Headline as published
	Description string    `json:"description"`  // Short description or teaser
	Content     string    `json:"content"`      // Body text, may be empty
	SourceID    string    `json:"source_id"`    // Stable outlet identifier (e.g. "reuters")
	SourceName  string    `json:"source_name"`  // Display name (e.g. "Reuters")
	URL         string    `json:"url"`          // Link to the published article
	PublishedAt time.Time `json:"published_at"` // Publication timestamp
	ImageURL    string    `json:"image_url"`    // Optional image

	Keywords   []string `json:"keywords"`    // Derived: top keywords, max 10
	Bias       Bias     `json:"bias"`        // Derived: lexical bias label
	BiasQuotes []string `json:"bias_quotes"` // Derived: up to 3 supporting quotes
}

// Cluster is an in-memory group of articles believed to cover the same
// event. Invariant: no two members share a SourceID.
type Cluster struct {
	Articles []Article `json:"articles"`
	Category string    `json:"category"` // Assigned once from the representative article
}

// HasSource reports whether any member article comes from the given outlet.
func (c *Cluster) HasSource(sourceID string) bool {
	for _, a := range c.Articles {
		if a.SourceID == sourceID {
			return true
		}
	}
	return false
}

// NewsSource is one per-outlet entry on a synthesized story.
type NewsSource struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Link   string `json:"link"`
}

// SourceBias is a per-source bias label with supporting quotes.
type SourceBias struct {
	Source string   `json:"source"`
	Bias   Bias     `json:"bias"`
	Quotes []string `json:"biasQuotes"` // Up to 3
}

// UniqueClaim is a claim made by one source but not corroborated by others.
type UniqueClaim struct {
	Source string `json:"source"`
	Claims string `json:"claims"`
	Bias   Bias   `json:"bias,omitempty"`
}

// Story categories, tested in this priority order during synthesis.
const (
	CategoryUSPolitics    = "us"
	CategoryPolitics      = "politics"
	CategoryWorld         = "world"
	CategoryBusiness      = "business"
	CategoryTechnology    = "technology"
	CategoryHealth        = "health"
	CategoryScience       = "science"
	CategorySports        = "sports"
	CategoryEntertainment = "entertainment"
	CategorySocial        = "social"
	CategoryOther         = "other"
)

// News provenance flags.
const (
	NewsTypeStatic  = "static"  // Batch-ingested
	NewsTypeDynamic = "dynamic" // Live-fetched
)

// Story is the persisted, synthesized representation of a cluster.
// A story without enrichment (empty SourceBias/UniqueClaims) is valid and
// displayable; enrichment is attached asynchronously.
type Story struct {
	ID           string        `json:"id"`
	Headline     string        `json:"headline"`
	Summary      string        `json:"summary"`
	Sources      []NewsSource  `json:"sources"`
	PublishedAt  *time.Time    `json:"publishedAt,omitempty"`
	FullContent  string        `json:"fullContent,omitempty"`
	Category     string        `json:"category"`
	CommonFacts  string        `json:"commonFacts,omitempty"`
	SourceBias   []SourceBias  `json:"sourceBias"`
	UniqueClaims []UniqueClaim `json:"uniqueClaims"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	NewsType     string        `json:"news_type"` // "static" or "dynamic"
}

// Analysis is the enrichment attached to a story by the text-synthesis
// service.
type Analysis struct {
	StoryID      string        `json:"story_id"`
	Sources      []NewsSource  `json:"sources"`
	UniqueClaims []UniqueClaim `json:"uniqueClaims"`
	SourceBias   []SourceBias  `json:"sourceBias"`
}

// PoliticalAxes are the derived scalars of a user's political profile.
// The four axis scores run -10..10; the five radar dimensions run 0..10.
// All are pure functions of the 16 category scores.
type PoliticalAxes struct {
	LibertyScore   float64 `json:"libertyScore"`
	SocialScore    float64 `json:"socialScore"`
	GlobalistScore float64 `json:"globalistScore"`
	PragmaticScore float64 `json:"pragmaticScore"`

	IndividualRights float64 `json:"individualRights"`
	Inclusivity      float64 `json:"inclusivity"`
	NationalSecurity float64 `json:"nationalSecurity"`
	EconomicFreedom  float64 `json:"economicFreedom"`
	Environmentalism float64 `json:"environmentalism"`
}

// UserProfile is the persisted per-user political profile.
type UserProfile struct {
	Email                 string             `json:"email"`
	CategoryScores        map[string]float64 `json:"categoryScores"` // 16 fixed categories, 0-10
	Axes                  PoliticalAxes      `json:"politicalAxes"`
	PoliticalType         string             `json:"politicalType"`
	EngagementScore       int                `json:"engagementScore"`       // 0-100
	AntiPolarizationScore float64            `json:"antiPolarizationScore"` // 0-10
	AntiPolarizationLevel string             `json:"antiPolarizationLevel"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// HasAxes reports whether derived axis scores have been computed for this
// profile. Profiles created before the survey was taken have zero axes and
// an empty political type.
func (p *UserProfile) HasAxes() bool {
	return p.PoliticalType != ""
}
