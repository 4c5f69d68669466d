// Package survey scores the 18-question political survey into a user
// profile: 16 weighted category scores, four derived axes, a political
// type label and two engagement measures.
package survey

import (
	"math"

	"newslens/internal/core"
)

// Response is one answered question: the selected option's value and
// weight, positionally aligned with Questions.
type Response struct {
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Result is the full scoring output for one set of responses.
type Result struct {
	CategoryScores        map[string]float64 `json:"categoryScores"`
	Axes                  core.PoliticalAxes `json:"politicalAxes"`
	PoliticalType         string             `json:"politicalType"`
	EngagementScore       int                `json:"engagementScore"`
	AntiPolarizationScore float64            `json:"antiPolarizationScore"`
	AntiPolarizationLevel string             `json:"antiPolarizationLevel"`
}

// dialogueCategories feed the anti-polarization average.
var dialogueCategories = []string{
	CatTruthSeeking,
	CatArgumentative,
	CatStoryTelling,
	CatEmpathy,
	CatRespectfulness,
	CatOpenMindedness,
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CategoryScores computes the weighted average per category, rounded to
// one decimal. A category whose answered weights sum to zero scores
// exactly 0.
func CategoryScores(responses []Response) map[string]float64 {
	scores := make(map[string]float64, len(categoryQuestions))
	for category, indices := range categoryQuestions {
		weightedSum := 0.0
		weightTotal := 0.0
		for _, i := range indices {
			if i >= len(responses) {
				continue
			}
			weightedSum += responses[i].Value * responses[i].Weight
			weightTotal += responses[i].Weight
		}
		if weightTotal == 0 {
			scores[category] = 0
			continue
		}
		scores[category] = round1(weightedSum / weightTotal)
	}
	return scores
}

func avg(scores map[string]float64, categories ...string) float64 {
	total := 0.0
	for _, c := range categories {
		total += scores[c]
	}
	return total / float64(len(categories))
}

// Axes derives the four -10..10 axis scores and the five 0..10 radar
// dimensions from category scores. Higher liberty means more
// libertarian, higher social more progressive, higher globalist more
// internationalist, higher pragmatic more evidence-driven.
func Axes(scores map[string]float64) core.PoliticalAxes {
	return core.PoliticalAxes{
		LibertyScore:   round1((avg(scores, CatIndividualRights, CatCivilLiberties) - 5) * 2),
		SocialScore:    round1((avg(scores, CatSocialIssues, CatEconomicSystems, CatEnvironmental) - 5) * 2),
		GlobalistScore: round1((scores[CatForeignPolicy] - 5) * 2),
		PragmaticScore: round1((avg(scores, CatTruthSeeking, CatOpenMindedness) - 5) * 2),

		IndividualRights: round1(avg(scores, CatIndividualRights, CatCivilLiberties)),
		Inclusivity:      round1(avg(scores, CatSocialIssues, CatEmpathy)),
		NationalSecurity: round1(10 - scores[CatNationalSecurity]),
		EconomicFreedom:  round1(10 - avg(scores, CatEconomicSystems, CatMarketRegulation)),
		Environmentalism: round1(scores[CatEnvironmental]),
	}
}

// PoliticalType buckets the axes into a compound label. The liberty and
// social axes decide the base at the +-5 thresholds, the pragmatic axis
// adds a "Pragmatic"/"Ideological" prefix at +-5, and the globalist axis
// wraps the outermost "Globalist"/"Nationalist" prefix at +-7.
func PoliticalType(axes core.PoliticalAxes) string {
	var base string
	switch {
	case axes.SocialScore >= 5 && axes.LibertyScore >= 5:
		base = "Progressive Libertarian"
	case axes.SocialScore <= -5 && axes.LibertyScore >= 5:
		base = "Conservative Libertarian"
	case axes.SocialScore >= 5 && axes.LibertyScore <= -5:
		base = "Progressive Authoritarian"
	case axes.SocialScore <= -5 && axes.LibertyScore <= -5:
		base = "Conservative Authoritarian"
	case axes.SocialScore >= 5:
		base = "Progressive"
	case axes.SocialScore <= -5:
		base = "Conservative"
	case axes.LibertyScore >= 5:
		base = "Libertarian"
	case axes.LibertyScore <= -5:
		base = "Authoritarian"
	default:
		base = "Centrist"
	}

	switch {
	case axes.PragmaticScore >= 5:
		base = "Pragmatic " + base
	case axes.PragmaticScore <= -5:
		base = "Ideological " + base
	}

	switch {
	case axes.GlobalistScore >= 7:
		base = "Globalist " + base
	case axes.GlobalistScore <= -7:
		base = "Nationalist " + base
	}
	return base
}

// Engagement maps the Dialogic Tendency category onto a 0-100 score.
func Engagement(scores map[string]float64) int {
	return int(math.Round(scores[CatDialogicTendency] / 10 * 100))
}

// AntiPolarization averages the six dialogue categories and labels the
// result.
func AntiPolarization(scores map[string]float64) (float64, string) {
	score := round1(avg(scores, dialogueCategories...))
	switch {
	case score >= 8:
		return score, "Very High"
	case score >= 6:
		return score, "High"
	case score >= 4:
		return score, "Moderate"
	case score >= 2:
		return score, "Low"
	default:
		return score, "Very Low"
	}
}

// Score runs the full pipeline over one set of responses.
func Score(responses []Response) Result {
	scores := CategoryScores(responses)
	axes := Axes(scores)
	apScore, apLevel := AntiPolarization(scores)
	return Result{
		CategoryScores:        scores,
		Axes:                  axes,
		PoliticalType:         PoliticalType(axes),
		EngagementScore:       Engagement(scores),
		AntiPolarizationScore: apScore,
		AntiPolarizationLevel: apLevel,
	}
}

// ResponsesFromSelections converts per-question option indices into
// responses. Out-of-range selections score as a zero-weight answer.
func ResponsesFromSelections(selections []int) []Response {
	responses := make([]Response, len(Questions))
	for i := range Questions {
		if i >= len(selections) {
			break
		}
		sel := selections[i]
		if sel < 0 || sel >= len(Questions[i].Options) {
			continue
		}
		opt := Questions[i].Options[sel]
		responses[i] = Response{Value: opt.Value, Weight: opt.Weight}
	}
	return responses
}
