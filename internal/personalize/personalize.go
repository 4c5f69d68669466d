// Package personalize buckets stories into "affirming" and "challenging"
// feeds by comparing story-level bias against a user's political profile.
//
// Two policies exist, selected by which profile representation is
// available. The profile-scores policy reduces four category scores to a
// single 0-10 scalar and compares it against the first source's bias label.
// The stored-axes policy uses the derived social axis (-10..10) against the
// story's average bias. Both are deliberately coarse single-axis filters.
package personalize

import (
	"math"

	"newslens/internal/core"
)

// Split is a personalized partition of stories.
type Split struct {
	Affirming   []core.Story `json:"affirming"`
	Challenging []core.Story `json:"challenging"`
}

// Category scores feeding the profile-scores policy.
var scalarCategories = []string{
	"Individual Rights",
	"Economic Systems",
	"Government Role",
	"Social Issues",
}

const (
	defaultCategoryScore = 5.0
	scoresThreshold      = 3.0 // |user - story| below this is affirming
	axesThreshold        = 7.0 // wider band on the -10..10 scale
)

// UserScalar reduces a profile's category scores to a single 0-10 value,
// higher meaning further left by this system's convention. Missing
// categories default to the midpoint.
func UserScalar(categoryScores map[string]float64) float64 {
	total := 0.0
	for _, cat := range scalarCategories {
		score, ok := categoryScores[cat]
		if !ok {
			score = defaultCategoryScore
		}
		total += score
	}
	return total / float64(len(scalarCategories))
}

// biasScalar maps a bias label onto the 0-10 scale.
func biasScalar(b core.Bias) float64 {
	switch b {
	case core.BiasLeft:
		return 8
	case core.BiasRight:
		return 2
	default:
		return 5
	}
}

// ByProfileScores is the profile-scores policy: each story is judged by
// its first listed source's bias only (ByStoredAxes holds the averaging
// alternative), stories without bias data count as center.
func ByProfileScores(stories []core.Story, categoryScores map[string]float64) Split {
	user := UserScalar(categoryScores)

	var split Split
	for _, story := range stories {
		storyScalar := 5.0
		if len(story.SourceBias) > 0 {
			storyScalar = biasScalar(story.SourceBias[0].Bias)
		}
		if math.Abs(user-storyScalar) < scoresThreshold {
			split.Affirming = append(split.Affirming, story)
		} else {
			split.Challenging = append(split.Challenging, story)
		}
	}
	return split
}

// averageBias maps a story's bias entries onto the -10..10 axis scale.
// Left sources pull toward 7, right toward 3, center sits at 5 on the raw
// scale before the (avg-5)*2 conversion. The second return is false when
// the story has no usable bias entries.
func averageBias(story *core.Story) (float64, bool) {
	total := 0.0
	count := 0
	for _, sb := range story.SourceBias {
		switch sb.Bias {
		case core.BiasLeft:
			total += 7
			count++
		case core.BiasRight:
			total += 3
			count++
		case core.BiasCenter:
			total += 5
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	avg := total / float64(count)
	return (avg - 5) * 2, true
}

// ByStoredAxes is the stored-axes policy: the user's social axis score
// (-10..10, higher is more progressive) against each story's average bias
// across all its sources. Stories with no bias information are skipped
// rather than defaulted.
func ByStoredAxes(stories []core.Story, axes core.PoliticalAxes) Split {
	leaning := axes.SocialScore

	var split Split
	for _, story := range stories {
		storyBias, ok := averageBias(&story)
		if !ok {
			continue
		}
		if math.Abs(leaning-storyBias) < axesThreshold {
			split.Affirming = append(split.Affirming, story)
		} else {
			split.Challenging = append(split.Challenging, story)
		}
	}
	return split
}

// Categorize picks the policy for the given profile: stored axes when the
// survey has produced them, otherwise the raw category scores.
func Categorize(stories []core.Story, profile *core.UserProfile) Split {
	if profile.HasAxes() {
		return ByStoredAxes(stories, profile.Axes)
	}
	return ByProfileScores(stories, profile.CategoryScores)
}
