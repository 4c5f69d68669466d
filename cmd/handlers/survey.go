package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/store"
	"newslens/internal/survey"
)

// NewSurveyScoreCmd creates the survey-score command
func NewSurveyScoreCmd() *cobra.Command {
	var (
		email     string
		inputFile string
	)

	cmd := &cobra.Command{
		Use:   "survey-score",
		Short: "Score survey responses into a political profile",
		Long: `Score a set of survey responses into category scores, derived axes and
a political type label. Responses are read as JSON from a file or stdin:
either [{"value": 10, "weight": 1.2}, ...] aligned with the question
order, or {"selections": [0, 2, 1, ...]} with per-question option indices.

With --email the resulting profile is persisted so the perspective feed
can use it.

Examples:
  newslens survey-score --input responses.json
  cat responses.json | newslens survey-score --email reader@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurveyScore(email, inputFile)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Persist the profile for this user")
	cmd.Flags().StringVar(&inputFile, "input", "", "JSON responses file (default stdin)")

	return cmd
}

func runSurveyScore(email, inputFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data := os.Stdin
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		data = f
	}

	responses, err := decodeResponses(data)
	if err != nil {
		return err
	}

	result := survey.Score(responses)

	if email != "" {
		st, err := store.NewStore(cfg.Store.Directory)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		profile := &core.UserProfile{
			Email:                 email,
			CategoryScores:        result.CategoryScores,
			Axes:                  result.Axes,
			PoliticalType:         result.PoliticalType,
			EngagementScore:       result.EngagementScore,
			AntiPolarizationScore: result.AntiPolarizationScore,
			AntiPolarizationLevel: result.AntiPolarizationLevel,
			UpdatedAt:             time.Now().UTC(),
		}
		if err := st.SaveUserProfile(profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// decodeResponses accepts either a bare response array or an object with
// a "selections" index list.
func decodeResponses(f *os.File) ([]survey.Response, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse responses: %w", err)
	}

	var responses []survey.Response
	if err := json.Unmarshal(raw, &responses); err == nil && len(responses) > 0 {
		return responses, nil
	}

	var wrapper struct {
		Selections []int `json:"selections"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Selections) > 0 {
		return survey.ResponsesFromSelections(wrapper.Selections), nil
	}

	return nil, fmt.Errorf("no responses found in input")
}
