package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newslens/internal/aggregator"
	"newslens/internal/core"
	"newslens/internal/personalize"
	"newslens/internal/survey"
)

// perspectiveLimit caps each bucket of the perspective feed.
const perspectiveLimit = 10

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleStories handles GET /api/stories?category=&refresh=
// refresh=true runs a live aggregation pass for the requested category
// before listing; the live path requires a category.
func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	refresh := r.URL.Query().Get("refresh") == "true"

	if refresh {
		if category == "" {
			s.respondError(w, http.StatusBadRequest, "category is required when refresh=true")
			return
		}
		if s.runner == nil {
			s.respondError(w, http.StatusServiceUnavailable, "live aggregation is not configured")
			return
		}
		if _, err := s.runner.Run(r.Context(), aggregator.RunOptions{
			Category: category,
			NewsType: core.NewsTypeDynamic,
		}); err != nil {
			// Degrade to whatever is already stored.
			s.log.Error("Live aggregation failed", "category", category, "error", err)
		}
	}

	stories, err := s.store.ListStories(category, 0)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load stories")
		return
	}
	if stories == nil {
		stories = []core.Story{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"stories": stories,
		"count":   len(stories),
	})
}

// handleGetStory handles GET /api/stories/{id}
func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	story, err := s.store.GetStory(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load story")
		return
	}
	if story == nil {
		s.respondError(w, http.StatusNotFound, "story not found")
		return
	}
	s.respondJSON(w, http.StatusOK, story)
}

// handlePerspective handles GET /api/perspective?userEmail=&type=
// type is "align", "challenge" or "all" (default).
func (s *Server) handlePerspective(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("userEmail")
	if email == "" {
		s.respondError(w, http.StatusBadRequest, "userEmail is required")
		return
	}
	feedType := r.URL.Query().Get("type")
	switch feedType {
	case "", "all", "align", "challenge":
	default:
		s.respondError(w, http.StatusBadRequest, "type must be align, challenge or all")
		return
	}

	profile, err := s.store.GetUserProfile(email)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		s.respondError(w, http.StatusNotFound, "no profile for this user, take the survey first")
		return
	}

	stories, err := s.store.ListStories("", 0)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load stories")
		return
	}

	split := personalize.Categorize(stories, profile)
	split.Affirming = capStories(split.Affirming)
	split.Challenging = capStories(split.Challenging)

	response := map[string]interface{}{
		"politicalType": profile.PoliticalType,
	}
	switch feedType {
	case "align":
		response["stories"] = split.Affirming
	case "challenge":
		response["stories"] = split.Challenging
	default:
		response["affirming"] = split.Affirming
		response["challenging"] = split.Challenging
	}
	s.respondJSON(w, http.StatusOK, response)
}

func capStories(stories []core.Story) []core.Story {
	if stories == nil {
		return []core.Story{}
	}
	if len(stories) > perspectiveLimit {
		return stories[:perspectiveLimit]
	}
	return stories
}

// SurveyRequest is the POST /api/survey payload. Either Responses
// (value/weight pairs) or Selections (option indices) must be provided.
type SurveyRequest struct {
	Email      string            `json:"email"`
	Responses  []survey.Response `json:"responses"`
	Selections []int             `json:"selections"`
}

// handleSurvey handles POST /api/survey: scores the responses, persists
// the profile when the user is identified and echoes the result.
func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	responses := req.Responses
	if len(responses) == 0 && len(req.Selections) > 0 {
		responses = survey.ResponsesFromSelections(req.Selections)
	}
	if len(responses) == 0 {
		s.respondError(w, http.StatusBadRequest, "responses or selections are required")
		return
	}

	result := survey.Score(responses)

	if req.Email != "" {
		profile := &core.UserProfile{
			Email:                 req.Email,
			CategoryScores:        result.CategoryScores,
			Axes:                  result.Axes,
			PoliticalType:         result.PoliticalType,
			EngagementScore:       result.EngagementScore,
			AntiPolarizationScore: result.AntiPolarizationScore,
			AntiPolarizationLevel: result.AntiPolarizationLevel,
			UpdatedAt:             time.Now().UTC(),
		}
		if err := s.store.SaveUserProfile(profile); err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to save profile")
			return
		}
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleSurveyQuestions handles GET /api/survey/questions
func (s *Server) handleSurveyQuestions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": survey.Questions,
	})
}

// handleBackfill handles GET /api/analysis/backfill: one bounded
// enrichment pass over stories missing analysis.
func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		s.respondError(w, http.StatusServiceUnavailable, "backfill is not configured")
		return
	}
	result, err := s.runner.Backfill(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "backfill pass failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"processed": result.Processed,
		"failed":    result.Failed,
		"remaining": result.Remaining,
	})
}

// SummarizeRequest is the POST /api/summarize payload.
type SummarizeRequest struct {
	Text string `json:"text"`
}

// handleSummarize handles POST /api/summarize: a short neutral summary
// of arbitrary text through the text-synthesis service.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if s.summarizer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "summarization is not configured")
		return
	}

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), req.Text)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "summarization failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError writes a JSON error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
