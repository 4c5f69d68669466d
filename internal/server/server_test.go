package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"newslens/internal/aggregator"
	"newslens/internal/config"
	"newslens/internal/core"
	"newslens/internal/store"
	"newslens/internal/survey"
)

// fakeRunner records calls and returns canned results.
type fakeRunner struct {
	runCalls      int
	lastCategory  string
	backfillCalls int
}

func (f *fakeRunner) Run(ctx context.Context, opts aggregator.RunOptions) (*aggregator.RunResult, error) {
	f.runCalls++
	f.lastCategory = opts.Category
	return &aggregator.RunResult{}, nil
}

func (f *fakeRunner) Backfill(ctx context.Context) (*aggregator.BackfillResult, error) {
	f.backfillCalls++
	return &aggregator.BackfillResult{Processed: 2, Remaining: 1}, nil
}

// fakeSummarizer echoes a canned summary.
type fakeSummarizer struct{}

func (fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return "A short summary.", nil
}

func newTestServer(t *testing.T) (*Server, *store.Store, *fakeRunner) {
	t.Helper()
	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	runner := &fakeRunner{}
	cfg := config.Server{Host: "127.0.0.1", Port: 8080}
	return New(st, runner, fakeSummarizer{}, cfg), st, runner
}

func seedStories(t *testing.T, st *store.Store, n int, category string, bias core.Bias) {
	t.Helper()
	for i := 0; i < n; i++ {
		story := &core.Story{
			ID:       fmt.Sprintf("%s-%d", category, i),
			Headline: fmt.Sprintf("Story %d", i),
			Category: category,
			NewsType: core.NewsTypeStatic,
			SourceBias: []core.SourceBias{
				{Source: "Reuters", Bias: bias, Quotes: []string{"q."}},
			},
		}
		if err := st.SaveStory(story); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
}

func TestStories_ListAndFilter(t *testing.T) {
	s, st, _ := newTestServer(t)
	seedStories(t, st, 2, core.CategoryUSPolitics, core.BiasLeft)
	seedStories(t, st, 1, core.CategoryHealth, core.BiasCenter)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/stories", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 3 {
		t.Errorf("expected 3 stories, got %d", body.Count)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/stories?category=health", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 {
		t.Errorf("expected 1 health story, got %d", body.Count)
	}
}

func TestStories_RefreshRequiresCategory(t *testing.T) {
	s, _, runner := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/stories?refresh=true", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("refresh without category = %d, want 400", rec.Code)
	}
	if runner.runCalls != 0 {
		t.Error("runner must not be invoked on a rejected request")
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/stories?refresh=true&category=us", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live refresh = %d", rec.Code)
	}
	if runner.runCalls != 1 || runner.lastCategory != "us" {
		t.Errorf("expected one run for category us, got %d calls for %q",
			runner.runCalls, runner.lastCategory)
	}
}

func TestGetStory_NotFound(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/stories/ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing story = %d, want 404", rec.Code)
	}
}

func TestPerspective_Validation(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/perspective", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing userEmail = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/perspective?userEmail=x@y.test", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("no profile = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/perspective?userEmail=x@y.test&type=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad type = %d, want 400", rec.Code)
	}
}

func TestPerspective_BucketsAndCap(t *testing.T) {
	s, st, _ := newTestServer(t)

	// 12 left stories against a strongly progressive profile: all affirm
	// under the axes policy, capped at 10.
	seedStories(t, st, 12, core.CategoryUSPolitics, core.BiasLeft)
	profile := &core.UserProfile{
		Email:         "x@y.test",
		PoliticalType: "Progressive",
		Axes:          core.PoliticalAxes{SocialScore: 8},
	}
	if err := st.SaveUserProfile(profile); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/perspective?userEmail=x@y.test", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		PoliticalType string       `json:"politicalType"`
		Affirming     []core.Story `json:"affirming"`
		Challenging   []core.Story `json:"challenging"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.PoliticalType != "Progressive" {
		t.Errorf("politicalType = %q", body.PoliticalType)
	}
	if len(body.Affirming) != 10 {
		t.Errorf("affirming bucket must be capped at 10, got %d", len(body.Affirming))
	}
	if len(body.Challenging) != 0 {
		t.Errorf("expected no challenging stories, got %d", len(body.Challenging))
	}

	// type=align returns a single bucket.
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/perspective?userEmail=x@y.test&type=align", nil))
	var single struct {
		Stories []core.Story `json:"stories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &single); err != nil {
		t.Fatal(err)
	}
	if len(single.Stories) != 10 {
		t.Errorf("align feed = %d stories, want 10", len(single.Stories))
	}
}

func TestSurvey_ScoresAndPersists(t *testing.T) {
	s, st, _ := newTestServer(t)

	responses := make([]survey.Response, len(survey.Questions))
	for i := range responses {
		responses[i] = survey.Response{Value: 10, Weight: 1}
	}
	payload, _ := json.Marshal(SurveyRequest{Email: "x@y.test", Responses: responses})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/survey", bytes.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result survey.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.PoliticalType != "Globalist Pragmatic Progressive Libertarian" {
		t.Errorf("politicalType = %q", result.PoliticalType)
	}

	profile, err := st.GetUserProfile("x@y.test")
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil || profile.PoliticalType != result.PoliticalType {
		t.Errorf("profile not persisted: %+v", profile)
	}
}

func TestSurvey_BadRequests(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/survey", bytes.NewReader([]byte("not json"))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid body = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/survey", bytes.NewReader([]byte("{}"))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty responses = %d, want 400", rec.Code)
	}
}

func TestBackfillEndpoint(t *testing.T) {
	s, _, runner := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/analysis/backfill", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if runner.backfillCalls != 1 {
		t.Errorf("expected one backfill call, got %d", runner.backfillCalls)
	}

	var body struct {
		Processed int `json:"processed"`
		Remaining int `json:"remaining"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Processed != 2 || body.Remaining != 1 {
		t.Errorf("unexpected counts: %+v", body)
	}
}

func TestSummarizeEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	payload := []byte(`{"text": "A long article body."}`)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/summarize", bytes.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Summary != "A short summary." {
		t.Errorf("summary = %q", body.Summary)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/summarize", bytes.NewReader([]byte(`{}`))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty text = %d, want 400", rec.Code)
	}
}

func TestSurveyQuestionsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/survey/questions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Questions []survey.Question `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Questions) != 18 {
		t.Errorf("expected 18 questions, got %d", len(body.Questions))
	}
}
