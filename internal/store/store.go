// Package store persists stories, their per-source enrichment and user
// profiles in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"newslens/internal/core"
	"newslens/internal/logger"
)

// Store represents the SQLite-backed persistence layer
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "newslens.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	storiesTable := `
	CREATE TABLE IF NOT EXISTS news_stories (
		id TEXT PRIMARY KEY,
		headline TEXT,
		summary TEXT,
		full_content TEXT,
		category TEXT,
		common_facts TEXT,
		image_url TEXT,
		news_type TEXT,
		published_at DATETIME,
		analyzed INTEGER DEFAULT 0,
		created_at DATETIME
	);`

	sourcesTable := `
	CREATE TABLE IF NOT EXISTS news_sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		story_id TEXT,
		title TEXT,
		source TEXT,
		link TEXT,
		FOREIGN KEY (story_id) REFERENCES news_stories (id)
	);`

	biasTable := `
	CREATE TABLE IF NOT EXISTS source_bias (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		story_id TEXT,
		source TEXT,
		bias TEXT,
		FOREIGN KEY (story_id) REFERENCES news_stories (id)
	);`

	quotesTable := `
	CREATE TABLE IF NOT EXISTS bias_quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bias_id INTEGER,
		quote TEXT,
		FOREIGN KEY (bias_id) REFERENCES source_bias (id)
	);`

	claimsTable := `
	CREATE TABLE IF NOT EXISTS unique_claims (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		story_id TEXT,
		source TEXT,
		claims TEXT,
		bias TEXT,
		FOREIGN KEY (story_id) REFERENCES news_stories (id)
	);`

	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		email TEXT PRIMARY KEY,
		category_scores TEXT,
		political_axes TEXT,
		political_type TEXT,
		engagement_score INTEGER,
		anti_polarization_score REAL,
		anti_polarization_level TEXT,
		updated_at DATETIME
	);`

	tables := []string{storiesTable, sourcesTable, biasTable, quotesTable, claimsTable, usersTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveStory persists a story and its sub-rows. The story row itself must
// succeed; sub-row failures are logged and skipped so a partially
// persisted story remains displayable.
func (s *Store) SaveStory(story *core.Story) error {
	query := `
	INSERT OR REPLACE INTO news_stories
	(id, headline, summary, full_content, category, common_facts, image_url, news_type, published_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var publishedAt interface{}
	if story.PublishedAt != nil {
		publishedAt = story.PublishedAt.UTC()
	}

	_, err := s.db.Exec(query,
		story.ID,
		story.Headline,
		story.Summary,
		story.FullContent,
		story.Category,
		story.CommonFacts,
		story.ImageURL,
		story.NewsType,
		publishedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save story %s: %w", story.ID, err)
	}

	log := logger.Get()
	for _, src := range story.Sources {
		_, err := s.db.Exec(
			"INSERT INTO news_sources (story_id, title, source, link) VALUES (?, ?, ?, ?)",
			story.ID, src.Title, src.Source, src.Link,
		)
		if err != nil {
			log.Warn("Failed to save story source", "story_id", story.ID, "source", src.Source, "error", err)
		}
	}
	s.saveBiasRows(story.ID, story.SourceBias)
	s.saveClaimRows(story.ID, story.UniqueClaims)

	return nil
}

func (s *Store) saveBiasRows(storyID string, entries []core.SourceBias) {
	log := logger.Get()
	for _, sb := range entries {
		result, err := s.db.Exec(
			"INSERT INTO source_bias (story_id, source, bias) VALUES (?, ?, ?)",
			storyID, sb.Source, string(sb.Bias),
		)
		if err != nil {
			log.Warn("Failed to save source bias", "story_id", storyID, "source", sb.Source, "error", err)
			continue
		}
		biasID, err := result.LastInsertId()
		if err != nil {
			continue
		}
		for _, quote := range sb.Quotes {
			if _, err := s.db.Exec(
				"INSERT INTO bias_quotes (bias_id, quote) VALUES (?, ?)", biasID, quote,
			); err != nil {
				log.Warn("Failed to save bias quote", "story_id", storyID, "error", err)
			}
		}
	}
}

func (s *Store) saveClaimRows(storyID string, claims []core.UniqueClaim) {
	log := logger.Get()
	for _, claim := range claims {
		if _, err := s.db.Exec(
			"INSERT INTO unique_claims (story_id, source, claims, bias) VALUES (?, ?, ?, ?)",
			storyID, claim.Source, claim.Claims, string(claim.Bias),
		); err != nil {
			log.Warn("Failed to save unique claim", "story_id", storyID, "source", claim.Source, "error", err)
		}
	}
}

// SaveAnalysis attaches enrichment to an already-persisted story. A story
// already marked analyzed is left untouched, making repeated backfill
// passes safe. Pre-enrichment bias rows from the lexical classifier are
// replaced by the analysis rows.
func (s *Store) SaveAnalysis(analysis *core.Analysis) error {
	var analyzed int
	err := s.db.QueryRow(
		"SELECT analyzed FROM news_stories WHERE id = ?", analysis.StoryID,
	).Scan(&analyzed)
	if err == sql.ErrNoRows {
		return fmt.Errorf("story %s not found", analysis.StoryID)
	}
	if err != nil {
		return fmt.Errorf("failed to check story %s: %w", analysis.StoryID, err)
	}
	if analyzed == 1 {
		return nil
	}

	// Replace classifier-derived rows with the analysis rows.
	if _, err := s.db.Exec(
		"DELETE FROM bias_quotes WHERE bias_id IN (SELECT id FROM source_bias WHERE story_id = ?)",
		analysis.StoryID,
	); err != nil {
		return fmt.Errorf("failed to clear bias quotes for %s: %w", analysis.StoryID, err)
	}
	if _, err := s.db.Exec("DELETE FROM source_bias WHERE story_id = ?", analysis.StoryID); err != nil {
		return fmt.Errorf("failed to clear source bias for %s: %w", analysis.StoryID, err)
	}
	if _, err := s.db.Exec("DELETE FROM unique_claims WHERE story_id = ?", analysis.StoryID); err != nil {
		return fmt.Errorf("failed to clear unique claims for %s: %w", analysis.StoryID, err)
	}

	s.saveBiasRows(analysis.StoryID, analysis.SourceBias)
	s.saveClaimRows(analysis.StoryID, analysis.UniqueClaims)

	if _, err := s.db.Exec(
		"UPDATE news_stories SET analyzed = 1 WHERE id = ?", analysis.StoryID,
	); err != nil {
		return fmt.Errorf("failed to mark story %s analyzed: %w", analysis.StoryID, err)
	}
	return nil
}

// GetStory retrieves a single story with its sub-rows, or nil when not
// found.
func (s *Store) GetStory(storyID string) (*core.Story, error) {
	row := s.db.QueryRow(`
	SELECT id, headline, summary, full_content, category, common_facts, image_url, news_type, published_at
	FROM news_stories WHERE id = ?`, storyID)

	story, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan story: %w", err)
	}

	if err := s.loadStoryRows(story); err != nil {
		return nil, err
	}
	return story, nil
}

// ListStories returns stories newest first, optionally filtered by
// category. Sub-rows are attached to every returned story.
func (s *Store) ListStories(category string, limit int) ([]core.Story, error) {
	query := `
	SELECT id, headline, summary, full_content, category, common_facts, image_url, news_type, published_at
	FROM news_stories`
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	var stories []core.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, *story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}

	for i := range stories {
		if err := s.loadStoryRows(&stories[i]); err != nil {
			return nil, err
		}
	}
	return stories, nil
}

// ListStoryIDsMissingAnalysis returns IDs of stories not yet enriched,
// oldest first, capped at limit.
func (s *Store) ListStoryIDsMissingAnalysis(limit int) ([]string, error) {
	query := "SELECT id FROM news_stories WHERE analyzed = 0 ORDER BY created_at ASC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unanalyzed stories: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan story id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountStoriesMissingAnalysis returns how many stories still lack
// enrichment.
func (s *Store) CountStoriesMissingAnalysis() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM news_stories WHERE analyzed = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unanalyzed stories: %w", err)
	}
	return count, nil
}

// SaveUserProfile upserts a profile keyed by email. Scores and axes are
// stored as JSON documents.
func (s *Store) SaveUserProfile(profile *core.UserProfile) error {
	scores, _ := json.Marshal(profile.CategoryScores)
	axes, _ := json.Marshal(profile.Axes)

	query := `
	INSERT OR REPLACE INTO users
	(email, category_scores, political_axes, political_type, engagement_score, anti_polarization_score, anti_polarization_level, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		profile.Email,
		string(scores),
		string(axes),
		profile.PoliticalType,
		profile.EngagementScore,
		profile.AntiPolarizationScore,
		profile.AntiPolarizationLevel,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile for %s: %w", profile.Email, err)
	}
	return nil
}

// GetUserProfile retrieves a profile by email, or nil when the user has
// not taken the survey.
func (s *Store) GetUserProfile(email string) (*core.UserProfile, error) {
	row := s.db.QueryRow(`
	SELECT email, category_scores, political_axes, political_type, engagement_score, anti_polarization_score, anti_polarization_level, updated_at
	FROM users WHERE email = ?`, email)

	var profile core.UserProfile
	var scoresJSON, axesJSON string

	err := row.Scan(
		&profile.Email,
		&scoresJSON,
		&axesJSON,
		&profile.PoliticalType,
		&profile.EngagementScore,
		&profile.AntiPolarizationScore,
		&profile.AntiPolarizationLevel,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	_ = json.Unmarshal([]byte(scoresJSON), &profile.CategoryScores)
	_ = json.Unmarshal([]byte(axesJSON), &profile.Axes)
	return &profile, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStory(row scanner) (*core.Story, error) {
	var story core.Story
	var publishedAt sql.NullTime

	err := row.Scan(
		&story.ID,
		&story.Headline,
		&story.Summary,
		&story.FullContent,
		&story.Category,
		&story.CommonFacts,
		&story.ImageURL,
		&story.NewsType,
		&publishedAt,
	)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		story.PublishedAt = &t
	}
	return &story, nil
}

// loadStoryRows attaches sources, bias entries with quotes and claims.
func (s *Store) loadStoryRows(story *core.Story) error {
	rows, err := s.db.Query(
		"SELECT title, source, link FROM news_sources WHERE story_id = ? ORDER BY id", story.ID)
	if err != nil {
		return fmt.Errorf("failed to load sources for %s: %w", story.ID, err)
	}
	for rows.Next() {
		var src core.NewsSource
		if err := rows.Scan(&src.Title, &src.Source, &src.Link); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan source: %w", err)
		}
		story.Sources = append(story.Sources, src)
	}
	rows.Close()

	biasRows, err := s.db.Query(
		"SELECT id, source, bias FROM source_bias WHERE story_id = ? ORDER BY id", story.ID)
	if err != nil {
		return fmt.Errorf("failed to load bias for %s: %w", story.ID, err)
	}
	type biasRow struct {
		id    int64
		entry core.SourceBias
	}
	var entries []biasRow
	for biasRows.Next() {
		var r biasRow
		var label string
		if err := biasRows.Scan(&r.id, &r.entry.Source, &label); err != nil {
			biasRows.Close()
			return fmt.Errorf("failed to scan bias: %w", err)
		}
		r.entry.Bias = core.Bias(label)
		entries = append(entries, r)
	}
	biasRows.Close()

	for i := range entries {
		quoteRows, err := s.db.Query(
			"SELECT quote FROM bias_quotes WHERE bias_id = ? ORDER BY id", entries[i].id)
		if err != nil {
			return fmt.Errorf("failed to load quotes for %s: %w", story.ID, err)
		}
		for quoteRows.Next() {
			var quote string
			if err := quoteRows.Scan(&quote); err != nil {
				quoteRows.Close()
				return fmt.Errorf("failed to scan quote: %w", err)
			}
			entries[i].entry.Quotes = append(entries[i].entry.Quotes, quote)
		}
		quoteRows.Close()
		story.SourceBias = append(story.SourceBias, entries[i].entry)
	}

	claimRows, err := s.db.Query(
		"SELECT source, claims, bias FROM unique_claims WHERE story_id = ? ORDER BY id", story.ID)
	if err != nil {
		return fmt.Errorf("failed to load claims for %s: %w", story.ID, err)
	}
	defer claimRows.Close()
	for claimRows.Next() {
		var claim core.UniqueClaim
		var label string
		if err := claimRows.Scan(&claim.Source, &claim.Claims, &label); err != nil {
			return fmt.Errorf("failed to scan claim: %w", err)
		}
		claim.Bias = core.Bias(label)
		story.UniqueClaims = append(story.UniqueClaims, claim)
	}
	return claimRows.Err()
}
