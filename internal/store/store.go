// Package store persists computed ATS scores so they can be listed and
// fetched again after the request that produced them.
package store

import (
	"context"
	"slices"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/schemas"

	"github.com/google/uuid"
)

// Record is one row of the ats_scores table
type Record struct {
	ID               uuid.UUID `json:"id"`
	OverallScore     int       `json:"overallScore"`
	KeywordScore     int       `json:"keywordScore"`
	FormatScore      int       `json:"formatScore"`
	StructureScore   int       `json:"structureScore"`
	ReadabilityScore int       `json:"readabilityScore"`
	MatchedKeywords  []string  `json:"matchedKeywords"`
	MissingKeywords  []string  `json:"missingKeywords"`
	Improvements     []string  `json:"improvements"`
	JobDescription   string    `json:"jobDescription"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Store persists score records
type Store interface {
	// Save assigns an ID and creation time when missing and returns the ID.
	Save(ctx context.Context, record Record) (uuid.UUID, error)
	// Get returns nil without error when no record has the given ID.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	Ping(ctx context.Context) error
	Close()
}

// DefaultListLimit is used when a caller asks for a non-positive limit
const DefaultListLimit = 20

// NewRecord maps a score onto a record ready to be saved.
func NewRecord(score ats.ATSScore, jobDescription string) Record {
	return Record{
		OverallScore:     score.Overall,
		KeywordScore:     score.Breakdown.KeywordMatch,
		FormatScore:      score.Breakdown.Formatting,
		StructureScore:   score.Breakdown.Structure,
		ReadabilityScore: score.Breakdown.Readability,
		MatchedKeywords:  cloneStrings(score.MatchedKeywords),
		MissingKeywords:  cloneStrings(score.MissingKeywords),
		Improvements:     cloneStrings(score.Improvements),
		JobDescription:   jobDescription,
	}
}

// Score rebuilds the ATS score a record was created from. Keyword details
// are derived from the stored keyword lists.
func (r Record) Score() ats.ATSScore {
	matched := len(r.MatchedKeywords)
	total := matched + len(r.MissingKeywords)
	return ats.ATSScore{
		Overall: r.OverallScore,
		Breakdown: ats.Breakdown{
			KeywordMatch: r.KeywordScore,
			Formatting:   r.FormatScore,
			Structure:    r.StructureScore,
			Readability:  r.ReadabilityScore,
		},
		Details: ats.Details{
			TotalKeywords:   total,
			MatchedCount:    matched,
			MatchPercentage: ats.MatchPercentage(matched, total),
		},
		MatchedKeywords: cloneStrings(r.MatchedKeywords),
		MissingKeywords: cloneStrings(r.MissingKeywords),
		Improvements:    cloneStrings(r.Improvements),
	}
}

// prepare fills the ID and timestamp and checks the record against the
// score schema.
func prepare(record Record, now func() time.Time) (Record, error) {
	if err := schemas.ValidateScore(record.Score()); err != nil {
		return Record{}, errors.NewValidationError(errors.ErrCodeSchemaViolation, "score record does not match the ATS score schema", err)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now().UTC()
	}
	return record, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func cloneStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}

func (r Record) clone() Record {
	r.MatchedKeywords = cloneStrings(r.MatchedKeywords)
	r.MissingKeywords = cloneStrings(r.MissingKeywords)
	r.Improvements = cloneStrings(r.Improvements)
	return r
}

// MemoryCapacity bounds the in-process store used without a database
const MemoryCapacity = 1000

// Open returns the store selected by cfg: Postgres behind a circuit breaker
// when the database is enabled, otherwise an in-memory store.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *errors.Logger) (Store, error) {
	if !cfg.Enabled {
		if logger != nil {
			logger.Debug("Database disabled, keeping scores in memory", "capacity", MemoryCapacity)
		}
		return NewMemoryStore(MemoryCapacity), nil
	}

	pg, err := NewPostgresStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewBreakerStore("postgres", pg, cfg.CircuitBreaker, logger), nil
}
