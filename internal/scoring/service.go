// Package scoring runs the ATS engine on behalf of the CLI and the HTTP
// server: it owns the current engine, persists scores and records metrics.
package scoring

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/observability"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/store"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Service handles scoring operations for resumes, cover letters and
// interview answers
type Service struct {
	engine atomic.Pointer[ats.Engine]
	store  store.Store
	batch  config.BatchConfig
	om     *observability.ObservabilityManager
	logger *errors.Logger
}

// NewService creates a scoring service around engine. A nil store keeps
// scores in memory.
func NewService(engine *ats.Engine, st store.Store, batch config.BatchConfig, om *observability.ObservabilityManager, logger *errors.Logger) *Service {
	if logger == nil {
		logger = errors.Discard()
	}
	if st == nil {
		st = store.NewMemoryStore(store.MemoryCapacity)
	}
	if batch.Concurrency <= 0 {
		batch.Concurrency = 1
	}

	s := &Service{
		store:  st,
		batch:  batch,
		om:     om,
		logger: logger,
	}
	s.engine.Store(engine)

	settings := engine.Settings()
	logger.Debug("Initializing scoring service",
		"threshold", settings.Threshold,
		"max_keywords", settings.MaxKeywords,
		"max_input_bytes", settings.MaxInputBytes,
		"oversize_policy", settings.OversizePolicy,
		"batch_concurrency", batch.Concurrency)

	return s
}

// Engine returns the engine currently used for scoring.
func (s *Service) Engine() *ats.Engine {
	return s.engine.Load()
}

// SwapEngine installs engine for all subsequent requests and returns the
// previous one. Requests already running finish on the old engine.
func (s *Service) SwapEngine(engine *ats.Engine) *ats.Engine {
	return s.engine.Swap(engine)
}

// ReloadBank rebuilds the engine from a keyword bank file, keeping the
// current settings.
func (s *Service) ReloadBank(ctx context.Context, path string) error {
	metrics := s.om.GetMetrics()

	bank, err := config.LoadBankFile(path)
	if err == nil {
		var engine *ats.Engine
		engine, err = ats.NewEngine(ats.WithBank(bank), ats.WithSettings(s.Engine().Settings()))
		if err == nil {
			s.SwapEngine(engine)
		}
	}

	metrics.RecordBusinessMetric(ctx, "bank_reloaded", err == nil, s.om, attribute.String("file", path))
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to reload keyword bank", err).
			WithContext("file", path)
	}

	s.logger.Info("Keyword bank reloaded", "file", path)
	return nil
}

// Store returns the score store.
func (s *Service) Store() store.Store {
	return s.store
}

// ScoreResume scores a resume and, when requested, saves the result.
func (s *Service) ScoreResume(ctx context.Context, input types.ScoreResumeInput) (types.ScoreResumeOutput, error) {
	engine := s.Engine()
	metrics := s.om.GetMetrics()

	var score ats.ATSScore
	err := metrics.TrackScoringOperation(ctx, "resume", func(ctx context.Context) *observability.ScoringResult {
		var scoreErr error
		score, scoreErr = engine.CalculateATSScore(input.ResumeText, input.JobDescription)
		return &observability.ScoringResult{
			Error:      wrapEngineError(scoreErr, "resume"),
			Overall:    score.Overall,
			InputBytes: len(input.ResumeText),
		}
	}, s.om)
	metrics.RecordBusinessMetric(ctx, "resume_scored", err == nil, s.om)
	if err != nil {
		return types.ScoreResumeOutput{}, err
	}
	metrics.RecordInputSize(ctx, "resume", len(input.ResumeText), s.om)

	output := resumeOutput(score, engine.Settings().Threshold)
	s.logger.Debug("Resume scored",
		"overall", score.Overall,
		"matched", score.Details.MatchedCount,
		"total_keywords", score.Details.TotalKeywords)

	if input.Save {
		id, err := s.save(ctx, score, input.JobDescription)
		if err != nil {
			return types.ScoreResumeOutput{}, err
		}
		output.ID = id.String()
	}
	return output, nil
}

// ScoreCoverLetter scores a cover letter against a job description.
func (s *Service) ScoreCoverLetter(ctx context.Context, input types.ScoreCoverLetterInput) (types.ScoreCoverLetterOutput, error) {
	engine := s.Engine()
	metrics := s.om.GetMetrics()

	var score ats.CoverLetterScore
	err := metrics.TrackScoringOperation(ctx, "cover_letter", func(ctx context.Context) *observability.ScoringResult {
		var scoreErr error
		score, scoreErr = engine.CalculateCoverLetterScore(input.CoverLetterText, input.JobDescription)
		return &observability.ScoringResult{
			Error:      wrapEngineError(scoreErr, "cover letter"),
			Overall:    score.Overall,
			InputBytes: len(input.CoverLetterText),
		}
	}, s.om)
	metrics.RecordBusinessMetric(ctx, "cover_letter_scored", err == nil, s.om)
	if err != nil {
		return types.ScoreCoverLetterOutput{}, err
	}

	threshold := engine.Settings().CoverLetterThreshold
	return types.ScoreCoverLetterOutput{
		CoverLetterScore: score,
		Passed:           score.Overall >= threshold,
		Threshold:        threshold,
	}, nil
}

// ScoreInterview scores a behavioral interview answer.
func (s *Service) ScoreInterview(ctx context.Context, input types.ScoreInterviewInput) (types.ScoreInterviewOutput, error) {
	engine := s.Engine()
	metrics := s.om.GetMetrics()

	var score ats.InterviewScore
	err := metrics.TrackScoringOperation(ctx, "interview_answer", func(ctx context.Context) *observability.ScoringResult {
		var scoreErr error
		score, scoreErr = engine.ScoreInterviewAnswer(input.Question, input.Answer)
		return &observability.ScoringResult{
			Error:      wrapEngineError(scoreErr, "interview answer"),
			Overall:    score.Overall,
			InputBytes: len(input.Answer),
		}
	}, s.om)
	metrics.RecordBusinessMetric(ctx, "interview_answer_scored", err == nil, s.om)
	if err != nil {
		return types.ScoreInterviewOutput{}, err
	}

	threshold := engine.Settings().InterviewThreshold
	return types.ScoreInterviewOutput{
		InterviewScore: score,
		Passed:         score.Overall >= threshold,
		Threshold:      threshold,
	}, nil
}

// ExtractKeywords lists the keywords a job description would be scored
// against.
func (s *Service) ExtractKeywords(ctx context.Context, input types.ExtractKeywordsInput) (types.KeywordsOutput, error) {
	keywords, err := s.Engine().ExtractKeywords(input.JobDescription)
	s.om.GetMetrics().RecordBusinessMetric(ctx, "keywords_extracted", err == nil, s.om)
	if err != nil {
		return types.KeywordsOutput{}, wrapEngineError(err, "job description")
	}
	if keywords == nil {
		keywords = []string{}
	}

	source := "job"
	if strings.TrimSpace(input.JobDescription) == "" {
		source = "generic"
	}
	return types.KeywordsOutput{
		Keywords: keywords,
		Count:    len(keywords),
		Source:   source,
	}, nil
}

// GetScore loads a saved score by ID.
func (s *Service) GetScore(ctx context.Context, rawID string) (types.StoredScore, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return types.StoredScore{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid score id %q", rawID), err)
	}

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return types.StoredScore{}, err
	}
	if record == nil {
		return types.StoredScore{}, errors.NewStorageError(errors.ErrCodeNotFound,
			fmt.Sprintf("score %s not found", id), nil)
	}
	return storedScore(*record), nil
}

// ListScores returns up to limit saved scores, newest first.
func (s *Service) ListScores(ctx context.Context, limit int) (types.ScoreHistoryOutput, error) {
	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return types.ScoreHistoryOutput{}, err
	}

	scores := make([]types.StoredScore, 0, len(records))
	for _, record := range records {
		scores = append(scores, storedScore(record))
	}
	return types.ScoreHistoryOutput{Scores: scores, Count: len(scores)}, nil
}

// Stats reports the active settings, vocabulary sizes and store state.
func (s *Service) Stats() map[string]any {
	engine := s.Engine()
	bank := engine.Bank()
	return map[string]any{
		"settings": engine.Settings(),
		"keywordBank": map[string]int{
			"technical":   len(bank.Technical),
			"softSkills":  len(bank.SoftSkills),
			"generic":     len(bank.Generic),
			"actionVerbs": len(bank.ActionVerbs),
		},
		"batch": map[string]int{
			"concurrency": s.batch.Concurrency,
			"maxItems":    s.batch.MaxItems,
		},
		"storeBreaker": store.BreakerStats(s.store),
	}
}

func (s *Service) save(ctx context.Context, score ats.ATSScore, jobDescription string) (uuid.UUID, error) {
	id, err := s.store.Save(ctx, store.NewRecord(score, jobDescription))
	s.om.GetMetrics().RecordBusinessMetric(ctx, "store_write", err == nil, s.om)
	if err != nil {
		s.logger.LogError(err, "Failed to save score")
		return uuid.Nil, err
	}
	s.logger.Debug("Score saved", "score_id", id.String())
	return id, nil
}

func resumeOutput(score ats.ATSScore, threshold int) types.ScoreResumeOutput {
	return types.ScoreResumeOutput{
		ATSScore:  score,
		Passed:    score.Passed(threshold),
		Threshold: threshold,
	}
}

func storedScore(record store.Record) types.StoredScore {
	return types.StoredScore{
		ID:             record.ID.String(),
		CreatedAt:      record.CreatedAt,
		JobDescription: record.JobDescription,
		Score:          record.Score(),
	}
}

// wrapEngineError maps engine input errors onto validation errors.
func wrapEngineError(err error, document string) error {
	if err == nil {
		return nil
	}
	if ats.IsInputTooLarge(err) {
		return errors.NewValidationError(errors.ErrCodeInputTooLarge, document+" is too large", err)
	}
	if ats.IsInvalidInput(err) {
		return errors.NewValidationError(errors.ErrCodeInvalidInput, "invalid "+document, err)
	}
	return errors.NewScoringError(errors.ErrCodeScoringFailed, "failed to score "+document, err)
}
