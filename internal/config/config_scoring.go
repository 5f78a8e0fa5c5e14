package config

import (
	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"
)

// GetCoverLetterThreshold returns the cover letter threshold with fallback to the global one
func (c *Config) GetCoverLetterThreshold() int {
	if c.Scoring.CoverLetter.Threshold != nil {
		return *c.Scoring.CoverLetter.Threshold
	}
	return c.Scoring.Threshold
}

// GetInterviewThreshold returns the interview threshold with fallback to the global one
func (c *Config) GetInterviewThreshold() int {
	if c.Scoring.Interview.Threshold != nil {
		return *c.Scoring.Interview.Threshold
	}
	return c.Scoring.Threshold
}

// EngineSettings maps the scoring section onto the engine's settings table.
func (c *Config) EngineSettings() ats.Settings {
	s := c.Scoring
	return ats.Settings{
		Weights: ats.Weights{
			KeywordMatch: s.Weights.KeywordMatch,
			Structure:    s.Weights.Structure,
			Formatting:   s.Weights.Formatting,
			Readability:  s.Weights.Readability,
		},
		CoverLetterWeights: ats.CoverLetterWeights{
			KeywordMatch:    s.CoverLetter.Weights.KeywordMatch,
			Structure:       s.CoverLetter.Weights.Structure,
			Personalization: s.CoverLetter.Weights.Personalization,
			Readability:     s.CoverLetter.Weights.Readability,
		},
		InterviewWeights: ats.InterviewWeights{
			Star:        s.Interview.Weights.Star,
			Relevance:   s.Interview.Weights.Relevance,
			Specificity: s.Interview.Weights.Specificity,
			Delivery:    s.Interview.Weights.Delivery,
		},
		Threshold:            s.Threshold,
		CoverLetterThreshold: c.GetCoverLetterThreshold(),
		InterviewThreshold:   c.GetInterviewThreshold(),
		MaxKeywords:          s.MaxKeywords,
		MaxInputBytes:        s.MaxInputBytes,
		OversizePolicy:       ats.OversizePolicy(s.OversizePolicy),
	}
}

// NewEngine builds a scoring engine from the configuration, loading the
// keyword bank file when one is configured.
func (c *Config) NewEngine() (*ats.Engine, error) {
	opts := []ats.Option{ats.WithSettings(c.EngineSettings())}
	if c.Scoring.BankFile != "" {
		bank, err := LoadBankFile(c.Scoring.BankFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ats.WithBank(bank))
	}
	return ats.NewEngine(opts...)
}
