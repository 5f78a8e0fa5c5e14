package ats

import (
	"fmt"
	"math"
)

// Default aggregation weights for resume scoring. Keyword match carries the
// most influence, structure and formatting follow, readability is secondary.
const (
	DefaultKeywordWeight     = 0.40
	DefaultStructureWeight   = 0.25
	DefaultFormattingWeight  = 0.20
	DefaultReadabilityWeight = 0.15
)

// Default weights for the cover letter analogue.
const (
	DefaultCoverLetterKeywordWeight         = 0.35
	DefaultCoverLetterStructureWeight       = 0.25
	DefaultCoverLetterPersonalizationWeight = 0.20
	DefaultCoverLetterReadabilityWeight     = 0.20
)

// Default weights for the interview answer analogue.
const (
	DefaultInterviewStarWeight        = 0.40
	DefaultInterviewRelevanceWeight   = 0.20
	DefaultInterviewSpecificityWeight = 0.20
	DefaultInterviewDeliveryWeight    = 0.20
)

const (
	// DefaultThreshold is the sub-score below which an improvement is emitted.
	DefaultThreshold = 70

	// DefaultMaxKeywords caps the number of keywords extracted from a job description.
	DefaultMaxKeywords = 25

	// DefaultMaxInputBytes bounds the text handed to the tokenizer.
	DefaultMaxInputBytes = 512 * 1024

	weightTolerance = 1e-6
)

// OversizePolicy selects what happens to text longer than Settings.MaxInputBytes.
type OversizePolicy string

const (
	OversizeTruncate OversizePolicy = "truncate"
	OversizeReject   OversizePolicy = "reject"
)

// Weights are the resume aggregation weights. They must sum to 1.
type Weights struct {
	KeywordMatch float64 `json:"keywordMatch"`
	Structure    float64 `json:"structure"`
	Formatting   float64 `json:"formatting"`
	Readability  float64 `json:"readability"`
}

// CoverLetterWeights are the cover letter aggregation weights.
type CoverLetterWeights struct {
	KeywordMatch    float64 `json:"keywordMatch"`
	Structure       float64 `json:"structure"`
	Personalization float64 `json:"personalization"`
	Readability     float64 `json:"readability"`
}

// InterviewWeights are the interview answer aggregation weights.
type InterviewWeights struct {
	Star        float64 `json:"star"`
	Relevance   float64 `json:"relevance"`
	Specificity float64 `json:"specificity"`
	Delivery    float64 `json:"delivery"`
}

// Settings is the scoring configuration table.
type Settings struct {
	Weights              Weights
	CoverLetterWeights   CoverLetterWeights
	InterviewWeights     InterviewWeights
	Threshold            int
	CoverLetterThreshold int
	InterviewThreshold   int
	MaxKeywords          int
	MaxInputBytes        int
	OversizePolicy       OversizePolicy
}

// DefaultSettings returns the documented default scoring table.
func DefaultSettings() Settings {
	return Settings{
		Weights: Weights{
			KeywordMatch: DefaultKeywordWeight,
			Structure:    DefaultStructureWeight,
			Formatting:   DefaultFormattingWeight,
			Readability:  DefaultReadabilityWeight,
		},
		CoverLetterWeights: CoverLetterWeights{
			KeywordMatch:    DefaultCoverLetterKeywordWeight,
			Structure:       DefaultCoverLetterStructureWeight,
			Personalization: DefaultCoverLetterPersonalizationWeight,
			Readability:     DefaultCoverLetterReadabilityWeight,
		},
		InterviewWeights: InterviewWeights{
			Star:        DefaultInterviewStarWeight,
			Relevance:   DefaultInterviewRelevanceWeight,
			Specificity: DefaultInterviewSpecificityWeight,
			Delivery:    DefaultInterviewDeliveryWeight,
		},
		Threshold:            DefaultThreshold,
		CoverLetterThreshold: DefaultThreshold,
		InterviewThreshold:   DefaultThreshold,
		MaxKeywords:          DefaultMaxKeywords,
		MaxInputBytes:        DefaultMaxInputBytes,
		OversizePolicy:       OversizeTruncate,
	}
}

// Validate checks that every weight set sums to 1 and limits are positive.
func (s Settings) Validate() error {
	w := s.Weights
	if err := validateWeightSet("resume", w.KeywordMatch, w.Structure, w.Formatting, w.Readability); err != nil {
		return err
	}
	c := s.CoverLetterWeights
	if err := validateWeightSet("cover letter", c.KeywordMatch, c.Structure, c.Personalization, c.Readability); err != nil {
		return err
	}
	i := s.InterviewWeights
	if err := validateWeightSet("interview", i.Star, i.Relevance, i.Specificity, i.Delivery); err != nil {
		return err
	}

	thresholds := []struct {
		name  string
		value int
	}{
		{"threshold", s.Threshold},
		{"cover letter threshold", s.CoverLetterThreshold},
		{"interview threshold", s.InterviewThreshold},
	}
	for _, t := range thresholds {
		if t.value < 0 || t.value > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", t.name, t.value)
		}
	}

	if s.MaxKeywords <= 0 {
		return fmt.Errorf("max keywords must be positive, got %d", s.MaxKeywords)
	}
	if s.MaxInputBytes <= 0 {
		return fmt.Errorf("max input bytes must be positive, got %d", s.MaxInputBytes)
	}

	switch s.OversizePolicy {
	case OversizeTruncate, OversizeReject:
		return nil
	default:
		return fmt.Errorf("invalid oversize policy: %s (must be 'truncate' or 'reject')", s.OversizePolicy)
	}
}

func validateWeightSet(name string, weights ...float64) error {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s weights must not be negative", name)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%s weights must sum to 1, got %.4f", name, sum)
	}
	return nil
}
