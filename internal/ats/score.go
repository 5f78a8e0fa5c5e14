// Package ats scores resumes, cover letters and interview answers the way
// an applicant tracking system would, using deterministic heuristics only.
package ats

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// Breakdown holds the resume sub-scores.
type Breakdown struct {
	KeywordMatch int `json:"keywordMatch"`
	Formatting   int `json:"formatting"`
	Structure    int `json:"structure"`
	Readability  int `json:"readability"`
}

// Details summarizes keyword coverage.
type Details struct {
	TotalKeywords   int `json:"totalKeywords"`
	MatchedCount    int `json:"matchedCount"`
	MatchPercentage int `json:"matchPercentage"`
}

// ATSScore is the result of scoring a resume.
type ATSScore struct {
	Overall         int       `json:"overall"`
	Breakdown       Breakdown `json:"breakdown"`
	Details         Details   `json:"details"`
	MatchedKeywords []string  `json:"matchedKeywords"`
	MissingKeywords []string  `json:"missingKeywords"`
	Improvements    []string  `json:"improvements"`
}

// Passed reports whether the overall score meets the threshold.
func (s ATSScore) Passed(threshold int) bool {
	return s.Overall >= threshold
}

// Engine is an immutable scorer. It is safe for concurrent use.
type Engine struct {
	bank            KeywordBank
	settings        Settings
	extractor       *Extractor
	sections        map[string][]string
	actionVerbs     map[string]struct{}
	actionVerbStems map[string]struct{}
	starCues        map[string][][]string
	fillerWords     [][]string
	technical       [][]string
	stopWords       map[string]struct{}
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	bank     KeywordBank
	settings Settings
}

// WithBank replaces the built-in vocabulary.
func WithBank(bank KeywordBank) Option {
	return func(o *engineOptions) {
		o.bank = bank
	}
}

// WithSettings replaces the default weights and limits.
func WithSettings(settings Settings) Option {
	return func(o *engineOptions) {
		o.settings = settings
	}
}

// NewEngine builds an engine from the default bank and settings, adjusted
// by opts.
func NewEngine(opts ...Option) (*Engine, error) {
	o := engineOptions{bank: DefaultBank(), settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&o)
	}
	o.bank = cloneBank(o.bank)
	if err := o.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring settings: %w", err)
	}
	if err := o.bank.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		bank:            o.bank,
		settings:        o.settings,
		extractor:       NewExtractor(o.bank, o.settings.MaxKeywords),
		sections:        make(map[string][]string, len(o.bank.Sections)),
		actionVerbs:     make(map[string]struct{}, len(o.bank.ActionVerbs)),
		actionVerbStems: make(map[string]struct{}, len(o.bank.ActionVerbs)),
		starCues:        make(map[string][][]string, len(o.bank.StarCues)),
		stopWords:       make(map[string]struct{}, len(o.bank.StopWords)),
	}

	for section, synonyms := range o.bank.Sections {
		key := strings.ToLower(strings.TrimSpace(section))
		for _, synonym := range synonyms {
			e.sections[key] = append(e.sections[key], strings.ToLower(strings.Join(strings.Fields(synonym), " ")))
		}
	}
	for _, verb := range o.bank.ActionVerbs {
		for _, token := range Normalize(verb) {
			e.actionVerbs[token] = struct{}{}
			e.actionVerbStems[stem(token)] = struct{}{}
		}
	}
	for component, cues := range o.bank.StarCues {
		for _, cue := range cues {
			if tokens := Normalize(cue); len(tokens) > 0 {
				e.starCues[component] = append(e.starCues[component], tokens)
			}
		}
	}
	for _, filler := range o.bank.FillerWords {
		if tokens := Normalize(filler); len(tokens) > 0 {
			e.fillerWords = append(e.fillerWords, tokens)
		}
	}
	for _, term := range o.bank.Technical {
		if tokens := Normalize(term); len(tokens) > 0 {
			e.technical = append(e.technical, stemAll(tokens))
		}
	}
	for _, w := range o.bank.StopWords {
		e.stopWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	return e, nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	e, err := NewEngine()
	if err != nil {
		panic(fmt.Sprintf("default scoring engine: %v", err))
	}
	return e
})

// Default returns the shared engine built from the default bank and settings.
func Default() *Engine {
	return defaultEngine()
}

// CalculateATSScore scores a resume with the default engine.
func CalculateATSScore(resumeText, jobDescription string) (ATSScore, error) {
	return Default().CalculateATSScore(resumeText, jobDescription)
}

// Settings returns the engine's scoring table.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Bank returns a copy of the vocabulary the engine was built with.
func (e *Engine) Bank() KeywordBank {
	return cloneBank(e.bank)
}

// ExtractKeywords exposes the engine's keyword extractor.
func (e *Engine) ExtractKeywords(jobDescription string) ([]string, error) {
	jd, err := e.prepareText("jobDescription", jobDescription)
	if err != nil {
		return nil, err
	}
	return e.extractor.ExtractKeywords(jd), nil
}

// CalculateATSScore scores a resume against a job description. With an
// empty job description the generic keyword bank is used.
func (e *Engine) CalculateATSScore(resumeText, jobDescription string) (ATSScore, error) {
	resume, err := e.prepareText("resumeText", resumeText)
	if err != nil {
		return ATSScore{}, err
	}
	jd, err := e.prepareText("jobDescription", jobDescription)
	if err != nil {
		return ATSScore{}, err
	}

	keywords := e.extractor.ExtractKeywords(jd)
	match := MatchKeywords(Normalize(resume), keywords)
	total := len(match.Matched) + len(match.Missing)
	empty := strings.TrimSpace(resume) == ""

	structure := e.AnalyzeStructure(resume)
	formatting := AnalyzeFormatting(resume)
	readability := e.AnalyzeReadability(resume)

	breakdown := Breakdown{
		KeywordMatch: KeywordScore(len(match.Matched), total),
		Formatting:   formatting.Score,
		Structure:    structure.Score,
		Readability:  readability.Score,
	}
	if empty {
		breakdown = Breakdown{}
	}

	return ATSScore{
		Overall:   Aggregate(breakdown, e.settings.Weights),
		Breakdown: breakdown,
		Details: Details{
			TotalKeywords:   total,
			MatchedCount:    len(match.Matched),
			MatchPercentage: MatchPercentage(len(match.Matched), total),
		},
		MatchedKeywords: match.Matched,
		MissingKeywords: match.Missing,
		Improvements: BuildImprovements(breakdown, e.settings.Threshold, Findings{
			Empty:             empty,
			TotalKeywords:     total,
			MissingKeywords:   match.Missing,
			MissingSections:   structure.MissingSections,
			HasContact:        structure.HasContact,
			SectionsInOrder:   structure.InOrder,
			FormattingIssues:  formatting.Issues,
			ReadabilityIssues: readability.Issues,
		}),
	}, nil
}

// prepareText enforces the input bounds: valid UTF-8, no NUL bytes and at
// most MaxInputBytes bytes, truncated on a rune boundary or rejected.
func (e *Engine) prepareText(field, text string) (string, error) {
	if limit := e.settings.MaxInputBytes; len(text) > limit {
		if e.settings.OversizePolicy == OversizeReject {
			return "", &InvalidInputError{
				Field:    field,
				Reason:   fmt.Sprintf("text is %d bytes, limit is %d", len(text), limit),
				TooLarge: true,
			}
		}
		text = truncateUTF8(text, limit)
	}
	if !utf8.ValidString(text) {
		return "", &InvalidInputError{Field: field, Reason: "text is not valid UTF-8"}
	}
	if strings.IndexByte(text, 0) >= 0 {
		return "", &InvalidInputError{Field: field, Reason: "text contains NUL bytes; convert binary documents to plain text first"}
	}
	return text, nil
}

func truncateUTF8(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func cloneBank(b KeywordBank) KeywordBank {
	cloneMap := func(m map[string][]string) map[string][]string {
		out := make(map[string][]string, len(m))
		for k, v := range m {
			out[k] = append([]string(nil), v...)
		}
		return out
	}
	return KeywordBank{
		Technical:   append([]string(nil), b.Technical...),
		SoftSkills:  append([]string(nil), b.SoftSkills...),
		Generic:     append([]string(nil), b.Generic...),
		ActionVerbs: append([]string(nil), b.ActionVerbs...),
		StopWords:   append([]string(nil), b.StopWords...),
		Sections:    cloneMap(b.Sections),
		StarCues:    cloneMap(b.StarCues),
		FillerWords: append([]string(nil), b.FillerWords...),

		IntentCues:      append([]string(nil), b.IntentCues...),
		ClosingCues:     append([]string(nil), b.ClosingCues...),
		TemplatePhrases: append([]string(nil), b.TemplatePhrases...),
	}
}
