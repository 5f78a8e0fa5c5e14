package ats

import (
	"cmp"
	"slices"
	"strings"
)

const (
	minFreeTermFrequency = 2
	minFreeTermLength    = 3
	phraseTokenBonus     = 1.5
)

type phraseKind int

const (
	kindFree phraseKind = iota
	kindSoft
	kindTechnical
)

func (k phraseKind) specificity() float64 {
	switch k {
	case kindTechnical:
		return 2
	case kindSoft:
		return 1
	default:
		return 0
	}
}

type bankPhrase struct {
	display string
	stems   []string
	kind    phraseKind
}

type keywordCandidate struct {
	display string
	count   int
	first   int
	length  int
	kind    phraseKind
}

func (c keywordCandidate) rank() float64 {
	return float64(c.count) + phraseTokenBonus*float64(c.length-1) + c.kind.specificity()
}

// Extractor derives the keyword list a resume is scored against.
type Extractor struct {
	phrases     []bankPhrase
	stopWords   map[string]struct{}
	generic     []string
	maxKeywords int
}

// NewExtractor prepares the bank phrases for matching. Phrases are ordered
// longest first so multi-word phrases claim their tokens before their parts.
func NewExtractor(bank KeywordBank, maxKeywords int) *Extractor {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}

	e := &Extractor{
		stopWords:   make(map[string]struct{}, len(bank.StopWords)),
		maxKeywords: maxKeywords,
	}
	for _, w := range bank.StopWords {
		e.stopWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	seen := make(map[string]struct{})
	addPhrases := func(entries []string, kind phraseKind) {
		for _, entry := range entries {
			tokens := Normalize(entry)
			if len(tokens) == 0 {
				continue
			}
			display := strings.Join(tokens, " ")
			if _, dup := seen[display]; dup {
				continue
			}
			seen[display] = struct{}{}
			e.phrases = append(e.phrases, bankPhrase{display: display, stems: stemAll(tokens), kind: kind})
		}
	}
	addPhrases(bank.Technical, kindTechnical)
	addPhrases(bank.SoftSkills, kindSoft)

	slices.SortStableFunc(e.phrases, func(a, b bankPhrase) int {
		return cmp.Compare(len(b.stems), len(a.stems))
	})

	genericSeen := make(map[string]struct{}, len(bank.Generic))
	for _, entry := range bank.Generic {
		display := strings.Join(Normalize(entry), " ")
		if display == "" {
			continue
		}
		if _, dup := genericSeen[display]; dup {
			continue
		}
		genericSeen[display] = struct{}{}
		e.generic = append(e.generic, display)
	}

	return e
}

// ExtractKeywords returns at most maxKeywords keywords ranked by importance.
// An empty job description yields the generic bank in bank order.
func (e *Extractor) ExtractKeywords(jobDescription string) []string {
	if strings.TrimSpace(jobDescription) == "" {
		return slices.Clone(e.generic)
	}

	tokens := Normalize(jobDescription)
	stems := stemAll(tokens)
	positions := make(map[string][]int)
	for i, s := range stems {
		positions[s] = append(positions[s], i)
	}

	covered := make([]bool, len(tokens))
	seen := make(map[string]struct{})
	var candidates []keywordCandidate

	for _, p := range e.phrases {
		c := keywordCandidate{display: p.display, first: -1, length: len(p.stems), kind: p.kind}
		for _, pos := range positions[p.stems[0]] {
			if !sequenceAt(stems, pos, p.stems) || anyCovered(covered, pos, len(p.stems)) {
				continue
			}
			for i := pos; i < pos+len(p.stems); i++ {
				covered[i] = true
			}
			c.count++
			if c.first < 0 {
				c.first = pos
			}
		}
		if c.count > 0 {
			seen[c.display] = struct{}{}
			candidates = append(candidates, c)
		}
	}

	// Free terms are grouped by stem and shown in their first surface form.
	free := make(map[string]*keywordCandidate)
	var freeOrder []string
	for i, token := range tokens {
		if covered[i] || !e.isFreeTerm(token, stems[i]) {
			continue
		}
		if c, ok := free[stems[i]]; ok {
			c.count++
			continue
		}
		free[stems[i]] = &keywordCandidate{display: token, count: 1, first: i, length: 1, kind: kindFree}
		freeOrder = append(freeOrder, stems[i])
	}
	for _, s := range freeOrder {
		c := free[s]
		if c.count < minFreeTermFrequency {
			continue
		}
		if _, dup := seen[c.display]; dup {
			continue
		}
		seen[c.display] = struct{}{}
		candidates = append(candidates, *c)
	}

	slices.SortFunc(candidates, func(a, b keywordCandidate) int {
		if r := cmp.Compare(b.rank(), a.rank()); r != 0 {
			return r
		}
		if r := cmp.Compare(a.first, b.first); r != 0 {
			return r
		}
		return strings.Compare(a.display, b.display)
	})

	if len(candidates) > e.maxKeywords {
		candidates = candidates[:e.maxKeywords]
	}

	keywords := make([]string, 0, len(candidates))
	for _, c := range candidates {
		keywords = append(keywords, c.display)
	}
	return keywords
}

func (e *Extractor) isFreeTerm(token, stemmed string) bool {
	if len(token) < minFreeTermLength || !hasLetter(token) {
		return false
	}
	if _, stop := e.stopWords[token]; stop {
		return false
	}
	_, stop := e.stopWords[stemmed]
	return !stop
}

func anyCovered(covered []bool, pos, n int) bool {
	for i := pos; i < pos+n; i++ {
		if covered[i] {
			return true
		}
	}
	return false
}
