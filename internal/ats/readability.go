package ats

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	idealUnitMinWords     = 8
	idealUnitMaxWords     = 22
	nearUnitMinWords      = 5
	nearUnitMaxWords      = 30
	idealLengthPoints     = 40
	nearLengthPoints      = 25
	poorLengthPoints      = 10
	actionVerbPoints      = 40
	voicePoints           = 20
	firstPersonPenalty    = 3
	maxFirstPersonPenalty = 10
	passivePenalty        = 4
	maxPassivePenalty     = 10
	minUnitWords          = 3
	weakActionVerbRatio   = 0.5
)

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]+(\s+|$)`)
	passivePattern   = regexp.MustCompile(`(?i)\b(?:is|are|was|were|been|being|be)\s+(?:[a-z]+ed|built|made|done|led|held|sent|kept|run|won|brought|taught|bought|sold|set|put|paid|written|taken|given|chosen|driven|broken|spoken|seen|shown|known|grown|drawn|hidden)\b`)
)

// ReadabilityResult summarizes sentence and bullet quality.
type ReadabilityResult struct {
	Score             int      `json:"score"`
	Units             int      `json:"units"`
	AverageUnitWords  float64  `json:"averageUnitWords"`
	ActionVerbRatio   float64  `json:"actionVerbRatio"`
	FirstPersonCount  int      `json:"firstPersonCount"`
	PassiveVoiceCount int      `json:"passiveVoiceCount"`
	Issues            []string `json:"issues"`
}

type textUnit struct {
	text   string
	words  int
	bullet bool
}

// AnalyzeReadability scores bullet points and prose sentences for length,
// action-verb openings and voice.
func (e *Engine) AnalyzeReadability(resumeText string) ReadabilityResult {
	result := ReadabilityResult{Issues: []string{}}
	units := e.readabilityUnits(resumeText)
	if len(units) == 0 {
		return result
	}

	totalWords, bullets, verbBullets, verbUnits := 0, 0, 0, 0
	for _, u := range units {
		totalWords += u.words
		opens := e.startsWithActionVerb(u.text)
		if u.bullet {
			bullets++
			if opens {
				verbBullets++
			}
		}
		if opens {
			verbUnits++
		}
		result.FirstPersonCount += countFirstPerson(u.text)
		result.PassiveVoiceCount += passiveVoiceCount(u.text)
	}

	result.Units = len(units)
	result.AverageUnitWords = float64(totalWords) / float64(len(units))
	if bullets > 0 {
		result.ActionVerbRatio = float64(verbBullets) / float64(bullets)
	} else {
		result.ActionVerbRatio = float64(verbUnits) / float64(len(units))
	}

	score := float64(lengthPoints(result.AverageUnitWords))
	score += math.Round(actionVerbPoints * result.ActionVerbRatio)
	score += voicePoints
	score -= float64(min(result.FirstPersonCount*firstPersonPenalty, maxFirstPersonPenalty))
	score -= float64(min(result.PassiveVoiceCount*passivePenalty, maxPassivePenalty))
	result.Score = clampScore(score)

	result.Issues = readabilityIssues(result)
	return result
}

func lengthPoints(average float64) int {
	switch {
	case average >= idealUnitMinWords && average <= idealUnitMaxWords:
		return idealLengthPoints
	case average >= nearUnitMinWords && average <= nearUnitMaxWords:
		return nearLengthPoints
	default:
		return poorLengthPoints
	}
}

func readabilityIssues(r ReadabilityResult) []string {
	issues := []string{}
	if r.ActionVerbRatio < weakActionVerbRatio {
		issues = append(issues, fmt.Sprintf(
			"Start more bullet points with strong action verbs such as led, built or optimized (currently %d%%)",
			int(math.Round(r.ActionVerbRatio*100))))
	}
	switch {
	case r.AverageUnitWords < idealUnitMinWords:
		issues = append(issues, "Add detail to bullet points: most are too short to show scope or impact")
	case r.AverageUnitWords > idealUnitMaxWords:
		issues = append(issues, fmt.Sprintf(
			"Shorten sentences: they average %.0f words (aim for 8-22)", r.AverageUnitWords))
	}
	if r.FirstPersonCount > 0 {
		issues = append(issues, fmt.Sprintf(
			"Remove first-person pronouns (found %d); resumes conventionally omit \"I\" and \"my\"", r.FirstPersonCount))
	}
	if r.PassiveVoiceCount > 0 {
		issues = append(issues, fmt.Sprintf(
			"Rewrite %d passive-voice phrase(s) in active voice", r.PassiveVoiceCount))
	}
	return issues
}

// readabilityUnits yields bullet texts and prose sentences of at least
// minUnitWords words. Section headers and contact lines are skipped.
func (e *Engine) readabilityUnits(text string) []textUnit {
	var units []textUnit
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || e.isAnySectionHeader(s) || hasContact(s) || hasProfileLink(s) {
			continue
		}
		if b, ok := parseBullet(s); ok {
			if n := countWords(b.text); n >= minUnitWords {
				units = append(units, textUnit{text: b.text, words: n, bullet: true})
			}
			continue
		}
		for _, sentence := range splitSentences(s) {
			if n := countWords(sentence); n >= minUnitWords {
				units = append(units, textUnit{text: sentence, words: n})
			}
		}
	}
	return units
}

func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[0]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func (e *Engine) startsWithActionVerb(text string) bool {
	tokens := Normalize(text)
	if len(tokens) == 0 {
		return false
	}
	first := tokens[0]
	if _, ok := e.actionVerbs[first]; ok {
		return true
	}
	_, ok := e.actionVerbStems[stem(first)]
	return ok
}

// isFirstPerson reports first-person pronouns; apostrophes are already
// stripped by Normalize so "I'm" arrives as "im".
func isFirstPerson(token string) bool {
	switch token {
	case "i", "me", "my", "mine", "myself", "im", "ive":
		return true
	}
	return false
}

func countFirstPerson(text string) int {
	n := 0
	for _, token := range Normalize(text) {
		if isFirstPerson(token) {
			n++
		}
	}
	return n
}

func isPassiveVoice(text string) bool {
	return passivePattern.MatchString(text)
}

func passiveVoiceCount(text string) int {
	return len(passivePattern.FindAllStringIndex(text, -1))
}
