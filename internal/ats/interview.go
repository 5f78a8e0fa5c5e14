package ats

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	// EmptyAnswerMessage leads the improvements for an empty interview answer.
	EmptyAnswerMessage = "Answer appears empty: write out the full answer before scoring"

	starComponentPoints = 25
	maxQuestionTerms    = 10
	idealAnswerMinWords = 80
	idealAnswerMaxWords = 350
	shortAnswerMinWords = 40
	longAnswerMaxWords  = 500
	fillerPenalty       = 5
	fillerPoints        = 20
	ownershipPoints     = 20
	answerSentenceMin   = 8
	answerSentenceMax   = 25
	answerLengthIdeal   = 50
	answerLengthNear    = 25
	answerLengthPoor    = 5
	answerSentenceIdeal = 30
	answerSentenceOther = 15
	numberPointsMany    = 50
	numberPointsTwo     = 35
	numberPointsOne     = 20
	technicalPointsMany = 30
	technicalPointsOne  = 15
)

var quantifiedResultPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?\s*(%|percent|x\b|k\b|m\b))|([$€£]\s?\d)`)

// StarComponents records which parts of the STAR method an answer covers.
type StarComponents struct {
	Situation bool `json:"situation"`
	Task      bool `json:"task"`
	Action    bool `json:"action"`
	Result    bool `json:"result"`
}

func (s StarComponents) count() int {
	n := 0
	for _, present := range []bool{s.Situation, s.Task, s.Action, s.Result} {
		if present {
			n++
		}
	}
	return n
}

// InterviewBreakdown holds the interview answer sub-scores.
type InterviewBreakdown struct {
	Star        int `json:"star"`
	Relevance   int `json:"relevance"`
	Specificity int `json:"specificity"`
	Delivery    int `json:"delivery"`
}

// InterviewScore is the result of scoring an interview answer.
type InterviewScore struct {
	Overall        int                `json:"overall"`
	Breakdown      InterviewBreakdown `json:"breakdown"`
	StarComponents StarComponents     `json:"starComponents"`
	WordCount      int                `json:"wordCount"`
	MatchedTerms   []string           `json:"matchedTerms"`
	MissingTerms   []string           `json:"missingTerms"`
	Improvements   []string           `json:"improvements"`
}

// ScoreInterviewAnswer scores a behavioral interview answer for STAR
// coverage, relevance to the question, specificity and delivery.
func (e *Engine) ScoreInterviewAnswer(question, answer string) (InterviewScore, error) {
	q, err := e.prepareText("question", question)
	if err != nil {
		return InterviewScore{}, err
	}
	a, err := e.prepareText("answer", answer)
	if err != nil {
		return InterviewScore{}, err
	}

	tokens := Normalize(a)
	match := MatchKeywords(tokens, e.questionTerms(q))
	score := InterviewScore{
		WordCount:    countWords(a),
		MatchedTerms: match.Matched,
		MissingTerms: match.Missing,
	}
	if strings.TrimSpace(a) == "" {
		score.Improvements = []string{EmptyAnswerMessage}
		return score, nil
	}

	index := newTokenIndex(tokens)
	score.StarComponents = StarComponents{
		Situation: e.hasStarCue(index, StarSituation),
		Task:      e.hasStarCue(index, StarTask),
		Action:    e.hasStarCue(index, StarAction),
		Result:    e.hasStarCue(index, StarResult) || hasQuantifiedResult(a),
	}

	specificity, specificityIssues := e.answerSpecificity(tokens, index, score.StarComponents.Action)
	delivery, deliveryIssues := e.answerDelivery(a, index, score.WordCount)
	score.Breakdown = InterviewBreakdown{
		Star:        score.StarComponents.count() * starComponentPoints,
		Relevance:   KeywordScore(len(match.Matched), len(match.Matched)+len(match.Missing)),
		Specificity: specificity,
		Delivery:    delivery,
	}

	w := e.settings.InterviewWeights
	b := score.Breakdown
	score.Overall = weightedScore(
		[]int{b.Star, b.Relevance, b.Specificity, b.Delivery},
		[]float64{w.Star, w.Relevance, w.Specificity, w.Delivery},
	)

	var relevanceIssues []string
	if len(match.Missing) > 0 {
		relevanceIssues = []string{fmt.Sprintf(
			"Answer the question that was asked; address: %s", strings.Join(match.Missing, ", "))}
	}
	score.Improvements = RankImprovements(e.settings.InterviewThreshold, []Deficiency{
		{
			Category: CategoryStar,
			Score:    b.Star,
			Messages: starIssues(score.StarComponents),
			Fallback: "Structure the answer as Situation, Task, Action, Result",
		},
		{
			Category: CategoryRelevance,
			Score:    b.Relevance,
			Messages: relevanceIssues,
			Fallback: "Tie the story back to the question",
		},
		{
			Category: CategorySpecificity,
			Score:    b.Specificity,
			Messages: specificityIssues,
			Fallback: "Add concrete details: numbers, tools and your own decisions",
		},
		{
			Category: CategoryDelivery,
			Score:    b.Delivery,
			Messages: deliveryIssues,
			Fallback: "Keep the answer focused and free of filler words",
		},
	})
	return score, nil
}

// questionTerms picks the content words of a question, deduplicated by stem.
func (e *Engine) questionTerms(question string) []string {
	terms := []string{}
	seen := make(map[string]struct{})
	for _, token := range Normalize(question) {
		if len(token) < minFreeTermLength || !hasLetter(token) {
			continue
		}
		if _, stop := e.stopWords[token]; stop {
			continue
		}
		s := stem(token)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		terms = append(terms, token)
		if len(terms) == maxQuestionTerms {
			break
		}
	}
	return terms
}

func (e *Engine) hasStarCue(index *tokenIndex, component string) bool {
	for _, cue := range e.starCues[component] {
		if index.contains(stemAll(cue)) {
			return true
		}
	}
	return false
}

func hasQuantifiedResult(text string) bool {
	return quantifiedResultPattern.MatchString(text)
}

func starIssues(s StarComponents) []string {
	var issues []string
	if !s.Situation {
		issues = append(issues, "Set the scene: describe the situation and what was at stake")
	}
	if !s.Task {
		issues = append(issues, "State the task or goal you were responsible for")
	}
	if !s.Action {
		issues = append(issues, "Explain the specific actions you took, using \"I\" rather than \"we\"")
	}
	if !s.Result {
		issues = append(issues, "Finish with a measurable result, such as a percentage, time saved or revenue")
	}
	return issues
}

func (e *Engine) answerSpecificity(tokens []string, index *tokenIndex, ownsAction bool) (int, []string) {
	var issues []string
	score := 0

	numbers := 0
	for _, t := range tokens {
		if strings.IndexFunc(t, unicode.IsDigit) >= 0 {
			numbers++
		}
	}
	switch {
	case numbers >= 3:
		score += numberPointsMany
	case numbers == 2:
		score += numberPointsTwo
	case numbers == 1:
		score += numberPointsOne
	default:
		issues = append(issues, "Quantify the story with numbers: team size, timelines, percentages")
	}

	technical := 0
	for _, term := range e.technical {
		if index.contains(term) {
			technical++
		}
	}
	switch {
	case technical >= 2:
		score += technicalPointsMany
	case technical == 1:
		score += technicalPointsOne
	default:
		issues = append(issues, "Name the tools, technologies or methods you used")
	}

	if ownsAction {
		score += ownershipPoints
	}
	return clampScore(float64(score)), issues
}

func (e *Engine) answerDelivery(answer string, index *tokenIndex, words int) (int, []string) {
	var issues []string
	score := 0

	switch {
	case words >= idealAnswerMinWords && words <= idealAnswerMaxWords:
		score += answerLengthIdeal
	case words >= shortAnswerMinWords && words <= longAnswerMaxWords:
		score += answerLengthNear
	default:
		score += answerLengthPoor
	}
	if words < idealAnswerMinWords {
		issues = append(issues, fmt.Sprintf("Expand the answer: %d words is too brief (aim for 80-350)", words))
	} else if words > idealAnswerMaxWords {
		issues = append(issues, fmt.Sprintf("Trim the answer: %d words will lose the interviewer (aim for 80-350)", words))
	}

	sentences, sentenceWords := 0, 0
	for _, s := range splitSentences(strings.Join(strings.Fields(answer), " ")) {
		if n := countWords(s); n >= minUnitWords {
			sentences++
			sentenceWords += n
		}
	}
	if sentences > 0 {
		avg := float64(sentenceWords) / float64(sentences)
		if avg >= answerSentenceMin && avg <= answerSentenceMax {
			score += answerSentenceIdeal
		} else {
			score += answerSentenceOther
		}
	}

	fillers := 0
	for _, filler := range e.fillerWords {
		stems := stemAll(filler)
		for _, pos := range index.positions[stems[0]] {
			if sequenceAt(index.stems, pos, stems) {
				fillers++
			}
		}
	}
	score += max(0, fillerPoints-fillerPenalty*fillers)
	if fillers > 0 {
		issues = append(issues, fmt.Sprintf("Cut filler words (found %d)", fillers))
	}
	return clampScore(float64(score)), issues
}
