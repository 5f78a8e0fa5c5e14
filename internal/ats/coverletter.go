package ats

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// EmptyCoverLetterMessage leads the improvements for an empty letter.
	EmptyCoverLetterMessage = "Cover letter appears empty: paste the full letter text before scoring"

	greetingPoints      = 20
	openingPoints       = 20
	bodyPoints          = 25
	closingPoints       = 20
	signOffPoints       = 15
	bodyParagraphWords  = 25
	signOffSearchLines  = 3
	namedGreetingPoints = 30
	teamGreetingPoints  = 15
	roleReferencePoints = 40
	templateFreePoints  = 30
	templatePenalty     = 10
	roleReferenceSample = 5
	letterVoicePoints   = 20
)

var (
	greetingPattern        = regexp.MustCompile(`(?i)^(dear|hello|hi|greetings|to whom it may concern)\b`)
	genericGreetingPattern = regexp.MustCompile(`(?i)^(to whom it may concern|dear (sir|madam|sir or madam|sir/madam)\b)`)
	teamGreetingPattern    = regexp.MustCompile(`(?i)^(dear|hello|hi)\s+(hiring (manager|team)|recruit(er|ing team)|talent (acquisition )?team|team)\b`)
	signOffPattern         = regexp.MustCompile(`(?i)^(sincerely|yours sincerely|yours truly|best regards|kind regards|warm regards|warmly|regards|best|respectfully|thank you|thanks)[,.!]?$`)
)

// CoverLetterBreakdown holds the cover letter sub-scores.
type CoverLetterBreakdown struct {
	KeywordMatch    int `json:"keywordMatch"`
	Structure       int `json:"structure"`
	Personalization int `json:"personalization"`
	Readability     int `json:"readability"`
}

// CoverLetterScore is the result of scoring a cover letter.
type CoverLetterScore struct {
	Overall         int                  `json:"overall"`
	Breakdown       CoverLetterBreakdown `json:"breakdown"`
	Details         Details              `json:"details"`
	MatchedKeywords []string             `json:"matchedKeywords"`
	MissingKeywords []string             `json:"missingKeywords"`
	Improvements    []string             `json:"improvements"`
}

type letterAnalysis struct {
	structure         int
	structureIssues   []string
	personalization   int
	personalIssues    []string
	readability       int
	readabilityIssues []string
}

// CalculateCoverLetterScore scores a cover letter against a job description.
func (e *Engine) CalculateCoverLetterScore(letterText, jobDescription string) (CoverLetterScore, error) {
	letter, err := e.prepareText("coverLetterText", letterText)
	if err != nil {
		return CoverLetterScore{}, err
	}
	jd, err := e.prepareText("jobDescription", jobDescription)
	if err != nil {
		return CoverLetterScore{}, err
	}

	keywords := e.extractor.ExtractKeywords(jd)
	letterTokens := Normalize(letter)
	match := MatchKeywords(letterTokens, keywords)
	total := len(match.Matched) + len(match.Missing)
	empty := strings.TrimSpace(letter) == ""

	score := CoverLetterScore{
		Details: Details{
			TotalKeywords:   total,
			MatchedCount:    len(match.Matched),
			MatchPercentage: MatchPercentage(len(match.Matched), total),
		},
		MatchedKeywords: match.Matched,
		MissingKeywords: match.Missing,
	}

	if empty {
		score.Improvements = append([]string{EmptyCoverLetterMessage},
			missingKeywordMessages(match.Missing, total, "job description")...)
		return score, nil
	}

	// Role references only make sense against a real job description.
	var roleKeywords []string
	if strings.TrimSpace(jd) != "" {
		roleKeywords = keywords[:min(len(keywords), roleReferenceSample)]
	}
	a := e.analyzeLetter(letter, letterTokens, roleKeywords)

	score.Breakdown = CoverLetterBreakdown{
		KeywordMatch:    KeywordScore(len(match.Matched), total),
		Structure:       a.structure,
		Personalization: a.personalization,
		Readability:     a.readability,
	}
	w := e.settings.CoverLetterWeights
	score.Overall = weightedScore(
		[]int{score.Breakdown.KeywordMatch, score.Breakdown.Structure, score.Breakdown.Personalization, score.Breakdown.Readability},
		[]float64{w.KeywordMatch, w.Structure, w.Personalization, w.Readability},
	)
	score.Improvements = RankImprovements(e.settings.CoverLetterThreshold, []Deficiency{
		{
			Category: CategoryKeywords,
			Score:    score.Breakdown.KeywordMatch,
			Messages: missingKeywordMessages(match.Missing, total, "job description"),
			Fallback: "Echo the key requirements of the job description in your letter",
		},
		{
			Category: CategoryStructure,
			Score:    score.Breakdown.Structure,
			Messages: a.structureIssues,
			Fallback: "Follow the standard letter shape: greeting, opening, body, closing and sign-off",
		},
		{
			Category: CategoryPersonalization,
			Score:    score.Breakdown.Personalization,
			Messages: a.personalIssues,
			Fallback: "Tailor the letter to this company and role",
		},
		{
			Category: CategoryReadability,
			Score:    score.Breakdown.Readability,
			Messages: a.readabilityIssues,
			Fallback: "Tighten the prose: clear sentences in active voice",
		},
	})
	return score, nil
}

func (e *Engine) analyzeLetter(letter string, tokens []string, roleKeywords []string) letterAnalysis {
	var a letterAnalysis
	lines := nonEmptyLines(letter)
	paragraphs := splitParagraphs(letter)
	index := newTokenIndex(tokens)

	greeting := len(lines) > 0 && isGreetingLine(lines[0])
	signOff := false
	for _, line := range lines[max(0, len(lines)-signOffSearchLines):] {
		if isSignOffLine(line) {
			signOff = true
			break
		}
	}

	body := bodyParagraphs(paragraphs)
	opening := len(body) > 0 && containsAnyCue(newTokenIndex(Normalize(body[0])), e.bank.IntentCues)

	if greeting {
		a.structure += greetingPoints
	} else {
		a.structureIssues = append(a.structureIssues, "Open with a greeting addressed to the hiring manager")
	}
	if opening {
		a.structure += openingPoints
	} else {
		a.structureIssues = append(a.structureIssues, "State the role you are applying for in the opening paragraph")
	}
	switch n := len(body); {
	case n >= 3:
		a.structure += bodyPoints
	case n == 2:
		a.structure += bodyPoints * 3 / 5
		a.structureIssues = append(a.structureIssues, "Add a body paragraph with a concrete achievement that fits the role")
	default:
		a.structure += bodyPoints / 5
		a.structureIssues = append(a.structureIssues, "Split the letter into an opening, two body paragraphs and a closing")
	}
	if containsAnyCue(index, e.bank.ClosingCues) {
		a.structure += closingPoints
	} else {
		a.structureIssues = append(a.structureIssues, "Close by thanking the reader and asking for an interview")
	}
	if signOff {
		a.structure += signOffPoints
	} else {
		a.structureIssues = append(a.structureIssues, "End with a sign-off such as \"Sincerely,\" followed by your name")
	}

	switch {
	case greeting && isGenericGreeting(lines[0]):
		a.personalIssues = append(a.personalIssues, "Address the letter to a named person instead of a generic salutation")
	case greeting && isTeamGreeting(lines[0]):
		a.personalization += teamGreetingPoints
		a.personalIssues = append(a.personalIssues, "Find the hiring manager's name and address them directly")
	case greeting:
		a.personalization += namedGreetingPoints
	default:
		a.personalIssues = append(a.personalIssues, "Address the letter to a named person instead of a generic salutation")
	}

	if len(roleKeywords) == 0 {
		a.personalization += roleReferencePoints / 2
	} else {
		m := MatchKeywords(tokens, roleKeywords)
		a.personalization += roleReferencePoints * len(m.Matched) / len(roleKeywords)
		if len(m.Missing) > 0 {
			a.personalIssues = append(a.personalIssues, fmt.Sprintf(
				"Reference the role's core requirements directly, for example: %s", strings.Join(m.Missing, ", ")))
		}
	}

	templated := e.templatePhrasesIn(letter)
	a.personalization += max(0, templateFreePoints-templatePenalty*len(templated))
	if len(templated) > 0 {
		a.personalIssues = append(a.personalIssues, fmt.Sprintf(
			"Replace template phrases with specifics: %s", strings.Join(templated, ", ")))
	}
	a.personalization = clampScore(float64(a.personalization))

	a.readability, a.readabilityIssues = letterReadability(letter)
	a.structure = clampScore(float64(a.structure))
	return a
}

// letterReadability rates prose sentence length, overall length and voice.
func letterReadability(letter string) (int, []string) {
	var issues []string
	words, sentences, sentenceWords, passive := countWords(letter), 0, 0, 0
	for _, line := range nonEmptyLines(letter) {
		if isGreetingLine(line) || isSignOffLine(line) {
			continue
		}
		for _, s := range splitSentences(line) {
			if n := countWords(s); n >= minUnitWords {
				sentences++
				sentenceWords += n
				passive += passiveVoiceCount(s)
			}
		}
	}

	score := 0
	if sentences > 0 {
		avg := float64(sentenceWords) / float64(sentences)
		switch {
		case avg >= 10 && avg <= 25:
			score += 50
		case avg >= 6 && avg <= 30:
			score += 30
		default:
			score += 10
		}
		if avg > 25 {
			issues = append(issues, fmt.Sprintf("Shorten sentences: they average %.0f words (aim for 10-25)", avg))
		}
	}

	switch {
	case words >= 150 && words <= 450:
		score += 30
	case words >= 100 && words <= 600:
		score += 15
		issues = append(issues, fmt.Sprintf("Aim for 250-400 words; the letter has %d", words))
	default:
		issues = append(issues, fmt.Sprintf("Aim for 250-400 words; the letter has %d", words))
	}

	score += max(0, letterVoicePoints-passivePenalty*passive)
	if passive > 0 {
		issues = append(issues, fmt.Sprintf("Rewrite %d passive-voice phrase(s) in active voice", passive))
	}
	return clampScore(float64(score)), issues
}

func (e *Engine) templatePhrasesIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, phrase := range e.bank.TemplatePhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			found = append(found, strings.Trim(phrase, "[ "))
		}
	}
	return found
}

func isGreetingLine(line string) bool {
	return greetingPattern.MatchString(strings.TrimSpace(line))
}

func isGenericGreeting(line string) bool {
	return genericGreetingPattern.MatchString(strings.TrimSpace(line))
}

func isTeamGreeting(line string) bool {
	return teamGreetingPattern.MatchString(strings.TrimSpace(line))
}

func isSignOffLine(line string) bool {
	return signOffPattern.MatchString(strings.TrimSpace(line))
}

// bodyParagraphs drops greeting and sign-off paragraphs and anything too
// short to carry content.
func bodyParagraphs(paragraphs []string) []string {
	var body []string
	for _, p := range paragraphs {
		first := strings.SplitN(p, "\n", 2)[0]
		if isGreetingLine(first) && countWords(p) < bodyParagraphWords {
			continue
		}
		if isSignOffLine(first) || countWords(p) < bodyParagraphWords {
			continue
		}
		body = append(body, p)
	}
	return body
}

func containsAnyCue(index *tokenIndex, cues []string) bool {
	for _, cue := range cues {
		if index.contains(stemAll(Normalize(cue))) {
			return true
		}
	}
	return false
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			flush()
			continue
		}
		current = append(current, s)
	}
	flush()
	return paragraphs
}
