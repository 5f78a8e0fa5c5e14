package ats

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	contactPoints      = 20.0
	sectionPoints      = 17.5
	sectionOrderPoints = 10.0
	maxHeaderLength    = 48
)

var (
	emailPattern        = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneCandidate      = regexp.MustCompile(`\+?\(?\d[\d \t().\-]{7,}\d`)
	profileLinkPattern  = regexp.MustCompile(`(?i)\b(linkedin\.com|github\.com)/\S+`)
	headerJoinerPattern = regexp.MustCompile(`^\s*(&|and\b|/|\||\(|,|:)`)
)

// StructureResult describes which canonical sections a resume has.
type StructureResult struct {
	Score           int      `json:"score"`
	FoundSections   []string `json:"foundSections"`
	MissingSections []string `json:"missingSections"`
	HasContact      bool     `json:"hasContact"`
	InOrder         bool     `json:"inOrder"`
}

// AnalyzeStructure scores the resume's sections, contact details and
// section order.
func (e *Engine) AnalyzeStructure(resumeText string) StructureResult {
	result := StructureResult{
		FoundSections:   make([]string, 0, len(canonicalSections)),
		MissingSections: make([]string, 0, len(canonicalSections)),
	}
	if strings.TrimSpace(resumeText) == "" {
		result.MissingSections = append(result.MissingSections, canonicalSections[:]...)
		return result
	}

	firstLine := make(map[string]int)
	for i, line := range strings.Split(resumeText, "\n") {
		section, ok := e.sectionHeader(line)
		if !ok {
			continue
		}
		if _, seen := firstLine[section]; !seen {
			firstLine[section] = i
		}
	}

	score := 0.0
	result.HasContact = hasContact(resumeText)
	if result.HasContact {
		score += contactPoints
	}

	for _, section := range canonicalSections {
		if _, ok := firstLine[section]; ok {
			result.FoundSections = append(result.FoundSections, section)
			score += sectionPoints
		} else {
			result.MissingSections = append(result.MissingSections, section)
		}
	}

	result.InOrder = sectionsInOrder(firstLine)
	if result.InOrder {
		score += sectionOrderPoints
	}

	result.Score = clampScore(math.Round(score))
	return result
}

// sectionsInOrder requires at least two of summary, experience and
// education, appearing in that order.
func sectionsInOrder(firstLine map[string]int) bool {
	last, present := -1, 0
	for _, section := range []string{SectionSummary, SectionExperience, SectionEducation} {
		line, ok := firstLine[section]
		if !ok {
			continue
		}
		if line <= last {
			return false
		}
		last = line
		present++
	}
	return present >= 2
}

// sectionHeader reports the canonical section a line is a header for.
func (e *Engine) sectionHeader(line string) (string, bool) {
	text, ok := headerText(line)
	if !ok {
		return "", false
	}
	for _, section := range canonicalSections {
		if isSectionHeader(text, e.sections[section]) {
			return section, true
		}
	}
	return "", false
}

func (e *Engine) isAnySectionHeader(line string) bool {
	_, ok := e.sectionHeader(line)
	return ok
}

// headerText strips decoration from a candidate header line and lower-cases it.
func headerText(line string) (string, bool) {
	s := strings.Trim(strings.TrimSpace(line), "#*=_-:|•·[] \t")
	if s == "" || len(s) > maxHeaderLength || strings.HasSuffix(s, ".") {
		return "", false
	}
	return strings.ToLower(strings.Join(strings.Fields(s), " ")), true
}

// isSectionHeader matches a normalized header against synonyms. A synonym
// may be followed by a joined second title ("Skills & Tools").
func isSectionHeader(text string, synonyms []string) bool {
	for _, synonym := range synonyms {
		if text == synonym {
			return true
		}
		if rest, ok := strings.CutPrefix(text, synonym); ok && headerJoinerPattern.MatchString(rest) {
			return true
		}
	}
	return false
}

func hasContact(text string) bool {
	return hasEmail(text) || hasPhone(text)
}

func hasEmail(text string) bool {
	return emailPattern.MatchString(text)
}

// hasPhone looks for a run of 10 to 15 digits written with common separators.
func hasPhone(text string) bool {
	for _, candidate := range phoneCandidate.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 10 && digits <= 15 {
			return true
		}
	}
	return false
}

func hasProfileLink(text string) bool {
	return profileLinkPattern.MatchString(text)
}

func sectionTitle(section string) string {
	if section == "" {
		return section
	}
	return strings.ToUpper(section[:1]) + section[1:]
}

func missingSectionMessage(section string) string {
	return fmt.Sprintf("Add a clearly labeled %s section", sectionTitle(section))
}
