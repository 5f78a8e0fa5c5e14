package ats

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	formattingBase          = 70
	consistentBulletBonus   = 15
	mixedBulletBonus        = 5
	contactNearTopBonus     = 15
	noBulletPenalty         = 15
	longParagraphPenalty    = 10
	maxLongParagraphPenalty = 20
	tableArtifactPenalty    = 10
	controlCharPenalty      = 10
	unusualBulletPenalty    = 5
	tooShortPenalty         = 20
	tooLongPenalty          = 10
	minConsistentBullets    = 3
	dominantBulletShare     = 0.8
	contactSearchLines      = 5
	longParagraphLines      = 6
	longParagraphWords      = 60
	minProseLineWords       = 4
	minResumeWords          = 150
	maxResumeWords          = 1000
	numberedBulletMarker    = "1."
)

var (
	standardBullets = []string{"•", "-", "*", "–", "·", "◦", "▪", "●", "○"}
	unusualBullets  = []string{"➢", "✓", "✔", "►", "❖", "→", "■", "□", "★", "➤", "♦", "»", "⁃"}

	numberedBulletPattern = regexp.MustCompile(`^\d{1,2}[.)]\s`)
	tableBorderPattern    = regexp.MustCompile(`^[+|]?(\s*[-=]{3,}\s*[+|])+\s*[-=]*\s*$`)
)

// Formatting issue messages.
const (
	IssueNoBullets         = "Use bullet points to list responsibilities and achievements under each role"
	IssueMixedBullets      = "Use a single, consistent bullet marker throughout the resume"
	IssueUnusualBullets    = "Replace decorative bullet symbols with standard bullets (•, -, *) that ATS parsers read reliably"
	IssueLongParagraphs    = "Break long paragraphs into concise bullet points"
	IssueTableArtifacts    = "Remove tables, columns and pipe-separated layouts, which ATS parsers often scramble"
	IssueControlCharacters = "Remove control characters and unreadable symbols left over from document conversion"
	IssueContactPlacement  = "Put your email and phone number on a contact line at the top"
)

// FormattingResult captures the formatting heuristics applied to a resume.
type FormattingResult struct {
	Score          int      `json:"score"`
	Issues         []string `json:"issues"`
	BulletLines    int      `json:"bulletLines"`
	WordCount      int      `json:"wordCount"`
	ContactNearTop bool     `json:"contactNearTop"`
}

type bullet struct {
	marker  string
	unusual bool
	text    string
}

// AnalyzeFormatting scores how well a resume survives ATS parsing.
func AnalyzeFormatting(resumeText string) FormattingResult {
	result := FormattingResult{Issues: []string{}}
	if strings.TrimSpace(resumeText) == "" {
		return result
	}

	lines := strings.Split(resumeText, "\n")
	score := formattingBase
	result.WordCount = countWords(resumeText)

	markers := make(map[string]int)
	unusual := false
	for _, line := range lines {
		b, ok := parseBullet(line)
		if !ok {
			continue
		}
		result.BulletLines++
		markers[b.marker]++
		unusual = unusual || b.unusual
	}

	switch {
	case result.BulletLines == 0:
		score -= noBulletPenalty
		result.Issues = append(result.Issues, IssueNoBullets)
	case result.BulletLines >= minConsistentBullets && dominantShare(markers, result.BulletLines) >= dominantBulletShare:
		score += consistentBulletBonus
	default:
		score += mixedBulletBonus
		if len(markers) > 1 {
			result.Issues = append(result.Issues, IssueMixedBullets)
		}
	}
	if unusual {
		score -= unusualBulletPenalty
		result.Issues = append(result.Issues, IssueUnusualBullets)
	}

	result.ContactNearTop = hasContactNearTop(lines)
	if result.ContactNearTop {
		score += contactNearTopBonus
	} else {
		result.Issues = append(result.Issues, IssueContactPlacement)
	}

	if n := countLongParagraphs(lines); n > 0 {
		score -= min(n*longParagraphPenalty, maxLongParagraphPenalty)
		result.Issues = append(result.Issues, IssueLongParagraphs)
	}

	if hasTableArtifacts(lines) {
		score -= tableArtifactPenalty
		result.Issues = append(result.Issues, IssueTableArtifacts)
	}

	if hasControlChars(resumeText) {
		score -= controlCharPenalty
		result.Issues = append(result.Issues, IssueControlCharacters)
	}

	switch {
	case result.WordCount < minResumeWords:
		score -= tooShortPenalty
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Expand the resume: %d words is too thin for an ATS to rank well (aim for 300-800)", result.WordCount))
	case result.WordCount > maxResumeWords:
		score -= tooLongPenalty
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Tighten the resume: %d words is longer than most ATS-friendly resumes (aim for 300-800)", result.WordCount))
	}

	result.Score = clampScore(float64(score))
	return result
}

func dominantShare(markers map[string]int, total int) float64 {
	top := 0
	for _, n := range markers {
		top = max(top, n)
	}
	return float64(top) / float64(total)
}

// parseBullet recognizes a bullet line and returns its marker and text.
func parseBullet(line string) (bullet, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return bullet{}, false
	}
	if loc := numberedBulletPattern.FindStringIndex(s); loc != nil {
		return bullet{marker: numberedBulletMarker, text: strings.TrimSpace(s[loc[1]:])}, true
	}
	for _, marker := range standardBullets {
		if rest, ok := cutBulletMarker(s, marker); ok {
			return bullet{marker: marker, text: rest}, true
		}
	}
	for _, marker := range unusualBullets {
		if rest, ok := cutBulletMarker(s, marker); ok {
			return bullet{marker: marker, unusual: true, text: rest}, true
		}
	}
	return bullet{}, false
}

func cutBulletMarker(s, marker string) (string, bool) {
	rest, ok := strings.CutPrefix(s, marker)
	if !ok || rest == "" {
		return "", false
	}
	r := []rune(rest)[0]
	if !unicode.IsSpace(r) {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}

func isBulletLine(line string) bool {
	_, ok := parseBullet(line)
	return ok
}

func hasContactNearTop(lines []string) bool {
	seen := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if hasContact(line) || hasProfileLink(line) {
			return true
		}
		seen++
		if seen >= contactSearchLines {
			return false
		}
	}
	return false
}

// countLongParagraphs counts prose blocks of many consecutive lines and
// single lines that run past longParagraphWords words.
func countLongParagraphs(lines []string) int {
	count, run := 0, 0
	closeRun := func() {
		if run >= longParagraphLines {
			count++
		}
		run = 0
	}
	for _, line := range lines {
		s := strings.TrimSpace(line)
		words := countWords(s)
		if words < minProseLineWords || isBulletLine(s) {
			closeRun()
			continue
		}
		if words > longParagraphWords {
			closeRun()
			count++
			continue
		}
		run++
	}
	closeRun()
	return count
}

func hasTableArtifacts(lines []string) bool {
	for _, line := range lines {
		if hasTableArtifact(line) {
			return true
		}
	}
	return false
}

// hasTableArtifact detects pipe or tab separated columns, ASCII table
// borders and box-drawing characters. Contact lines may use pipes as
// separators.
func hasTableArtifact(line string) bool {
	if strings.Count(line, "|") >= 2 && !hasContact(line) && !hasProfileLink(line) {
		return true
	}
	if strings.Count(strings.TrimSpace(line), "\t") >= 2 {
		return true
	}
	if tableBorderPattern.MatchString(strings.TrimSpace(line)) {
		return true
	}
	for _, r := range line {
		if r >= 0x2500 && r <= 0x257F {
			return true
		}
	}
	return false
}

// hasControlChars reports non-printing characters other than ordinary
// whitespace, and replacement characters from broken conversions.
func hasControlChars(text string) bool {
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			continue
		case r < 0x20 || r == 0x7f || r == unicode.ReplacementChar:
			return true
		case r >= 0x80 && r < 0xa0:
			return true
		}
	}
	return false
}
