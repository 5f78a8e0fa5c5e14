package ats

import (
	"math"
	"strings"
	"unicode"
)

// MatchResult partitions a keyword list into matched and missing keywords.
// Both slices are non-nil and keep the input order.
type MatchResult struct {
	Matched []string
	Missing []string
}

// MatchKeywords reports which keywords occur in the resume tokens. A keyword
// matches when its stemmed token sequence appears contiguously in the
// stemmed resume. Keywords are deduplicated case-insensitively first.
func MatchKeywords(resumeTokens, keywords []string) MatchResult {
	result := MatchResult{
		Matched: make([]string, 0, len(keywords)),
		Missing: make([]string, 0, len(keywords)),
	}

	index := newTokenIndex(resumeTokens)
	seen := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		key := strings.ToLower(strings.TrimSpace(keyword))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if index.contains(stemAll(Normalize(keyword))) {
			result.Matched = append(result.Matched, keyword)
		} else {
			result.Missing = append(result.Missing, keyword)
		}
	}
	return result
}

// KeywordScore converts match counts into a 0-100 score. With nothing to
// match against the score is 100.
func KeywordScore(matched, total int) int {
	if total <= 0 {
		return 100
	}
	return clampScore(math.Round(float64(matched) / float64(total) * 100))
}

// MatchPercentage is the share of keywords matched, 0 when there are none.
func MatchPercentage(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return clampScore(math.Round(float64(matched) / float64(total) * 100))
}

// tokenIndex maps stems to the positions they occur at.
type tokenIndex struct {
	stems     []string
	positions map[string][]int
}

func newTokenIndex(tokens []string) *tokenIndex {
	idx := &tokenIndex{
		stems:     stemAll(tokens),
		positions: make(map[string][]int),
	}
	for i, s := range idx.stems {
		idx.positions[s] = append(idx.positions[s], i)
	}
	return idx
}

func (idx *tokenIndex) contains(sequence []string) bool {
	if len(sequence) == 0 {
		return false
	}
	for _, pos := range idx.positions[sequence[0]] {
		if sequenceAt(idx.stems, pos, sequence) {
			return true
		}
	}
	return false
}

func sequenceAt(stems []string, pos int, sequence []string) bool {
	if pos+len(sequence) > len(stems) {
		return false
	}
	for i, s := range sequence {
		if stems[pos+i] != s {
			return false
		}
	}
	return true
}

func stemAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = stem(t)
	}
	return out
}

// stem strips common English inflections so that "managed", "managing",
// "manages" and "management" share a base. Words with non-letters are
// returned unchanged.
func stem(token string) string {
	if len(token) < 4 || !isAlphaWord(token) {
		return token
	}

	n := len(token)
	switch {
	case strings.HasSuffix(token, "ies") && n > 4:
		token = token[:n-3] + "y"
	case strings.HasSuffix(token, "ment") && n > 7:
		token = token[:n-4]
	case strings.HasSuffix(token, "ing") && n > 5:
		token = token[:n-3]
	case strings.HasSuffix(token, "ed") && n > 4:
		token = token[:n-2]
	case hasSibilantPlural(token):
		token = token[:n-2]
	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") &&
		!strings.HasSuffix(token, "us") && !strings.HasSuffix(token, "is"):
		token = token[:n-1]
	}

	if len(token) >= 4 && strings.HasSuffix(token, "e") {
		token = token[:len(token)-1]
	}
	return token
}

func hasSibilantPlural(token string) bool {
	if len(token) <= 4 {
		return false
	}
	for _, suffix := range []string{"sses", "xes", "zes", "ches", "shes"} {
		if strings.HasSuffix(token, suffix) {
			return true
		}
	}
	return false
}

func isAlphaWord(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v)
	}
}
