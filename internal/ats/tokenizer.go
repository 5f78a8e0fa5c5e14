package ats

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	versionPattern      = regexp.MustCompile(`^v?\d+(\.\d+)+$`)
	dottedNamePattern   = regexp.MustCompile(`^[a-z0-9]*\.(js|net|io)$`)
	symbolSuffixPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(\+\+|#)$`)
	slashPairPattern    = regexp.MustCompile(`^[a-z]{1,4}/[a-z]{1,4}$`)
)

// Normalize lower-cases text and splits it into tokens. Technical tokens
// such as "c++", "node.js", ".net", "ci/cd" and version numbers survive
// whole. Apostrophes are dropped without splitting the word.
func Normalize(text string) []string {
	tokens := make([]string, 0, len(text)/6+1)

	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tokens = appendCandidate(tokens, b.String())
		b.Reset()
	}

	for _, r := range text {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || isConnector(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()

	return tokens
}

func isConnector(r rune) bool {
	switch r {
	case '.', '+', '#', '/', '-', '_':
		return true
	}
	return false
}

func isWordSeparator(r rune) bool {
	return r == '/' || r == '-' || r == '_'
}

func isTechnicalToken(s string) bool {
	return versionPattern.MatchString(s) ||
		dottedNamePattern.MatchString(s) ||
		symbolSuffixPattern.MatchString(s) ||
		slashPairPattern.MatchString(s)
}

// appendCandidate splits a connector-joined run into tokens, descending
// from whole run to separator pieces to dot pieces.
func appendCandidate(tokens []string, candidate string) []string {
	candidate = trimEdges(candidate)
	if candidate == "" {
		return tokens
	}
	if isTechnicalToken(candidate) {
		return append(tokens, candidate)
	}

	for _, part := range strings.FieldsFunc(candidate, isWordSeparator) {
		part = trimEdges(part)
		if part == "" {
			continue
		}
		if isTechnicalToken(part) {
			tokens = append(tokens, part)
			continue
		}
		for _, piece := range strings.Split(part, ".") {
			piece = trimEdges(piece)
			if piece == "" {
				continue
			}
			if isTechnicalToken(piece) {
				tokens = append(tokens, piece)
				continue
			}
			for _, word := range strings.FieldsFunc(piece, func(r rune) bool { return r == '+' || r == '#' }) {
				tokens = append(tokens, word)
			}
		}
	}
	return tokens
}

func trimEdges(s string) string {
	s = strings.TrimLeft(s, "+#-/_")
	if !dottedNamePattern.MatchString(s) {
		s = strings.TrimLeft(s, ".")
	}
	s = strings.TrimRight(s, ".-/_")
	if !symbolSuffixPattern.MatchString(s) {
		s = strings.TrimRight(s, "+#")
		s = strings.TrimRight(s, ".-/_")
	}
	return s
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
