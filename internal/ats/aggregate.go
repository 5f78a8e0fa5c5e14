package ats

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Improvement categories in tie-break order.
const (
	CategoryKeywords        = "keywords"
	CategoryStructure       = "structure"
	CategoryFormatting      = "formatting"
	CategoryReadability     = "readability"
	CategoryPersonalization = "personalization"
	CategoryStar            = "star"
	CategoryRelevance       = "relevance"
	CategorySpecificity     = "specificity"
	CategoryDelivery        = "delivery"
)

const (
	// EmptyResumeMessage leads the improvements for an empty resume.
	EmptyResumeMessage = "Resume appears empty: paste the full resume text before scoring"

	missingKeywordSample = 5
)

// Findings carries analyzer details that improvement messages are built from.
type Findings struct {
	Empty             bool
	TotalKeywords     int
	MissingKeywords   []string
	MissingSections   []string
	HasContact        bool
	SectionsInOrder   bool
	FormattingIssues  []string
	ReadabilityIssues []string
}

// Deficiency is one scored category and the messages that would fix it.
type Deficiency struct {
	Category string
	Score    int
	Messages []string
	Fallback string
}

// Aggregate combines the resume sub-scores with the given weights.
func Aggregate(b Breakdown, w Weights) int {
	return weightedScore(
		[]int{b.KeywordMatch, b.Structure, b.Formatting, b.Readability},
		[]float64{w.KeywordMatch, w.Structure, w.Formatting, w.Readability},
	)
}

func weightedScore(scores []int, weights []float64) int {
	total := 0.0
	for i, s := range scores {
		total += weights[i] * float64(s)
	}
	return clampScore(math.Round(total))
}

// BuildImprovements returns messages for every resume sub-score below the
// threshold, largest deficit first.
func BuildImprovements(b Breakdown, threshold int, f Findings) []string {
	structureMessages := make([]string, 0, len(f.MissingSections)+2)
	if !f.Empty && !f.HasContact {
		structureMessages = append(structureMessages, "Add contact information (email and phone) at the top of the resume")
	}
	for _, section := range f.MissingSections {
		structureMessages = append(structureMessages, missingSectionMessage(section))
	}
	if !f.Empty && !f.SectionsInOrder {
		structureMessages = append(structureMessages, "Order sections as Summary, Experience, then Education")
	}

	// With no keywords to mirror there is nothing to suggest for them.
	keywordFallback := ""
	if f.TotalKeywords > 0 {
		keywordFallback = "Mirror the exact wording of the job description's key skills"
	}

	improvements := RankImprovements(threshold, []Deficiency{
		{
			Category: CategoryKeywords,
			Score:    b.KeywordMatch,
			Messages: missingKeywordMessages(f.MissingKeywords, f.TotalKeywords, "job description"),
			Fallback: keywordFallback,
		},
		{
			Category: CategoryStructure,
			Score:    b.Structure,
			Messages: structureMessages,
			Fallback: "Use standard section headings so ATS parsers can find your content",
		},
		{
			Category: CategoryFormatting,
			Score:    b.Formatting,
			Messages: f.FormattingIssues,
			Fallback: "Simplify the layout: plain text, standard bullets and no tables",
		},
		{
			Category: CategoryReadability,
			Score:    b.Readability,
			Messages: f.ReadabilityIssues,
			Fallback: "Write concise bullet points that open with action verbs",
		},
	})

	if f.Empty {
		improvements = append([]string{EmptyResumeMessage}, improvements...)
	}
	return improvements
}

// RankImprovements orders below-threshold categories by deficit. Ties keep
// the order the deficiencies were given in.
func RankImprovements(threshold int, items []Deficiency) []string {
	below := make([]Deficiency, 0, len(items))
	for _, d := range items {
		if d.Score < threshold {
			below = append(below, d)
		}
	}
	slices.SortStableFunc(below, func(a, b Deficiency) int {
		return cmp.Compare(a.Score, b.Score)
	})

	improvements := []string{}
	for _, d := range below {
		if len(d.Messages) == 0 {
			if d.Fallback != "" {
				improvements = append(improvements, d.Fallback)
			}
			continue
		}
		improvements = append(improvements, d.Messages...)
	}
	return improvements
}

func missingKeywordMessages(missing []string, total int, source string) []string {
	if total == 0 || len(missing) == 0 {
		return nil
	}
	sample := missing[:min(len(missing), missingKeywordSample)]
	noun := "keywords"
	if len(missing) == 1 {
		noun = "keyword"
	}
	return []string{fmt.Sprintf("Add %d missing %s from the %s, such as: %s",
		len(missing), noun, source, strings.Join(sample, ", "))}
}
