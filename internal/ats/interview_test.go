package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reliabilityQuestion = "Tell me about a time you improved the reliability of a production system."

func TestScoreInterviewAnswer(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.ScoreInterviewAnswer(reliabilityQuestion, readFixture(t, "interview_answer.txt"))
	require.NoError(t, err)

	assert.Equal(t, StarComponents{Situation: true, Task: true, Action: true, Result: true}, got.StarComponents)
	assert.Equal(t, 100, got.Breakdown.Star)
	assert.Equal(t, 100, got.Breakdown.Relevance)
	assert.Empty(t, got.MissingTerms)
	assert.GreaterOrEqual(t, got.Breakdown.Specificity, 70)
	assert.GreaterOrEqual(t, got.Overall, 85)
}

func TestScoreInterviewAnswerWeak(t *testing.T) {
	e := newTestEngine(t)

	strong, err := e.ScoreInterviewAnswer(reliabilityQuestion, readFixture(t, "interview_answer.txt"))
	require.NoError(t, err)
	weak, err := e.ScoreInterviewAnswer(reliabilityQuestion, "We basically fixed it, you know.")
	require.NoError(t, err)

	assert.Greater(t, strong.Overall, weak.Overall)
	assert.Equal(t, StarComponents{}, weak.StarComponents)
	assert.Zero(t, weak.Breakdown.Relevance)
	assert.Contains(t, weak.Improvements, "Cut filler words (found 2)")
}

func TestScoreInterviewAnswerEmpty(t *testing.T) {
	got, err := newTestEngine(t).ScoreInterviewAnswer(reliabilityQuestion, "")
	require.NoError(t, err)

	assert.Zero(t, got.Overall)
	assert.Equal(t, []string{EmptyAnswerMessage}, got.Improvements)
}

func TestQuestionTerms(t *testing.T) {
	got := newTestEngine(t).questionTerms(reliabilityQuestion)
	assert.Equal(t, []string{"improved", "reliability", "production", "system"}, got)
}

func TestHasQuantifiedResult(t *testing.T) {
	assert.True(t, hasQuantifiedResult("cut costs by 30%"))
	assert.True(t, hasQuantifiedResult("handled 3x the traffic"))
	assert.True(t, hasQuantifiedResult("saved $40k a year"))
	assert.False(t, hasQuantifiedResult("it went well"))
}
