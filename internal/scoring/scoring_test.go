package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/mocktest-service/internal/models"
)

func threeQuestionQuiz() *models.QuizData {
	opts := []models.Option{
		{ID: "A", Text: "first"},
		{ID: "B", Text: "second"},
		{ID: "C", Text: "third"},
		{ID: "D", Text: "fourth"},
	}
	return &models.QuizData{
		Title: "Sample Paper",
		Questions: []models.Question{
			{ID: 1, Text: "q1", Options: opts, CorrectOptionID: "A", PageNumber: 1},
			{ID: 2, Text: "q2", Options: opts, CorrectOptionID: "B", PageNumber: 1},
			{ID: 3, Text: "q3", Options: opts, CorrectOptionID: "C", PageNumber: 1},
		},
	}
}

func TestBuildReport_PartialCompletionScenario(t *testing.T) {
	// User answers 1 -> "A" (correct), marks 2 without answering, leaves 3
	// untouched, then submits.
	quiz := threeQuestionQuiz()
	answers := models.AnswerMap{1: "A"}
	marked := map[int]bool{2: true}

	report := BuildReport(quiz, answers, marked, 95)

	assert.Equal(t, 3, report.TotalQuestions)
	assert.Equal(t, 1, report.CorrectCount)
	assert.Equal(t, 0, report.IncorrectCount)
	assert.Equal(t, 2, report.SkippedCount)
	assert.Equal(t, report.TotalQuestions, report.CorrectCount+report.IncorrectCount+report.SkippedCount)
	assert.Equal(t, 33, report.Percentage, "round(1/3*100)")
	assert.Equal(t, 95, report.ElapsedSeconds)

	require.Len(t, report.Questions, 3)
	assert.Equal(t, models.OutcomeCorrect, report.Questions[0].Outcome)
	assert.Equal(t, models.OutcomeSkipped, report.Questions[1].Outcome)
	assert.Empty(t, report.Questions[1].SelectedOption, "marked question was never answered")
	assert.True(t, report.Questions[1].Marked)
	assert.Equal(t, models.OutcomeSkipped, report.Questions[2].Outcome)
}

func TestBuildReport_ClearedAnswerScoresAsSkipped(t *testing.T) {
	quiz := threeQuestionQuiz()

	// An answer that was selected and then cleared is absent from the map,
	// which must score identically to never answering.
	cleared := models.AnswerMap{2: "B"}
	delete(cleared, 2)
	never := models.AnswerMap{}

	a := BuildReport(quiz, cleared, nil, 0)
	b := BuildReport(quiz, never, nil, 0)

	assert.Equal(t, b.SkippedCount, a.SkippedCount)
	assert.Equal(t, 3, a.SkippedCount)
	assert.Equal(t, 0, a.Percentage)
}

func TestBuildReport_AllOutcomes(t *testing.T) {
	quiz := threeQuestionQuiz()
	answers := models.AnswerMap{1: "A", 2: "D", 3: "C"}

	report := BuildReport(quiz, answers, nil, 300)

	assert.Equal(t, 2, report.CorrectCount)
	assert.Equal(t, 1, report.IncorrectCount)
	assert.Equal(t, 0, report.SkippedCount)
	assert.Equal(t, 67, report.Percentage, "round(2/3*100)")
	assert.Equal(t, models.OutcomeIncorrect, report.Questions[1].Outcome)
	assert.Equal(t, "D", report.Questions[1].SelectedOption)
}
