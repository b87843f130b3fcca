// Package scoring derives the performance report from quiz data and a final
// answer snapshot. Everything here is a pure function of its inputs.
package scoring

import (
	"math"

	"github.com/prepdeck/mocktest-service/internal/models"
)

// BuildReport classifies every question as correct, incorrect or skipped
// against the submitted answer snapshot. A question id absent from the
// snapshot is skipped; a cleared response and a never-answered question are
// indistinguishable here, which is exactly the contract.
func BuildReport(quiz *models.QuizData, answers models.AnswerMap, marked map[int]bool, elapsedSeconds int) *models.Report {
	report := &models.Report{
		Title:          quiz.Title,
		TotalQuestions: len(quiz.Questions),
		ElapsedSeconds: elapsedSeconds,
		Questions:      make([]models.QuestionResult, 0, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]

		result := models.QuestionResult{
			Index:           i,
			QuestionID:      q.ID,
			Text:            q.Text,
			CorrectOptionID: q.CorrectOptionID,
			Explanation:     q.Explanation,
			Marked:          marked[q.ID],
		}

		selected, answered := answers[q.ID]
		switch {
		case !answered:
			result.Outcome = models.OutcomeSkipped
			report.SkippedCount++
		case selected == q.CorrectOptionID:
			result.SelectedOption = selected
			result.Outcome = models.OutcomeCorrect
			report.CorrectCount++
		default:
			result.SelectedOption = selected
			result.Outcome = models.OutcomeIncorrect
			report.IncorrectCount++
		}

		report.Questions = append(report.Questions, result)
	}

	if report.TotalQuestions > 0 {
		report.Percentage = int(math.Round(float64(report.CorrectCount) / float64(report.TotalQuestions) * 100))
	}

	return report
}
