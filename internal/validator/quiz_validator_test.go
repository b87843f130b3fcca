package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/mocktest-service/internal/models"
)

func validQuiz() *models.QuizData {
	return &models.QuizData{
		Title: "Thermodynamics Mock Test",
		Questions: []models.Question{
			{
				ID:   1,
				Text: "What is the first law of thermodynamics?",
				Options: []models.Option{
					{ID: "A", Text: "Energy is conserved"},
					{ID: "B", Text: "Entropy always increases"},
					{ID: "C", Text: "Heat flows from hot to cold"},
					{ID: "D", Text: "Work equals force times distance"},
				},
				CorrectOptionID: "A",
				PageNumber:      1,
			},
			{
				ID:   2,
				Text: "Identify the cycle shown in the diagram.",
				Options: []models.Option{
					{ID: "A", Text: "Carnot"},
					{ID: "B", Text: "Rankine"},
				},
				CorrectOptionID: "B",
				BoundingBox:     models.BoundingBox{120, 80, 460, 520},
				PageNumber:      2,
			},
		},
	}
}

func TestValidateQuiz_AcceptsWellFormedQuiz(t *testing.T) {
	errs := NewQuizValidator().ValidateQuiz(validQuiz())
	assert.Empty(t, errs)
}

func TestValidateQuiz_MissingTitleIsAcceptable(t *testing.T) {
	quiz := validQuiz()
	quiz.Title = ""
	errs := NewQuizValidator().ValidateQuiz(quiz)
	assert.Empty(t, errs, "presence of at least one question is the sole success criterion")
}

func TestValidateQuiz_RejectsEmptyQuiz(t *testing.T) {
	errs := NewQuizValidator().ValidateQuiz(&models.QuizData{Title: "Empty"})
	require.Len(t, errs, 1)
	assert.Equal(t, "questions", errs[0].Field)

	errs = NewQuizValidator().ValidateQuiz(nil)
	require.Len(t, errs, 1)
}

func TestValidateQuiz_RejectsDanglingCorrectOption(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[0].CorrectOptionID = "E"

	errs := NewQuizValidator().ValidateQuiz(quiz)
	require.NotEmpty(t, errs)
	assert.Equal(t, "questions[0].correct_option_id", errs[0].Field)
}

func TestValidateQuiz_RejectsDuplicateIDs(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[1].ID = quiz.Questions[0].ID

	errs := NewQuizValidator().ValidateQuiz(quiz)
	require.NotEmpty(t, errs)
	assert.Equal(t, "questions[1].id", errs[0].Field)

	quiz = validQuiz()
	quiz.Questions[0].Options[1].ID = "A"
	errs = NewQuizValidator().ValidateQuiz(quiz)
	assert.NotEmpty(t, errs)
}

func TestValidateQuiz_BoundingBoxGeometry(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[1].BoundingBox = models.BoundingBox{100, 100, 50, 400} // ymin > ymax
	errs := NewQuizValidator().ValidateQuiz(quiz)
	assert.NotEmpty(t, errs)

	quiz = validQuiz()
	quiz.Questions[1].BoundingBox = models.BoundingBox{0, 0, 1200, 500} // out of scale
	errs = NewQuizValidator().ValidateQuiz(quiz)
	assert.NotEmpty(t, errs)

	// The all-zero box is the "no diagram" sentinel, not a geometry error.
	quiz = validQuiz()
	quiz.Questions[1].BoundingBox = models.BoundingBox{}
	errs = NewQuizValidator().ValidateQuiz(quiz)
	assert.Empty(t, errs)
}

func TestValidator_OptionIDTag(t *testing.T) {
	v := New()

	type req struct {
		OptionID string `json:"option_id" validate:"required,option_id"`
	}

	assert.NoError(t, v.ValidateStruct(req{OptionID: "C"}))
	assert.Error(t, v.ValidateStruct(req{OptionID: "c"}))
	assert.Error(t, v.ValidateStruct(req{OptionID: "AB"}))
	assert.Error(t, v.ValidateStruct(req{OptionID: ""}))
}
