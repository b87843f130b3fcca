package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/mocktest-service/internal/models"
)

const sampleResponse = `{
  "title": "Physics Mock Paper",
  "topic": "Optics",
  "questions": [
    {
      "id": 1,
      "text": "A convex lens has focal length $f = 20\\,cm$. Where is the image?",
      "options": [
        {"id": "a", "text": "40 cm"},
        {"id": "b", "text": "20 cm"},
        {"id": "c", "text": "10 cm"},
        {"id": "d", "text": "At infinity"}
      ],
      "correctOptionId": "a",
      "explanation": "Use $\\frac{1}{v} - \\frac{1}{u} = \\frac{1}{f}$.",
      "boundingBox": [150, 100, 400, 600],
      "pageNumber": 2
    },
    {
      "id": 2,
      "text": "Which phenomenon explains the blue sky?",
      "options": [
        {"id": "A", "text": "Rayleigh scattering"},
        {"id": "B", "text": "Total internal reflection"}
      ],
      "correctOptionId": "A",
      "boundingBox": [0, 0, 0, 0]
    }
  ]
}`

func TestParseQuizResponse_WellFormed(t *testing.T) {
	quiz, err := parseQuizResponse([]byte(sampleResponse))
	require.NoError(t, err)

	assert.Equal(t, "Physics Mock Paper", quiz.Title)
	assert.Equal(t, "Optics", quiz.Topic)
	require.Len(t, quiz.Questions, 2)

	q1 := quiz.Questions[0]
	assert.Equal(t, 1, q1.ID)
	assert.Equal(t, "A", q1.Options[0].ID, "option ids are uppercased")
	assert.Equal(t, models.BoundingBox{150, 100, 400, 600}, q1.BoundingBox)
	assert.Equal(t, 2, q1.PageNumber)

	q2 := quiz.Questions[1]
	assert.True(t, q2.BoundingBox.IsZero())
	assert.Empty(t, q2.Explanation)
}

func TestParseQuizResponse_StripsMarkdownFences(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"
	quiz, err := parseQuizResponse([]byte(fenced))
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 2)
}

func TestParseQuizResponse_RejectsGarbage(t *testing.T) {
	_, err := parseQuizResponse([]byte("I could not read this document, sorry."))
	assert.Error(t, err)
}

func TestNormalizeQuiz_Defaults(t *testing.T) {
	quiz, err := parseQuizResponse([]byte(sampleResponse))
	require.NoError(t, err)

	// Page absent on question 2; correct id lowercased on question 1.
	quiz.Questions[0].CorrectOptionID = "a"
	normalizeQuiz(quiz)

	assert.Equal(t, 1, quiz.Questions[1].PageNumber, "absent page defaults to 1")
	assert.Equal(t, "A", quiz.Questions[0].CorrectOptionID)
}

func TestNormalizeQuiz_ClampsBoundingBox(t *testing.T) {
	quiz := &models.QuizData{Questions: []models.Question{
		{ID: 1, BoundingBox: models.BoundingBox{-20, 50, 1400, 900}, PageNumber: 1},
	}}

	normalizeQuiz(quiz)

	assert.Equal(t, models.BoundingBox{0, 50, 1000, 900}, quiz.Questions[0].BoundingBox)
}

func TestNormalizeQuiz_KeepsZeroBoxAsSentinel(t *testing.T) {
	quiz := &models.QuizData{Questions: []models.Question{
		{ID: 1, BoundingBox: models.BoundingBox{}, PageNumber: 0},
	}}

	normalizeQuiz(quiz)

	assert.True(t, quiz.Questions[0].BoundingBox.IsZero())
	assert.Equal(t, 1, quiz.Questions[0].PageNumber)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
