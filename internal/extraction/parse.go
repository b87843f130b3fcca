package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prepdeck/mocktest-service/internal/models"
)

// Wire types mirror the JSON contract of the extraction prompt.

type wireOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type wireQuestion struct {
	ID              int          `json:"id"`
	Text            string       `json:"text"`
	Options         []wireOption `json:"options"`
	CorrectOptionID string       `json:"correctOptionId"`
	Explanation     string       `json:"explanation"`
	BoundingBox     []int        `json:"boundingBox"`
	PageNumber      int          `json:"pageNumber"`
}

type wireQuiz struct {
	Title     string         `json:"title"`
	Topic     string         `json:"topic"`
	Questions []wireQuestion `json:"questions"`
}

// parseQuizResponse decodes the model output into quiz data. Models
// sometimes wrap JSON in markdown fences despite the response MIME type, so
// fences are stripped first.
func parseQuizResponse(raw []byte) (*models.QuizData, error) {
	text := stripFences(string(raw))

	var wire wireQuiz
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	quiz := &models.QuizData{
		Title:     strings.TrimSpace(wire.Title),
		Topic:     strings.TrimSpace(wire.Topic),
		Questions: make([]models.Question, 0, len(wire.Questions)),
	}

	for _, wq := range wire.Questions {
		q := models.Question{
			ID:              wq.ID,
			Text:            wq.Text,
			CorrectOptionID: strings.TrimSpace(wq.CorrectOptionID),
			Explanation:     strings.TrimSpace(wq.Explanation),
			PageNumber:      wq.PageNumber,
			Options:         make([]models.Option, 0, len(wq.Options)),
		}
		for _, wo := range wq.Options {
			q.Options = append(q.Options, models.Option{
				ID:   strings.ToUpper(strings.TrimSpace(wo.ID)),
				Text: wo.Text,
			})
		}
		if len(wq.BoundingBox) == 4 {
			copy(q.BoundingBox[:], wq.BoundingBox)
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	return quiz, nil
}

// normalizeQuiz applies the permissive defaults of the extraction contract:
// absent page numbers mean page 1, bounding box coordinates are clamped to
// the 0-1000 scale, correct option ids are uppercased.
func normalizeQuiz(quiz *models.QuizData) {
	for i := range quiz.Questions {
		q := &quiz.Questions[i]

		if q.PageNumber < 1 {
			q.PageNumber = 1
		}
		q.CorrectOptionID = strings.ToUpper(q.CorrectOptionID)

		if !q.BoundingBox.IsZero() {
			for j, v := range q.BoundingBox {
				if v < 0 {
					q.BoundingBox[j] = 0
				}
				if v > 1000 {
					q.BoundingBox[j] = 1000
				}
			}
		}
	}
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
