package models

// BoundingBox locates a diagram on a PDF page on a normalized 0-1000 scale
// per axis, independent of rendered pixel dimensions. Order is
// [ymin, xmin, ymax, xmax]. The all-zero box means "no diagram".
type BoundingBox [4]int

// IsZero reports whether the box is the "no diagram" sentinel.
func (b BoundingBox) IsZero() bool {
	return b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 0
}

type Option struct {
	ID   string `json:"id" validate:"required,option_id"`
	Text string `json:"text" validate:"required"`
}

// Question is immutable once received from extraction. Text and option text
// are markdown and may embed LaTeX ($...$ inline, $$...$$ block).
type Question struct {
	ID              int         `json:"id" validate:"required"`
	Text            string      `json:"text" validate:"required"`
	Options         []Option    `json:"options" validate:"required,min=2,dive"`
	CorrectOptionID string      `json:"correct_option_id" validate:"required,option_id"`
	Explanation     string      `json:"explanation,omitempty"`
	BoundingBox     BoundingBox `json:"bounding_box,omitempty"`
	// PageNumber is 1-based; extraction normalizes an absent page to 1.
	PageNumber int `json:"page_number" validate:"min=1"`
}

// HasDiagram reports whether the question carries a diagram region.
func (q *Question) HasDiagram() bool {
	return !q.BoundingBox.IsZero()
}

// OptionByID returns the option with the given id, or nil.
func (q *Question) OptionByID(id string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// QuizData is the structured result of extraction. Question order is the
// canonical navigation order and defines next/previous and the palette grid.
// Read-only for the lifetime of a session.
type QuizData struct {
	Title     string     `json:"title"`
	Topic     string     `json:"topic,omitempty"`
	Questions []Question `json:"questions" validate:"required,min=1,dive"`
}

// QuestionAt returns the question at the given navigation index, or nil if
// the index is out of range.
func (qd *QuizData) QuestionAt(index int) *Question {
	if index < 0 || index >= len(qd.Questions) {
		return nil
	}
	return &qd.Questions[index]
}
