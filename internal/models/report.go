package models

// QuestionOutcome classifies one question in the final report.
type QuestionOutcome string

const (
	OutcomeCorrect   QuestionOutcome = "correct"
	OutcomeIncorrect QuestionOutcome = "incorrect"
	OutcomeSkipped   QuestionOutcome = "skipped"
)

// QuestionResult is the per-question row of the report.
type QuestionResult struct {
	Index           int             `json:"index"`
	QuestionID      int             `json:"question_id"`
	Text            string          `json:"text"`
	SelectedOption  string          `json:"selected_option,omitempty"`
	CorrectOptionID string          `json:"correct_option_id"`
	Outcome         QuestionOutcome `json:"outcome"`
	Explanation     string          `json:"explanation,omitempty"`
	Marked          bool            `json:"marked"`
}

// Report is the scored result of one submitted session. Purely derived from
// the quiz data and the final answer snapshot; it has no mutable state.
type Report struct {
	Title          string           `json:"title"`
	TotalQuestions int              `json:"total_questions"`
	CorrectCount   int              `json:"correct_count"`
	IncorrectCount int              `json:"incorrect_count"`
	SkippedCount   int              `json:"skipped_count"`
	Percentage     int              `json:"percentage"`
	ElapsedSeconds int              `json:"elapsed_seconds"`
	Questions      []QuestionResult `json:"questions"`
}
