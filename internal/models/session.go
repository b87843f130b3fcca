package models

// Phase is the overall application phase of one session.
type Phase string

const (
	PhaseUpload     Phase = "Upload"
	PhaseProcessing Phase = "Processing"
	PhaseQuiz       Phase = "Quiz"
	PhaseResults    Phase = "Results"
)

// QuestionStatus is the derived display status of a question in the palette.
// It is a pure function of (answered, marked, visited).
type QuestionStatus string

const (
	StatusNotVisited        QuestionStatus = "not_visited"
	StatusNotAnswered       QuestionStatus = "not_answered"
	StatusAnswered          QuestionStatus = "answered"
	StatusMarkedForReview   QuestionStatus = "marked_for_review"
	StatusAnsweredAndMarked QuestionStatus = "answered_and_marked"
)

// AnswerMap maps question id to selected option id. Unanswered questions are
// absent keys, never empty values; scoring depends on that distinction.
type AnswerMap map[int]string

// Clone returns an independent copy, used for immutable submit snapshots.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// PaletteEntry is one cell of the question navigation grid.
type PaletteEntry struct {
	Index  int            `json:"index"`
	ID     int            `json:"id"`
	Status QuestionStatus `json:"status"`
}

// SessionView is the handler-facing snapshot of a session.
type SessionView struct {
	ID             string         `json:"id"`
	Phase          Phase          `json:"phase"`
	Error          string         `json:"error,omitempty"`
	Title          string         `json:"title,omitempty"`
	Topic          string         `json:"topic,omitempty"`
	QuestionCount  int            `json:"question_count,omitempty"`
	CurrentIndex   int            `json:"current_index"`
	Question       *QuestionView  `json:"question,omitempty"`
	Palette        []PaletteEntry `json:"palette,omitempty"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	Zoom           float64        `json:"zoom,omitempty"`
	PaletteOpen    bool           `json:"palette_open"`
}

// QuestionView is a question as shown during the quiz: no correct answer and
// no explanation leak before submit.
type QuestionView struct {
	ID             int      `json:"id"`
	Text           string   `json:"text"`
	Options        []Option `json:"options"`
	SelectedOption string   `json:"selected_option,omitempty"`
	Marked         bool     `json:"marked"`
	HasDiagram     bool     `json:"has_diagram"`
	PageNumber     int      `json:"page_number"`
}
