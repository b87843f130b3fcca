package session

import (
	"github.com/prepdeck/mocktest-service/internal/models"
)

// NavigationState is the quiz navigation state machine. It tracks the
// current position, the monotonically growing set of visited indices, the
// answer map and the toggleable marked-for-review set, and derives the
// palette status of every question from them.
//
// Marking and answering are independent axes; visiting is irreversible,
// marking toggles, answering is reversible only through ClearResponse.
// NavigationState is not safe for concurrent use: the owning Session
// serializes access, matching the one-mutation-per-user-action model.
type NavigationState struct {
	quiz    *models.QuizData
	current int
	visited map[int]struct{}
	answers models.AnswerMap
	marked  map[int]struct{}
}

// NewNavigationState starts at question 0, which counts as visited
// immediately.
func NewNavigationState(quiz *models.QuizData) *NavigationState {
	return &NavigationState{
		quiz:    quiz,
		current: 0,
		visited: map[int]struct{}{0: {}},
		answers: make(models.AnswerMap),
		marked:  make(map[int]struct{}),
	}
}

// CurrentIndex returns the 0-based index of the question on screen.
func (n *NavigationState) CurrentIndex() int {
	return n.current
}

// CurrentQuestion returns the question on screen.
func (n *NavigationState) CurrentQuestion() *models.Question {
	return n.quiz.QuestionAt(n.current)
}

// QuestionCount returns the number of questions in navigation order.
func (n *NavigationState) QuestionCount() int {
	return len(n.quiz.Questions)
}

// NavigateTo moves to the given index, clamping out-of-range values into
// [0, count-1], and marks the destination visited. Returns the index
// actually landed on.
func (n *NavigationState) NavigateTo(index int) int {
	if index < 0 {
		index = 0
	}
	if max := n.QuestionCount() - 1; index > max {
		index = max
	}
	n.current = index
	n.visited[index] = struct{}{}
	return index
}

// SelectOption records the answer for the current question, overwriting any
// prior selection. Answers are saved immediately, not deferred to
// SaveAndNext.
func (n *NavigationState) SelectOption(optionID string) error {
	q := n.CurrentQuestion()
	if q.OptionByID(optionID) == nil {
		return ErrInvalidOption
	}
	n.answers[q.ID] = optionID
	return nil
}

// ClearResponse removes the current question's entry from the answer map
// entirely. Absence of the key is the only "unanswered" representation;
// scoring depends on it.
func (n *NavigationState) ClearResponse() {
	delete(n.answers, n.CurrentQuestion().ID)
}

// ToggleMarkForReview flips the review flag on the current question, then
// advances to the next question unless already on the last one
// ("mark and move on").
func (n *NavigationState) ToggleMarkForReview() {
	id := n.CurrentQuestion().ID
	if _, ok := n.marked[id]; ok {
		delete(n.marked, id)
	} else {
		n.marked[id] = struct{}{}
	}
	n.advance()
}

// SaveAndNext advances to the next question unless on the last one. The
// answer map is untouched: selections were already recorded.
func (n *NavigationState) SaveAndNext() {
	n.advance()
}

func (n *NavigationState) advance() {
	if n.current < n.QuestionCount()-1 {
		n.NavigateTo(n.current + 1)
	}
}

// IsAnswered reports whether the question id has an entry in the answer map.
func (n *NavigationState) IsAnswered(id int) bool {
	_, ok := n.answers[id]
	return ok
}

// IsMarked reports whether the question id is marked for review.
func (n *NavigationState) IsMarked(id int) bool {
	_, ok := n.marked[id]
	return ok
}

// SelectedOption returns the recorded answer for a question id, if any.
func (n *NavigationState) SelectedOption(id int) (string, bool) {
	opt, ok := n.answers[id]
	return opt, ok
}

// StatusOf derives the display status for the question at index. It is a
// pure function of the answer map, the marked set and the visited set;
// answered_and_marked wins whenever both axes hold.
func (n *NavigationState) StatusOf(index int) models.QuestionStatus {
	q := n.quiz.QuestionAt(index)
	if q == nil {
		return models.StatusNotVisited
	}

	answered := n.IsAnswered(q.ID)
	marked := n.IsMarked(q.ID)
	_, visited := n.visited[index]

	switch {
	case answered && marked:
		return models.StatusAnsweredAndMarked
	case marked:
		return models.StatusMarkedForReview
	case answered:
		return models.StatusAnswered
	case visited:
		return models.StatusNotAnswered
	default:
		return models.StatusNotVisited
	}
}

// Palette returns the status grid in navigation order.
func (n *NavigationState) Palette() []models.PaletteEntry {
	entries := make([]models.PaletteEntry, 0, n.QuestionCount())
	for i := range n.quiz.Questions {
		entries = append(entries, models.PaletteEntry{
			Index:  i,
			ID:     n.quiz.Questions[i].ID,
			Status: n.StatusOf(i),
		})
	}
	return entries
}

// Snapshot returns an immutable copy of the answer map for submission.
func (n *NavigationState) Snapshot() models.AnswerMap {
	return n.answers.Clone()
}

// MarkedSet returns a copy of the marked-for-review flags keyed by question
// id.
func (n *NavigationState) MarkedSet() map[int]bool {
	out := make(map[int]bool, len(n.marked))
	for id := range n.marked {
		out[id] = true
	}
	return out
}
