package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/mocktest-service/internal/models"
)

func navQuiz(count int) *models.QuizData {
	quiz := &models.QuizData{Title: "Nav fixture"}
	for i := 1; i <= count; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:   i,
			Text: "question",
			Options: []models.Option{
				{ID: "A", Text: "a"},
				{ID: "B", Text: "b"},
				{ID: "C", Text: "c"},
				{ID: "D", Text: "d"},
			},
			CorrectOptionID: "A",
			PageNumber:      1,
		})
	}
	return quiz
}

func TestNavigationState_IndexZeroVisitedAtStart(t *testing.T) {
	nav := NewNavigationState(navQuiz(3))

	assert.Equal(t, 0, nav.CurrentIndex())
	assert.Equal(t, models.StatusNotAnswered, nav.StatusOf(0))
	assert.Equal(t, models.StatusNotVisited, nav.StatusOf(1))
	assert.Equal(t, models.StatusNotVisited, nav.StatusOf(2))
}

func TestNavigationState_NavigateClampsOutOfRange(t *testing.T) {
	nav := NewNavigationState(navQuiz(3))

	assert.Equal(t, 2, nav.NavigateTo(10))
	assert.Equal(t, 0, nav.NavigateTo(-5))
	assert.Equal(t, 1, nav.NavigateTo(1))
}

func TestNavigationState_VisitedGrowsMonotonically(t *testing.T) {
	nav := NewNavigationState(navQuiz(4))

	nav.NavigateTo(2)
	nav.NavigateTo(0)

	// Index 2 stays visited after navigating away.
	assert.Equal(t, models.StatusNotAnswered, nav.StatusOf(2))
	assert.Equal(t, models.StatusNotVisited, nav.StatusOf(1))
	assert.Equal(t, models.StatusNotVisited, nav.StatusOf(3))
}

func TestNavigationState_SelectAndClearResponse(t *testing.T) {
	nav := NewNavigationState(navQuiz(3))

	require.NoError(t, nav.SelectOption("B"))
	assert.Equal(t, models.StatusAnswered, nav.StatusOf(0))

	// Overwrite is allowed until submit.
	require.NoError(t, nav.SelectOption("C"))
	opt, ok := nav.SelectedOption(1)
	require.True(t, ok)
	assert.Equal(t, "C", opt)

	nav.ClearResponse()
	_, ok = nav.SelectedOption(1)
	assert.False(t, ok, "cleared answer must be an absent key, not an empty value")
	assert.Equal(t, models.StatusNotAnswered, nav.StatusOf(0))
}

func TestNavigationState_SelectRejectsUnknownOption(t *testing.T) {
	nav := NewNavigationState(navQuiz(1))
	assert.ErrorIs(t, nav.SelectOption("Z"), ErrInvalidOption)
}

func TestNavigationState_FiveStatusDerivation(t *testing.T) {
	nav := NewNavigationState(navQuiz(5))

	// q0: answered and marked
	require.NoError(t, nav.SelectOption("A"))
	nav.ToggleMarkForReview() // marks q0, advances to 1

	// q1: marked only (auto-advances to 2)
	nav.ToggleMarkForReview()

	// q2: answered only
	require.NoError(t, nav.SelectOption("D"))

	// q3: visited, untouched
	nav.NavigateTo(3)

	// q4: never visited

	assert.Equal(t, models.StatusAnsweredAndMarked, nav.StatusOf(0))
	assert.Equal(t, models.StatusMarkedForReview, nav.StatusOf(1))
	assert.Equal(t, models.StatusAnswered, nav.StatusOf(2))
	assert.Equal(t, models.StatusNotAnswered, nav.StatusOf(3))
	assert.Equal(t, models.StatusNotVisited, nav.StatusOf(4))
}

func TestNavigationState_MarkToggleIsIdempotentInPairs(t *testing.T) {
	nav := NewNavigationState(navQuiz(3))

	nav.ToggleMarkForReview() // mark q0, advance to 1
	nav.NavigateTo(0)
	nav.ToggleMarkForReview() // unmark q0, advance to 1

	assert.False(t, nav.IsMarked(1))
	assert.Equal(t, models.StatusNotAnswered, nav.StatusOf(0))
}

func TestNavigationState_MarkOnLastQuestionStaysPut(t *testing.T) {
	nav := NewNavigationState(navQuiz(3))

	nav.NavigateTo(2)
	nav.ToggleMarkForReview()

	assert.Equal(t, 2, nav.CurrentIndex(), "auto-advance must not run past the end")
	assert.True(t, nav.IsMarked(3))
}

func TestNavigationState_SaveAndNext(t *testing.T) {
	nav := NewNavigationState(navQuiz(2))

	require.NoError(t, nav.SelectOption("B"))
	nav.SaveAndNext()
	assert.Equal(t, 1, nav.CurrentIndex())

	// Answer already recorded at selection time.
	opt, ok := nav.SelectedOption(1)
	require.True(t, ok)
	assert.Equal(t, "B", opt)

	// On the last question SaveAndNext is a no-op.
	nav.SaveAndNext()
	assert.Equal(t, 1, nav.CurrentIndex())
}

func TestNavigationState_SnapshotIsIndependent(t *testing.T) {
	nav := NewNavigationState(navQuiz(2))
	require.NoError(t, nav.SelectOption("A"))

	snap := nav.Snapshot()
	nav.ClearResponse()

	assert.Equal(t, "A", snap[1], "submit snapshot must not observe later mutations")
	_, stillThere := nav.SelectedOption(1)
	assert.False(t, stillThere)
}

func TestNavigationState_Palette(t *testing.T) {
	nav := NewNavigationState(navQuiz(3))
	require.NoError(t, nav.SelectOption("A"))
	nav.NavigateTo(1)

	palette := nav.Palette()
	require.Len(t, palette, 3)
	assert.Equal(t, models.StatusAnswered, palette[0].Status)
	assert.Equal(t, models.StatusNotAnswered, palette[1].Status)
	assert.Equal(t, models.StatusNotVisited, palette[2].Status)
	assert.Equal(t, 1, palette[0].ID)
	assert.Equal(t, 0, palette[0].Index)
}

func TestNavigationState_RevisitAndReanswerUntilSubmit(t *testing.T) {
	nav := NewNavigationState(navQuiz(3))

	require.NoError(t, nav.SelectOption("A"))
	nav.NavigateTo(2)
	nav.NavigateTo(0)
	require.NoError(t, nav.SelectOption("D"))

	opt, _ := nav.SelectedOption(1)
	assert.Equal(t, "D", opt, "no locking: any question is re-answerable until submit")
}
