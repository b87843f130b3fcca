package validator

import (
	"fmt"

	"github.com/prepdeck/mocktest-service/internal/errors"
	"github.com/prepdeck/mocktest-service/internal/models"
)

// QuizValidator checks the structural soundness of extraction output beyond
// what struct tags can express: identifier uniqueness, option references,
// bounding box geometry.
type QuizValidator struct{}

// NewQuizValidator creates a new quiz validator
func NewQuizValidator() *QuizValidator {
	return &QuizValidator{}
}

// ValidateQuiz validates a complete extraction result. Presence of at least
// one question is the sole success criterion for the quiz as a whole; a
// missing title is acceptable.
func (v *QuizValidator) ValidateQuiz(quiz *models.QuizData) errors.ValidationErrors {
	var errs errors.ValidationErrors

	if quiz == nil || len(quiz.Questions) == 0 {
		errs = append(errs, *errors.NewValidationError("questions", "must contain at least one question", nil))
		return errs
	}

	seen := make(map[int]bool, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]

		if seen[q.ID] {
			errs = append(errs, *errors.NewValidationError(
				fmt.Sprintf("questions[%d].id", i), "duplicates another question id", q.ID))
		}
		seen[q.ID] = true

		errs = append(errs, v.validateQuestion(i, q)...)
	}

	return errs
}

func (v *QuizValidator) validateQuestion(i int, q *models.Question) errors.ValidationErrors {
	var errs errors.ValidationErrors
	field := func(name string) string { return fmt.Sprintf("questions[%d].%s", i, name) }

	if q.Text == "" {
		errs = append(errs, *errors.NewValidationError(field("text"), "is required", nil))
	}

	if len(q.Options) < 2 {
		errs = append(errs, *errors.NewValidationError(field("options"), "must have at least 2 options", len(q.Options)))
	}

	optionIDs := make(map[string]bool, len(q.Options))
	for j, opt := range q.Options {
		if len(opt.ID) != 1 || opt.ID[0] < 'A' || opt.ID[0] > 'Z' {
			errs = append(errs, *errors.NewValidationError(
				field(fmt.Sprintf("options[%d].id", j)), "must be a single uppercase letter (A-Z)", opt.ID))
		}
		if optionIDs[opt.ID] {
			errs = append(errs, *errors.NewValidationError(
				field(fmt.Sprintf("options[%d].id", j)), "duplicates another option id", opt.ID))
		}
		optionIDs[opt.ID] = true

		if opt.Text == "" {
			errs = append(errs, *errors.NewValidationError(
				field(fmt.Sprintf("options[%d].text", j)), "is required", nil))
		}
	}

	if !optionIDs[q.CorrectOptionID] {
		errs = append(errs, *errors.NewValidationError(
			field("correct_option_id"), "does not match any option id", q.CorrectOptionID))
	}

	errs = append(errs, v.validateBoundingBox(field("bounding_box"), q.BoundingBox)...)

	if q.PageNumber < 1 {
		errs = append(errs, *errors.NewValidationError(field("page_number"), "must be a 1-based page number", q.PageNumber))
	}

	return errs
}

func (v *QuizValidator) validateBoundingBox(field string, bbox models.BoundingBox) errors.ValidationErrors {
	if bbox.IsZero() {
		return nil // no diagram
	}

	var errs errors.ValidationErrors
	for _, val := range bbox {
		if val < 0 || val > 1000 {
			errs = append(errs, *errors.NewValidationError(field, "must be four integers on the 0-1000 normalized scale", bbox))
			return errs
		}
	}
	if bbox[0] > bbox[2] || bbox[1] > bbox[3] {
		errs = append(errs, *errors.NewValidationError(field, "min bound exceeds max bound", bbox))
	}
	return errs
}
