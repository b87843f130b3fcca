package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct-tag
// validation with quiz-shape validation of extraction output.
type Validator struct {
	structValidator *validator.Validate
	quizValidator   *QuizValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		quizValidator:   NewQuizValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate is an alias of ValidateStruct kept for handler ergonomics
func (v *Validator) Validate(s interface{}) error {
	return v.ValidateStruct(s)
}

// Quiz returns the quiz-shape validator
func (v *Validator) Quiz() *QuizValidator {
	return v.quizValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	// Option identifiers are single uppercase letters
	validate.RegisterValidation("option_id", validateOptionID)

	// Zoom step direction
	validate.RegisterValidation("zoom_direction", validateZoomDirection)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateOptionID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 1 {
		return false
	}
	return value[0] >= 'A' && value[0] <= 'Z'
}

func validateZoomDirection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "in", "out", "reset":
		return true
	}
	return false
}
