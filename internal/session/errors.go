package session

import "errors"

// ===== COMMON SESSION ERRORS =====

var (
	ErrSessionNotFound = errors.New("session not found")

	// Upload / extraction
	ErrInvalidFileType    = errors.New("only PDF files are supported")
	ErrExtractionInFlight = errors.New("an extraction is already running for this session")

	// Phase guards
	ErrNotInQuizPhase    = errors.New("session is not in the quiz phase")
	ErrNotInResultsPhase = errors.New("session has not been submitted yet")
	ErrNotInUploadPhase  = errors.New("session already has an exam loaded")

	// Quiz operations
	ErrInvalidOption    = errors.New("selected option does not exist on this question")
	ErrQuestionNotFound = errors.New("question not found in this exam")
)
