package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/prepdeck/mocktest-service/internal/errors"
	"github.com/prepdeck/mocktest-service/internal/session"
	"github.com/prepdeck/mocktest-service/internal/utils"
	"github.com/prepdeck/mocktest-service/internal/validator"
)

// ===== REQUEST STRUCTURES =====

// NavigateRequest selects a question by zero-based index.
type NavigateRequest struct {
	Index int `json:"index" validate:"min=0"`
}

// AnswerRequest records an option for the current question.
type AnswerRequest struct {
	OptionID string `json:"option_id" validate:"required,option_id"`
}

// ZoomRequest steps the inline diagram zoom.
type ZoomRequest struct {
	Direction string `json:"direction" validate:"required,zoom_direction"`
}

// PaletteRequest opens or closes the palette overlay.
type PaletteRequest struct {
	Open bool `json:"open"`
}

// ===== SESSION HANDLER =====

type SessionHandler struct {
	BaseHandler
	service        *session.Service
	validator      *validator.Validator
	maxUploadBytes int64
}

func NewSessionHandler(
	service *session.Service,
	v *validator.Validator,
	maxUploadBytes int64,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		service:        service,
		validator:      v,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateSession accepts a PDF upload (multipart field "file"), creates a
// session and runs extraction. The response reflects the resulting phase:
// quiz on success, upload with an error message on extraction failure.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	h.LogRequest(c, "Creating session from upload")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing file upload", err,
			"expected multipart field \"file\"")
		return
	}
	defer file.Close()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, "File too large", nil,
			"maximum upload size is "+strconv.FormatInt(h.maxUploadBytes, 10)+" bytes")
		return
	}

	var reader io.Reader = file
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	view := h.service.Create()

	after, err := h.service.SubmitFile(c.Request.Context(), view.ID, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, after)
}

// GetSession returns the current view of a session in any phase.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.service.View(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Navigate jumps to a question by index.
func (h *SessionHandler) Navigate(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req NavigateRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	view, err := h.service.NavigateTo(id, req.Index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Answer records an option for the current question.
func (h *SessionHandler) Answer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req AnswerRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	view, err := h.service.SelectOption(id, req.OptionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ClearResponse removes the current question's answer.
func (h *SessionHandler) ClearResponse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.service.ClearResponse(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ToggleMark flips mark-for-review on the current question.
func (h *SessionHandler) ToggleMark(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.service.ToggleMark(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SaveAndNext advances to the next question.
func (h *SessionHandler) SaveAndNext(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.service.SaveAndNext(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Zoom steps the diagram zoom in, out or back to the default.
func (h *SessionHandler) Zoom(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req ZoomRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	view, err := h.service.Zoom(id, req.Direction)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SetPalette opens or closes the question palette overlay.
func (h *SessionHandler) SetPalette(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req PaletteRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	view, err := h.service.SetPaletteOpen(id, req.Open)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Submit ends the quiz and returns the report.
func (h *SessionHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Submitting session", "session_id", id)

	report, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Retry resets the session back to the upload phase.
func (h *SessionHandler) Retry(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Resetting session", "session_id", id)

	view, err := h.service.Retry(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Solution generates the detailed solution for a report question.
func (h *SessionHandler) Solution(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	questionID, err := strconv.Atoi(c.Param("qid"))
	if err != nil || questionID < 1 {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid question id", err)
		return
	}

	text, err := h.service.Solution(c.Request.Context(), id, questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question_id": questionID,
		"solution":    text,
	})
}

// ===== HELPERS =====

func (h *SessionHandler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.RespondWithValidationErrors(c, apperrors.ToValidationErrors(err))
		return false
	}
	return true
}

func (h *SessionHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, session.ErrInvalidFileType):
		h.RespondWithError(c, http.StatusBadRequest, "Only PDF files are supported", err)
	case errors.Is(err, session.ErrExtractionInFlight):
		h.RespondWithError(c, http.StatusConflict, "Extraction already in progress", err)
	case errors.Is(err, session.ErrNotInUploadPhase),
		errors.Is(err, session.ErrNotInQuizPhase),
		errors.Is(err, session.ErrNotInResultsPhase):
		h.RespondWithError(c, http.StatusConflict, "Operation not valid in current phase", err)
	case errors.Is(err, session.ErrInvalidOption):
		h.RespondWithError(c, http.StatusBadRequest, "Unknown option for this question", err)
	case errors.Is(err, session.ErrQuestionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Question not found", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
