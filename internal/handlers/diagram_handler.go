package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepdeck/mocktest-service/internal/session"
	"github.com/prepdeck/mocktest-service/internal/utils"
)

// DiagramHandler serves rendered crop PNGs for the current question. A crop
// that is still rendering answers 202 so clients can poll; a question with
// no diagram, or whose render failed with nothing to fall back on, answers
// 204 with the X-Diagram-State header telling the two apart.
type DiagramHandler struct {
	BaseHandler
	service *session.Service
}

func NewDiagramHandler(service *session.Service, logger utils.Logger) *DiagramHandler {
	return &DiagramHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetInline serves the inline crop for the current question.
func (h *DiagramHandler) GetInline(c *gin.Context) {
	h.serve(c, session.ViewInline)
}

// GetLightbox serves the high-resolution crop. The first request per
// question triggers the render.
func (h *DiagramHandler) GetLightbox(c *gin.Context) {
	h.serve(c, session.ViewLightbox)
}

func (h *DiagramHandler) serve(c *gin.Context, view session.DiagramView) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	png, state, err := h.service.Diagram(id, view)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("X-Diagram-State", string(state))

	switch state {
	case session.DiagramNone, session.DiagramFailed:
		c.Status(http.StatusNoContent)
	case session.DiagramRendering:
		c.Status(http.StatusAccepted)
	default:
		c.Data(http.StatusOK, "image/png", png)
	}
}

func (h *DiagramHandler) handleError(c *gin.Context, err error) {
	switch {
	case err == session.ErrSessionNotFound:
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
	case err == session.ErrNotInQuizPhase:
		h.RespondWithError(c, http.StatusConflict, "Diagrams are only available during the quiz", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
