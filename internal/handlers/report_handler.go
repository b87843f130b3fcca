package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prepdeck/mocktest-service/internal/export"
	"github.com/prepdeck/mocktest-service/internal/session"
	"github.com/prepdeck/mocktest-service/internal/utils"
)

// ReportHandler serves the scored report as JSON and as an XLSX download.
type ReportHandler struct {
	BaseHandler
	service *session.Service
}

func NewReportHandler(service *session.Service, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetReport returns the JSON report for a submitted session.
func (h *ReportHandler) GetReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	report, err := h.service.Report(id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportReport returns the report as an XLSX workbook.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	report, err := h.service.Report(id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	data, err := export.ReportToExcel(report)
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to export report", err)
		return
	}

	filename := fmt.Sprintf("report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *ReportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, session.ErrNotInResultsPhase):
		h.RespondWithError(c, http.StatusConflict, "Report is only available after submission", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
