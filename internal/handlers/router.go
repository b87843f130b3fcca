package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/prepdeck/mocktest-service/internal/session"
	"github.com/prepdeck/mocktest-service/internal/utils"
	"github.com/prepdeck/mocktest-service/internal/validator"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	diagramHandler *DiagramHandler
	reportHandler  *ReportHandler
}

func NewHandlerManager(
	service *session.Service,
	v *validator.Validator,
	maxUploadBytes int64,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(service, v, maxUploadBytes, logger),
		diagramHandler: NewDiagramHandler(service, logger),
		reportHandler:  NewReportHandler(service, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)

			// Quiz operations
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.POST("/:id/answer", hm.sessionHandler.Answer)
			sessions.POST("/:id/clear", hm.sessionHandler.ClearResponse)
			sessions.POST("/:id/mark", hm.sessionHandler.ToggleMark)
			sessions.POST("/:id/next", hm.sessionHandler.SaveAndNext)
			sessions.POST("/:id/zoom", hm.sessionHandler.Zoom)
			sessions.POST("/:id/palette", hm.sessionHandler.SetPalette)

			// Lifecycle
			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
			sessions.POST("/:id/retry", hm.sessionHandler.Retry)

			// Results
			sessions.GET("/:id/report", hm.reportHandler.GetReport)
			sessions.GET("/:id/report/export", hm.reportHandler.ExportReport)
			sessions.POST("/:id/questions/:qid/solution", hm.sessionHandler.Solution)

			// Diagrams
			sessions.GET("/:id/diagram", hm.diagramHandler.GetInline)
			sessions.GET("/:id/diagram/lightbox", hm.diagramHandler.GetLightbox)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "mocktest-service",
		})
	})
}
