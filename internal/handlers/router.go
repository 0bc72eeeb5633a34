package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/studyloop/quiz-service/internal/extract"
	"github.com/studyloop/quiz-service/internal/services"
	"github.com/studyloop/quiz-service/internal/utils"
)

type HandlerManager struct {
	contentHandler *ContentHandler
	sessionHandler *SessionHandler
	resultHandler  *ResultHandler
}

func NewHandlerManager(
	sessionService services.SessionService,
	exportService services.ExportService,
	extractor *extract.Service,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		contentHandler: NewContentHandler(extractor, validator, logger),
		sessionHandler: NewSessionHandler(sessionService, validator, logger),
		resultHandler:  NewResultHandler(sessionService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Content extraction routes
		content := v1.Group("/content")
		{
			content.POST("/text", hm.contentHandler.ExtractText)
			content.POST("/file", hm.contentHandler.ExtractFile)
			content.POST("/url", hm.contentHandler.ExtractURL)
		}

		// Session lifecycle routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)

			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/next", hm.sessionHandler.NextQuestion)
			sessions.POST("/:id/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/:id/skip", hm.sessionHandler.SkipQuestion)
			sessions.POST("/:id/finish", hm.sessionHandler.FinishSession)
			sessions.POST("/:id/retry", hm.sessionHandler.RetrySession)
			sessions.POST("/:id/try-again", hm.sessionHandler.TryAgain)

			sessions.GET("/:id/document", hm.sessionHandler.GetDocument)
			sessions.GET("/:id/result", hm.resultHandler.GetResult)
			sessions.GET("/:id/result/export", hm.resultHandler.ExportResult)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})
}
