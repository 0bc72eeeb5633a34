package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/quiz-service/internal/services"
	"github.com/studyloop/quiz-service/internal/utils"
)

// ResultHandler serves completed quiz results and their spreadsheet export.
type ResultHandler struct {
	BaseHandler
	sessionService services.SessionService
	exportService  services.ExportService
}

func NewResultHandler(sessionService services.SessionService, exportService services.ExportService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		exportService:  exportService,
	}
}

// GetResult returns the result of a completed session
// GET /api/v1/sessions/:id/result
func (h *ResultHandler) GetResult(c *gin.Context) {
	result, err := h.sessionService.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportResult downloads the result as an Excel workbook
// GET /api/v1/sessions/:id/result/export
func (h *ResultHandler) ExportResult(c *gin.Context) {
	id := c.Param("id")

	result, err := h.sessionService.Result(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	data, err := h.exportService.ExportResultToExcel(c.Request.Context(), id, result)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-result-%s.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
