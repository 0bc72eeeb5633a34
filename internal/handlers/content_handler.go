package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/quiz-service/internal/extract"
	"github.com/studyloop/quiz-service/internal/utils"
)

const maxUploadSize = 10 << 20 // 10 MB

// ContentHandler turns pasted text, uploaded files and URLs into plain study
// material ready for session creation.
type ContentHandler struct {
	BaseHandler
	extractor *extract.Service
	validator *utils.Validator
}

func NewContentHandler(extractor *extract.Service, validator *utils.Validator, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: NewBaseHandler(logger),
		extractor:   extractor,
		validator:   validator,
	}
}

// ===== REQUEST STRUCTURES =====

type ExtractTextRequest struct {
	Content string `json:"content" validate:"required"`
}

type ExtractURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ===== RESPONSE STRUCTURES =====

type ContentResponse struct {
	Content string `json:"content"`
	Length  int    `json:"length"`
}

// ExtractText validates pasted study material
// POST /api/v1/content/text
func (h *ContentHandler) ExtractText(c *gin.Context) {
	var req ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	content, err := h.extractor.FromText(req.Content)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ContentResponse{Content: content, Length: len(content)})
}

// ExtractFile extracts plain text from an uploaded document
// POST /api/v1/content/file
func (h *ContentHandler) ExtractFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err)
		return
	}
	if fileHeader.Size > maxUploadSize {
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, "File too large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	content, err := h.extractor.FromFile(fileHeader.Filename, data)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ContentResponse{Content: content, Length: len(content)})
}

// ExtractURL fetches a page and returns its readable text
// POST /api/v1/content/url
func (h *ContentHandler) ExtractURL(c *gin.Context) {
	var req ExtractURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	content, err := h.extractor.FromURL(c.Request.Context(), req.URL)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ContentResponse{Content: content, Length: len(content)})
}
