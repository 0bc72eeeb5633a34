package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/quiz-service/internal/models"
	"github.com/studyloop/quiz-service/internal/services"
	"github.com/studyloop/quiz-service/internal/utils"
)

// SessionHandler exposes the quiz session lifecycle over HTTP. Every mutation
// returns a fresh session snapshot so the client can render without a second
// round trip.
type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *utils.Validator
}

func NewSessionHandler(sessionService services.SessionService, validator *utils.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// ===== REQUEST STRUCTURES =====

type CreateSessionRequest struct {
	Content string `json:"content" validate:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID string             `json:"questionId" validate:"required"`
	Answer     models.AnswerValue `json:"answer"`
}

// CreateSession registers a new session and starts quiz generation
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	snapshot, err := h.sessionService.Create(c.Request.Context(), req.Content)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// GetSession returns the current session snapshot
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	snapshot, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SubmitAnswer records an answer for a question in the running session
// POST /api/v1/sessions/:id/answers
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	snapshot, err := h.sessionService.SubmitAnswer(c.Param("id"), req.QuestionID, req.Answer)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// NextQuestion advances to the next question, or finishes on the last one
// POST /api/v1/sessions/:id/next
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	snapshot, err := h.sessionService.Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// PreviousQuestion moves back to the previous question
// POST /api/v1/sessions/:id/previous
func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	snapshot, err := h.sessionService.Previous(c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SkipQuestion skips the current question without answering it
// POST /api/v1/sessions/:id/skip
func (h *SessionHandler) SkipQuestion(c *gin.Context) {
	snapshot, err := h.sessionService.Skip(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// FinishSession submits the quiz for evaluation
// POST /api/v1/sessions/:id/finish
func (h *SessionHandler) FinishSession(c *gin.Context) {
	snapshot, err := h.sessionService.Finish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RetrySession re-issues the failed generation or evaluation request
// POST /api/v1/sessions/:id/retry
func (h *SessionHandler) RetrySession(c *gin.Context) {
	snapshot, err := h.sessionService.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// TryAgain restarts a completed session with the same questions
// POST /api/v1/sessions/:id/try-again
func (h *SessionHandler) TryAgain(c *gin.Context) {
	snapshot, err := h.sessionService.TryAgain(c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetDocument returns the study material the session was created from
// GET /api/v1/sessions/:id/document
func (h *SessionHandler) GetDocument(c *gin.Context) {
	content, err := h.sessionService.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// DeleteSession discards the session and its hand-off entries
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionService.Discard(c.Request.Context(), c.Param("id")); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session discarded", nil)
}
