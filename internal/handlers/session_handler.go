package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mix-service/internal/service"
	"mix-service/pkg/mix"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var req mix.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.StartSession(context.Background(), userID(c), &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	sessionsStarted.Inc()
	c.JSON(http.StatusCreated, result)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	info, err := h.Service.GetSession(context.Background(), userID(c), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *SessionHandler) GetStatus(c *gin.Context) {
	status, err := h.Service.Status(context.Background(), userID(c), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// NextActivity serves the next activity, or a JSON null body once the
// session is complete.
func (h *SessionHandler) NextActivity(c *gin.Context) {
	activity, err := h.Service.NextActivity(context.Background(), userID(c), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	if activity == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	activitiesServed.WithLabelValues(activity.ActivityType).Inc()
	c.JSON(http.StatusOK, activity)
}

func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req mix.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.Service.SubmitAnswer(context.Background(), userID(c), c.Param("id"), &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	result := "incorrect"
	if feedback.IsCorrect {
		result = "correct"
	}
	answersSubmitted.WithLabelValues(result).Inc()
	c.JSON(http.StatusOK, feedback)
}

func (h *SessionHandler) RevealAnswer(c *gin.Context) {
	var req mix.RevealAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	revealed, err := h.Service.RevealAnswer(context.Background(), userID(c), c.Param("id"), &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	answersRevealed.Inc()
	c.JSON(http.StatusOK, revealed)
}
