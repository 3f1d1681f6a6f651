package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mix-service/internal/readiness"
	"mix-service/pkg/mix"
)

type ReadinessHandler struct {
	Service *readiness.Service
}

func NewReadinessHandler(s *readiness.Service) *ReadinessHandler {
	return &ReadinessHandler{Service: s}
}

// DeckReadiness serves the blended deck score. force_refresh in the request
// bypasses the cache read.
func (h *ReadinessHandler) DeckReadiness(c *gin.Context) {
	var req mix.DeckReadinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, err := h.Service.DeckReadiness(context.Background(), userID(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	readinessChecks.WithLabelValues(strconv.FormatBool(req.ForceRefresh)).Inc()
	c.JSON(http.StatusOK, score)
}

// LectureReadiness serves the accuracy-only per-lecture map. lecture_ids is
// comma-separated.
func (h *ReadinessHandler) LectureReadiness(c *gin.Context) {
	courseID := c.Query("course_id")
	rawIDs := c.Query("lecture_ids")
	if courseID == "" || rawIDs == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id and lecture_ids are required"})
		return
	}

	var lectureIDs []string
	for _, id := range strings.Split(rawIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			lectureIDs = append(lectureIDs, id)
		}
	}
	if len(lectureIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lecture_ids are required"})
		return
	}

	scores, err := h.Service.LectureReadiness(context.Background(), userID(c), courseID, lectureIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scores)
}
