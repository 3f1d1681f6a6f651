package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mix-service/internal/service"
	"mix-service/pkg/mix"
)

type FlashcardHandler struct {
	Service *service.FlashcardService
}

func NewFlashcardHandler(s *service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{Service: s}
}

// GetContent serves a card's study content for the referral side-channel.
func (h *FlashcardHandler) GetContent(c *gin.Context) {
	content, err := h.Service.GetContent(context.Background(), c.Param("courseId"), c.Param("flashcardId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard not found"})
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *FlashcardHandler) GetFlashcard(c *gin.Context) {
	card, err := h.Service.Get(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *FlashcardHandler) ListFlashcards(c *gin.Context) {
	courseID := c.Query("course_id")
	deckIDs := c.QueryArray("deck_id")
	if courseID == "" || len(deckIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id and deck_id are required"})
		return
	}

	cards, err := h.Service.ListByDecks(context.Background(), courseID, deckIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *FlashcardHandler) CreateFlashcard(c *gin.Context) {
	var card mix.Flashcard
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Service.Create(context.Background(), &card)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card.ID = id
	c.JSON(http.StatusCreated, card)
}

// BulkCreateFlashcards ingests a batch of already-generated cards.
func (h *FlashcardHandler) BulkCreateFlashcards(c *gin.Context) {
	var cards []mix.Flashcard
	if err := c.ShouldBindJSON(&cards); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(cards) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}

	inserted, err := h.Service.CreateMany(context.Background(), cards)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": inserted})
}

func (h *FlashcardHandler) UpdateFlashcard(c *gin.Context) {
	var update map[string]interface{}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Update(context.Background(), c.Param("id"), update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *FlashcardHandler) DeleteFlashcard(c *gin.Context) {
	if err := h.Service.Delete(context.Background(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
