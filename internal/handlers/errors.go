package handlers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mix-service/internal/service"
)

// statusForError maps service errors onto HTTP statuses. Resolution
// conflicts (double submit, submit after reveal) are 409 so clients can tell
// them from transport failures.
func statusForError(err error) int {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments),
		errors.Is(err, primitive.ErrInvalidHex),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrEmptyDecks):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSessionCompleted),
		errors.Is(err, service.ErrNoPendingActivity),
		errors.Is(err, service.ErrAlreadyAnswered),
		errors.Is(err, service.ErrAlreadyRevealed),
		errors.Is(err, service.ErrActivityMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
