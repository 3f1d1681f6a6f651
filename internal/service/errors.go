package service

import "errors"

var (
	ErrForbidden         = errors.New("session belongs to another user")
	ErrEmptyDecks        = errors.New("no flashcards in the selected decks")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrNoPendingActivity = errors.New("no question awaiting an answer")
	ErrAlreadyAnswered   = errors.New("activity already answered")
	ErrAlreadyRevealed   = errors.New("activity already revealed")
	ErrActivityMismatch  = errors.New("request does not match the outstanding question")
	ErrQuestionNotFound  = errors.New("question not found on flashcard")
)
