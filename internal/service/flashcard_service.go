package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"mix-service/internal/repository"
	"mix-service/pkg/mix"
)

type FlashcardService struct {
	repo *repository.FlashcardRepository
}

func NewFlashcardService(repo *repository.FlashcardRepository) *FlashcardService {
	return &FlashcardService{repo: repo}
}

// GetContent serves the study side of a card for the referral side-channel.
func (s *FlashcardService) GetContent(ctx context.Context, courseID, flashcardID string) (*mix.FlashcardContent, error) {
	card, err := s.repo.FindByCourseAndID(ctx, courseID, flashcardID)
	if err != nil {
		return nil, err
	}
	return card.DeliverContent(), nil
}

func (s *FlashcardService) Get(ctx context.Context, id string) (*mix.Flashcard, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *FlashcardService) ListByDecks(ctx context.Context, courseID string, deckIDs []string) ([]mix.Flashcard, error) {
	return s.repo.FindByDecks(ctx, courseID, deckIDs)
}

func (s *FlashcardService) Create(ctx context.Context, card *mix.Flashcard) (string, error) {
	if err := validateFlashcard(card); err != nil {
		return "", err
	}
	return s.repo.Create(ctx, card)
}

func (s *FlashcardService) CreateMany(ctx context.Context, cards []mix.Flashcard) (int, error) {
	for i := range cards {
		if err := validateFlashcard(&cards[i]); err != nil {
			return 0, fmt.Errorf("card %d: %w", i, err)
		}
	}
	return s.repo.CreateMany(ctx, cards)
}

func (s *FlashcardService) Update(ctx context.Context, id string, update map[string]interface{}) error {
	return s.repo.Update(ctx, id, bson.M(update))
}

func (s *FlashcardService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// validateFlashcard rejects cards that would break the session contract:
// missing routing fields, questions of unknown types, or questions outside
// the level range.
func validateFlashcard(card *mix.Flashcard) error {
	if card.CourseID == "" || card.DeckID == "" {
		return fmt.Errorf("flashcard needs course_id and deck_id")
	}
	if card.Content.Question == "" {
		return fmt.Errorf("flashcard content needs a question")
	}
	for _, q := range card.Questions {
		if q.QuestionHash == "" {
			return fmt.Errorf("question missing question_hash")
		}
		if !mix.ValidQuestionTypes[q.Type] {
			return fmt.Errorf("unknown question type %q", q.Type)
		}
		if q.Level < 1 || q.Level > 4 {
			return fmt.Errorf("question %s has level %d outside 1-4", q.QuestionHash, q.Level)
		}
		if q.CorrectAnswer == nil {
			return fmt.Errorf("question %s missing correct_answer", q.QuestionHash)
		}
	}
	return nil
}
