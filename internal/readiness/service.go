package readiness

import (
	"context"
	"sort"
	"strings"

	"mix-service/internal/repository"
	"mix-service/pkg/mix"
)

type Service struct {
	attempts   *repository.AttemptRepository
	flashcards *repository.FlashcardRepository
	cache      *Cache
}

func NewService(attempts *repository.AttemptRepository, flashcards *repository.FlashcardRepository, cache *Cache) *Service {
	return &Service{attempts: attempts, flashcards: flashcards, cache: cache}
}

// DeckReadiness returns the blended score for the learner's deck selection.
// ForceRefresh skips the cache read but still refreshes the cached entry.
func (s *Service) DeckReadiness(ctx context.Context, userID string, req *mix.DeckReadinessRequest) (*mix.ReadinessScore, error) {
	key := deckCacheKey(userID, req.CourseID, req.DeckIDs)
	if !req.ForceRefresh {
		var cached mix.ReadinessScore
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	total, err := s.flashcards.CountByDecks(ctx, req.CourseID, req.DeckIDs)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.FindByUserDecks(ctx, userID, req.CourseID, req.DeckIDs)
	if err != nil {
		return nil, err
	}

	score := ComputeDeckScore(attempts, total)
	s.cache.Set(ctx, key, score)
	return &score, nil
}

// LectureReadiness returns the accuracy-only score per requested lecture.
func (s *Service) LectureReadiness(ctx context.Context, userID, courseID string, lectureIDs []string) (map[string]float64, error) {
	attempts, err := s.attempts.FindByUserLectures(ctx, userID, courseID, lectureIDs)
	if err != nil {
		return nil, err
	}
	return LectureScores(lectureIDs, attempts), nil
}

func deckCacheKey(userID, courseID string, deckIDs []string) string {
	sorted := append([]string(nil), deckIDs...)
	sort.Strings(sorted)
	return "readiness:" + userID + ":" + courseID + ":" + strings.Join(sorted, ",")
}
