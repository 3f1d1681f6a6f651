package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mix-service/pkg/mix"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("mix_attempts")}
}

func (r *AttemptRepository) Insert(ctx context.Context, attempt *mix.Attempt) error {
	attempt.CreatedAt = time.Now()
	_, err := r.Col.InsertOne(ctx, attempt)
	return err
}

// FindByUserDecks returns a learner's attempts over a deck selection in
// chronological order, which the momentum factor depends on.
func (r *AttemptRepository) FindByUserDecks(ctx context.Context, userID, courseID string, deckIDs []string) ([]mix.Attempt, error) {
	filter := bson.M{
		"user_id":   userID,
		"course_id": courseID,
		"deck_id":   bson.M{"$in": deckIDs},
	}
	return r.find(ctx, filter)
}

func (r *AttemptRepository) FindByUserLectures(ctx context.Context, userID, courseID string, lectureIDs []string) ([]mix.Attempt, error) {
	filter := bson.M{
		"user_id":    userID,
		"course_id":  courseID,
		"lecture_id": bson.M{"$in": lectureIDs},
	}
	return r.find(ctx, filter)
}

func (r *AttemptRepository) find(ctx context.Context, filter bson.M) ([]mix.Attempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []mix.Attempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}
