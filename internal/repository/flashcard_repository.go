package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mix-service/pkg/mix"
)

type FlashcardRepository struct {
	Col *mongo.Collection
}

func NewFlashcardRepository(db *mongo.Database) *FlashcardRepository {
	return &FlashcardRepository{Col: db.Collection("flashcards")}
}

func (r *FlashcardRepository) FindByID(ctx context.Context, id string) (*mix.Flashcard, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var card mix.Flashcard
	if err := r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&card); err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByCourseAndID scopes the lookup to a course, for the referral endpoint.
func (r *FlashcardRepository) FindByCourseAndID(ctx context.Context, courseID, id string) (*mix.Flashcard, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var card mix.Flashcard
	if err := r.Col.FindOne(ctx, bson.M{"_id": objID, "course_id": courseID}).Decode(&card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *FlashcardRepository) FindByDecks(ctx context.Context, courseID string, deckIDs []string) ([]mix.Flashcard, error) {
	filter := bson.M{"course_id": courseID, "deck_id": bson.M{"$in": deckIDs}}
	cursor, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cards []mix.Flashcard
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *FlashcardRepository) CountByDecks(ctx context.Context, courseID string, deckIDs []string) (int64, error) {
	filter := bson.M{"course_id": courseID, "deck_id": bson.M{"$in": deckIDs}}
	return r.Col.CountDocuments(ctx, filter)
}

func (r *FlashcardRepository) Create(ctx context.Context, card *mix.Flashcard) (string, error) {
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	res, err := r.Col.InsertOne(ctx, card)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *FlashcardRepository) CreateMany(ctx context.Context, cards []mix.Flashcard) (int, error) {
	now := time.Now()
	docs := make([]interface{}, len(cards))
	for i := range cards {
		cards[i].CreatedAt = now
		cards[i].UpdatedAt = now
		docs[i] = cards[i]
	}
	res, err := r.Col.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (r *FlashcardRepository) Update(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update["updated_at"] = time.Now()
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	return err
}

func (r *FlashcardRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Col.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}
