package bookings

import (
	"context"
	"errors"

	"roamio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate reports that a confirmed booking for the same
// (user, experience) pair already exists.
var ErrDuplicate = errors.New("duplicate confirmed booking")

// Store persists bookings. Insert must be atomic with respect to the
// confirmed-uniqueness guarantee: of two racing inserts for the same
// pair, exactly one succeeds and the other returns ErrDuplicate.
type Store interface {
	Insert(ctx context.Context, b *models.Booking) error
	HasConfirmed(ctx context.Context, userID, experienceID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

// MongoStore relies on the partial unique index over
// (userid, experienceid) filtered to status=confirmed; the server-side
// duplicate-key error is the authoritative conflict signal.
type MongoStore struct {
	Col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{Col: col}
}

func (s *MongoStore) Insert(ctx context.Context, b *models.Booking) error {
	_, err := s.Col.InsertOne(ctx, b)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoStore) HasConfirmed(ctx context.Context, userID, experienceID string) (bool, error) {
	count, err := s.Col.CountDocuments(ctx, bson.M{
		"userid":       userID,
		"experienceid": experienceID,
		"status":       models.BookingConfirmed,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	cursor, err := s.Col.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
