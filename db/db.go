package db

import (
	"context"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client                *mongo.Client
	UserCollection        *mongo.Collection
	ExperiencesCollection *mongo.Collection
	BookingsCollection    *mongo.Collection
	TasksCollection       *mongo.Collection
)

// Connect dials MongoDB and binds the collection handles.
func Connect(ctx context.Context) error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	database := client.Database("roamio")
	UserCollection = database.Collection("users")
	ExperiencesCollection = database.Collection("experiences")
	BookingsCollection = database.Collection("bookings")
	TasksCollection = database.Collection("tasks")
	return nil
}

// EnsureIndexes creates the indexes the handlers rely on. The partial
// unique index on bookings is the authoritative guard against two
// confirmed bookings for the same (user, experience) pair; the insert
// path treats its duplicate-key error as the conflict signal.
func EnsureIndexes(ctx context.Context) error {
	_, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = ExperiencesCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "experienceid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = BookingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userid", Value: 1}, {Key: "experienceid", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "confirmed"}),
		},
		{
			Keys: bson.D{{Key: "userid", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	return err
}
