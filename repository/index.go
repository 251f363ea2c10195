package repository

import (
	"context"
	"fmt"
	"time"

	"momentum/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes the repositories rely on. Creating an
// index that already exists with the same definition is a no-op.
func SetupIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("user_email_unique").
				SetUnique(true),
		},
	}

	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "creator", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().
				SetName("creator_notes_date"),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}},
			Options: options.Index().
				SetName("notes_due_date"),
		},
	}

	userNames, err := db.Collection(model.UsersCollection).Indexes().CreateMany(ctx, userIndexes)
	if err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}

	noteNames, err := db.Collection(model.NotesCollection).Indexes().CreateMany(ctx, noteIndexes)
	if err != nil {
		return nil, fmt.Errorf("failed to create note indexes: %w", err)
	}

	return append(userNames, noteNames...), nil
}
