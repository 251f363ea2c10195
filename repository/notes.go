package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"momentum/config"
	"momentum/model"
	"momentum/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotesRepo struct {
	MongoCollection *mongo.Collection
	Timeout         time.Duration
}

func GetNotesRepo(client *mongo.Client, cfg config.DatabaseConfig) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(cfg.DatabaseName).Collection(model.NotesCollection),
		Timeout:         cfg.OperationTimeout,
	}
}

func (r *NotesRepo) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.Timeout)
}

// FindAll returns every note in natural (insertion) order.
func (r *NotesRepo) FindAll(ctx context.Context) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", model.NotesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	cursor, err := r.MongoCollection.Find(ctx, bson.D{})
	if err != nil {
		utils.TrackError("database", "notes_find_failed")
		return nil, fmt.Errorf("failed to find notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]*model.Note, 0)
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

func (r *NotesRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", model.NotesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrNoteNotFound
		}
		utils.TrackError("database", "note_lookup_failed")
		return nil, fmt.Errorf("failed to find note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// Insert stores the note and fills in the identifier assigned by the store.
func (r *NotesRepo) Insert(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", model.NotesCollection)
	defer timer.ObserveDuration()

	if note.Creator == "" {
		return utils.NewError(utils.KindValidation, "creator is required", nil)
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	result, err := r.MongoCollection.InsertOne(ctx, note)
	if err != nil {
		utils.TrackError("database", "note_creation_failed")
		return fmt.Errorf("failed to insert note: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		note.ID = oid
	}
	return nil
}

// Update applies the supplied fields with $set and returns the note as it
// is after the update. _id, creator and createdAt are never written.
func (r *NotesRepo) Update(ctx context.Context, id primitive.ObjectID, updates model.NoteUpdate) (*model.Note, error) {
	if updates.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	timer := utils.TrackDBOperation("update", model.NotesCollection)
	defer timer.ObserveDuration()

	set := bson.D{}
	if updates.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *updates.Title})
	}
	if updates.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *updates.Description})
	}
	if updates.DueDate != nil {
		set = append(set, bson.E{Key: "date", Value: *updates.DueDate})
	}
	if updates.Done != nil {
		set = append(set, bson.E{Key: "done", Value: *updates.Done})
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrNoteNotFound
		}
		utils.TrackError("database", "note_update_failed")
		return nil, fmt.Errorf("failed to update note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// ToggleDone flips the done flag in a single atomic update and returns the
// updated note.
func (r *NotesRepo) ToggleDone(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", model.NotesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	flip := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "done", Value: bson.D{{Key: "$not", Value: bson.A{"$done"}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, flip, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrNoteNotFound
		}
		utils.TrackError("database", "note_toggle_failed")
		return nil, fmt.Errorf("failed to toggle note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// Delete removes the note and returns the removed document, or nil when no
// note had that identifier.
func (r *NotesRepo) Delete(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	timer := utils.TrackDBOperation("delete", model.NotesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var note model.Note
	err := r.MongoCollection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		utils.TrackError("database", "note_deletion_failed")
		return nil, fmt.Errorf("failed to delete note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
