package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"momentum/model"
	"momentum/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const deletedNoteMessage = "Note deleted"

type NoteStore interface {
	FindAll(ctx context.Context) ([]*model.Note, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Note, error)
	Insert(ctx context.Context, note *model.Note) error
	Update(ctx context.Context, id primitive.ObjectID, updates model.NoteUpdate) (*model.Note, error)
	ToggleDone(ctx context.Context, id primitive.ObjectID) (*model.Note, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Note, error)
}

// InAppNotifier delivers an in-app message to a subscriber.
type InAppNotifier interface {
	SendInApp(ctx context.Context, title, description, subscriberID, message string) error
}

type NoteService struct {
	Notes    NoteStore
	Notifier InAppNotifier
	Logger   *slog.Logger

	// EnforceOwnership restricts update, toggle and delete to the note's
	// creator.
	EnforceOwnership bool
	NotifyOnDelete   bool

	Now func() time.Time
}

// NewNote is the client-supplied part of a note plus the authenticated
// creator.
type NewNote struct {
	Title       string
	Description string
	DueDate     time.Time
	Message     string
	Creator     string
}

func (s *NoteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *NoteService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// parseNoteID rejects anything that is not a 24 hex character ObjectID
// before the store is touched.
func parseNoteID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.Wrap(utils.ErrInvalidNoteID, err)
	}
	return id, nil
}

func (s *NoteService) List(ctx context.Context) ([]*model.Note, error) {
	notes, err := s.Notes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	utils.TrackNoteOperation("list")
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, rawID string) (*model.Note, error) {
	id, err := parseNoteID(rawID)
	if err != nil {
		return nil, err
	}
	return s.Notes.FindByID(ctx, id)
}

// Create persists the note, then sends an in-app notification to its
// creator. A notification failure is returned together with the stored
// note; the note is not rolled back.
func (s *NoteService) Create(ctx context.Context, input NewNote) (*model.Note, error) {
	if input.Creator == "" {
		return nil, utils.ErrNoIdentity
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, utils.Wrap(utils.ErrInvalidNote, errors.New("title is required"))
	}
	if input.DueDate.IsZero() {
		return nil, utils.Wrap(utils.ErrInvalidNote, errors.New("date is required"))
	}

	note := &model.Note{
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Creator:     input.Creator,
		CreatedAt:   s.now(),
		Done:        false,
	}
	if err := s.Notes.Insert(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	utils.TrackNoteOperation("create")

	if s.Notifier != nil {
		if err := s.Notifier.SendInApp(ctx, note.Title, note.Description, note.Creator, input.Message); err != nil {
			s.logger().WarnContext(ctx, "Note stored but notification failed",
				slog.String("note_id", note.ID.Hex()),
				slog.Any("error", err))
			return note, err
		}
	}
	return note, nil
}

// Update applies a partial patch. Only supplied fields change.
func (s *NoteService) Update(ctx context.Context, rawID, requester string, updates model.NoteUpdate) (*model.Note, error) {
	id, err := parseNoteID(rawID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, utils.Wrap(utils.ErrInvalidNote, errors.New("title cannot be empty"))
		}
		updates.Title = &title
	}
	if updates.DueDate != nil && updates.DueDate.IsZero() {
		return nil, utils.Wrap(utils.ErrInvalidNote, errors.New("date cannot be empty"))
	}

	if err := s.authorize(ctx, id, requester); err != nil {
		return nil, err
	}

	note, err := s.Notes.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("update")
	return note, nil
}

func (s *NoteService) ToggleDone(ctx context.Context, rawID, requester string) (*model.Note, error) {
	id, err := parseNoteID(rawID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, id, requester); err != nil {
		return nil, err
	}

	note, err := s.Notes.ToggleDone(ctx, id)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("toggle")
	return note, nil
}

// Delete removes the note. Deleting a well-formed identifier that matches
// nothing succeeds. The deletion notification is best effort.
func (s *NoteService) Delete(ctx context.Context, rawID, requester string) error {
	id, err := parseNoteID(rawID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, id, requester); err != nil {
		if errors.Is(err, utils.ErrNoteNotFound) {
			return nil
		}
		return err
	}

	deleted, err := s.Notes.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return nil
	}
	utils.TrackNoteOperation("delete")

	if s.NotifyOnDelete && s.Notifier != nil {
		if err := s.Notifier.SendInApp(ctx, deleted.Title, deleted.Description, deleted.Creator, deletedNoteMessage); err != nil {
			s.logger().WarnContext(ctx, "Deletion notification dropped",
				slog.String("note_id", deleted.ID.Hex()),
				slog.Any("error", err))
		}
	}
	return nil
}

func (s *NoteService) authorize(ctx context.Context, id primitive.ObjectID, requester string) error {
	if !s.EnforceOwnership {
		return nil
	}

	note, err := s.Notes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if note.Creator != requester {
		return utils.ErrForbidden
	}
	return nil
}
