package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"momentum/model"
	"momentum/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryNotes struct {
	mu        sync.Mutex
	notes     map[primitive.ObjectID]*model.Note
	order     []primitive.ObjectID
	insertErr error
	calls     int
}

func newMemoryNotes() *memoryNotes {
	return &memoryNotes{notes: make(map[primitive.ObjectID]*model.Note)}
}

func (m *memoryNotes) FindAll(ctx context.Context) ([]*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	notes := make([]*model.Note, 0, len(m.order))
	for _, id := range m.order {
		if n, ok := m.notes[id]; ok {
			copied := *n
			notes = append(notes, &copied)
		}
	}
	return notes, nil
}

func (m *memoryNotes) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	n, ok := m.notes[id]
	if !ok {
		return nil, utils.ErrNoteNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *memoryNotes) Insert(ctx context.Context, note *model.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.insertErr != nil {
		return m.insertErr
	}
	note.ID = primitive.NewObjectID()
	copied := *note
	m.notes[note.ID] = &copied
	m.order = append(m.order, note.ID)
	return nil
}

func (m *memoryNotes) Update(ctx context.Context, id primitive.ObjectID, updates model.NoteUpdate) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	n, ok := m.notes[id]
	if !ok {
		return nil, utils.ErrNoteNotFound
	}
	if updates.Title != nil {
		n.Title = *updates.Title
	}
	if updates.Description != nil {
		n.Description = *updates.Description
	}
	if updates.DueDate != nil {
		n.DueDate = *updates.DueDate
	}
	if updates.Done != nil {
		n.Done = *updates.Done
	}
	copied := *n
	return &copied, nil
}

func (m *memoryNotes) ToggleDone(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	n, ok := m.notes[id]
	if !ok {
		return nil, utils.ErrNoteNotFound
	}
	n.Done = !n.Done
	copied := *n
	return &copied, nil
}

func (m *memoryNotes) Delete(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	n, ok := m.notes[id]
	if !ok {
		return nil, nil
	}
	delete(m.notes, id)
	return n, nil
}

func (m *memoryNotes) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type inAppCall struct {
	Title, Description, SubscriberID, Message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []inAppCall
	err   error
}

func (r *recordingNotifier) SendInApp(ctx context.Context, title, description, subscriberID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inAppCall{title, description, subscriberID, message})
	return r.err
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*model.User)}
}

func (m *memoryUsers) AddUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	if _, exists := m.users[user.Email]; exists {
		return utils.Wrap(utils.ErrDuplicateEmail, errors.New("E11000 duplicate key"))
	}
	user.ID = primitive.NewObjectID()
	copied := *user
	m.users[user.Email] = &copied
	return nil
}

func (m *memoryUsers) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, utils.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

type memoryRevoker struct {
	revoked map[string]time.Time
}

func (m *memoryRevoker) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[token] = expiresAt
	return nil
}

func (m *memoryRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, ok := m.revoked[token]
	return ok, nil
}
