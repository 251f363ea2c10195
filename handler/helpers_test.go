package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"momentum/middleware"
	"momentum/model"
	"momentum/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryNoteStore struct {
	mu      sync.Mutex
	notes   map[primitive.ObjectID]*model.Note
	order   []primitive.ObjectID
	failAll error
}

func newMemoryNoteStore() *memoryNoteStore {
	return &memoryNoteStore{notes: make(map[primitive.ObjectID]*model.Note)}
}

func (m *memoryNoteStore) FindAll(ctx context.Context) ([]*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	notes := make([]*model.Note, 0, len(m.order))
	for _, id := range m.order {
		if n, ok := m.notes[id]; ok {
			copied := *n
			notes = append(notes, &copied)
		}
	}
	return notes, nil
}

func (m *memoryNoteStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, utils.ErrNoteNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *memoryNoteStore) Insert(ctx context.Context, note *model.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	note.ID = primitive.NewObjectID()
	copied := *note
	m.notes[note.ID] = &copied
	m.order = append(m.order, note.ID)
	return nil
}

func (m *memoryNoteStore) Update(ctx context.Context, id primitive.ObjectID, updates model.NoteUpdate) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
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

func (m *memoryNoteStore) ToggleDone(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, utils.ErrNoteNotFound
	}
	n.Done = !n.Done
	copied := *n
	return &copied, nil
}

func (m *memoryNoteStore) Delete(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, nil
	}
	delete(m.notes, id)
	return n, nil
}

func (m *memoryNoteStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notes)
}

type fakeDispatcher struct {
	mu     sync.Mutex
	err    error
	calls  []string
	inApps []string
}

func (f *fakeDispatcher) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeDispatcher) SendEmail(ctx context.Context, title, description, email, subscriberID string) error {
	return f.record("email:" + email + ":" + subscriberID)
}

func (f *fakeDispatcher) SendSMS(ctx context.Context, title, description, phone, subscriberID string) error {
	return f.record("sms:" + phone + ":" + subscriberID)
}

func (f *fakeDispatcher) SendInApp(ctx context.Context, title, description, subscriberID, message string) error {
	f.mu.Lock()
	f.inApps = append(f.inApps, subscriberID+":"+message)
	f.mu.Unlock()
	return f.record("in_app:" + subscriberID)
}

func (f *fakeDispatcher) CreateSubscriber(ctx context.Context, email string) (string, error) {
	if err := f.record("subscriber:" + email); err != nil {
		return "", err
	}
	return email, nil
}

func (f *fakeDispatcher) CreateTopic(ctx context.Context, key, name string) (*model.Topic, error) {
	if err := f.record("topic:" + key); err != nil {
		return nil, err
	}
	return &model.Topic{ID: "t1", Key: key, Name: name}, nil
}

func (f *fakeDispatcher) GetTopic(ctx context.Context, key string) (*model.Topic, error) {
	if err := f.record("get_topic:" + key); err != nil {
		return nil, err
	}
	return &model.Topic{ID: "t1", Key: key, Subscribers: []string{"user-1"}}, nil
}

func (f *fakeDispatcher) AddSubscribersToTopic(ctx context.Context, key string, subscriberIDs []string) (*model.TopicSubscribersResult, error) {
	if err := f.record("add_subscribers:" + key); err != nil {
		return nil, err
	}
	return &model.TopicSubscribersResult{Succeeded: subscriberIDs}, nil
}

func (f *fakeDispatcher) NotifyTopic(ctx context.Context, key, title, description string) (*model.TriggerResult, error) {
	if err := f.record("notify_topic:" + key); err != nil {
		return nil, err
	}
	return &model.TriggerResult{Acknowledged: true, Status: "processed"}, nil
}

func (f *fakeDispatcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// withIdentity stands in for the authenticator in handler tests.
func withIdentity(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
			c.Set(middleware.EmailKey, userID+"@example.com")
			c.Set(middleware.TokenKey, "token-of-"+userID)
		}
		c.Next()
	}
}

func performRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
