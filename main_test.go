package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"momentum/config"
	"momentum/handler"
	"momentum/model"
	"momentum/services"
	"momentum/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubNotes struct{}

func (stubNotes) List(ctx context.Context) ([]*model.Note, error) { return []*model.Note{}, nil }
func (stubNotes) Get(ctx context.Context, id string) (*model.Note, error) {
	return &model.Note{Title: "stub"}, nil
}
func (stubNotes) Create(ctx context.Context, input usecase.NewNote) (*model.Note, error) {
	return &model.Note{Title: input.Title, Creator: input.Creator}, nil
}
func (stubNotes) Update(ctx context.Context, id, requester string, updates model.NoteUpdate) (*model.Note, error) {
	return &model.Note{}, nil
}
func (stubNotes) ToggleDone(ctx context.Context, id, requester string) (*model.Note, error) {
	return &model.Note{Done: true}, nil
}
func (stubNotes) Delete(ctx context.Context, id, requester string) error { return nil }

type stubAuth struct{}

func (stubAuth) SignUp(ctx context.Context, input usecase.SignUpInput) (*usecase.AuthResult, error) {
	return &usecase.AuthResult{User: &model.User{}}, nil
}
func (stubAuth) SignIn(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	return &usecase.AuthResult{User: &model.User{}}, nil
}
func (stubAuth) SignOut(ctx context.Context, token string) error { return nil }

type noRevocations struct{}

func (noRevocations) IsRevoked(ctx context.Context, token string) (bool, error) { return false, nil }

func testApp(t *testing.T, mode string) (*app, *services.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := services.NewTokenManager("test_secret_key", time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{MaxRequestBytes: 1 << 20}
	cfg.Auth.Mode = mode

	return &app{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		notes:  stubNotes{},
		auth:   stubAuth{},
		tokens: tokens,
		health: []handler.Dependency{{Name: "mongo", Ping: func(ctx context.Context) error { return nil }}},
	}, tokens
}

func get(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterPublicEndpoints(t *testing.T) {
	a, _ := testApp(t, config.AuthModeRequired)
	router := setupRouter(a)

	assert.Equal(t, http.StatusOK, get(router, http.MethodGet, "/health", "").Code)

	w := get(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouterRequiredAuthMode(t *testing.T) {
	a, tokens := testApp(t, config.AuthModeRequired)
	router := setupRouter(a)

	assert.Equal(t, http.StatusUnauthorized, get(router, http.MethodGet, "/api/notes", "").Code)

	token, err := tokens.GenerateToken(&model.User{ID: primitive.NewObjectID(), Email: "ada@example.com"})
	require.NoError(t, err)

	w := get(router, http.MethodGet, "/api/notes", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(router, http.MethodDelete, "/api/notes/not-an-id", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no note is available with id:not-an-id", w.Body.String())
}

func TestRouterAnonymousAuthMode(t *testing.T) {
	a, _ := testApp(t, config.AuthModeAnonymous)
	router := setupRouter(a)

	assert.Equal(t, http.StatusOK, get(router, http.MethodGet, "/api/notes", "").Code)
	assert.Equal(t, http.StatusOK, get(router, http.MethodPatch, "/api/notes/"+primitive.NewObjectID().Hex()+"/toggle", "garbage").Code)

	// Creation still needs a creator.
	assert.Equal(t, http.StatusUnauthorized, get(router, http.MethodPost, "/api/notes", "").Code)
}

func TestRouterSignOutRequiresRevocation(t *testing.T) {
	a, tokens := testApp(t, config.AuthModeRequired)
	token, err := tokens.GenerateToken(&model.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(setupRouter(a), http.MethodPost, "/api/user/signout", token).Code)

	a.revoker = noRevocations{}
	assert.Equal(t, http.StatusOK, get(setupRouter(a), http.MethodPost, "/api/user/signout", token).Code)
}
