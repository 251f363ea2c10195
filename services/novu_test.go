package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"momentum/config"
	"momentum/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type novuCall struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]interface{}
}

type fakeNovu struct {
	mu        sync.Mutex
	calls     []novuCall
	responses map[string]string
	status    int
}

func (f *fakeNovu) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, novuCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	status := f.status
	response := f.responses[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusCreated
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if response == "" {
		response = `{"data":{"acknowledged":true,"status":"processed","transactionId":"txn-1"}}`
	}
	_, _ = io.WriteString(w, response)
}

func (f *fakeNovu) Calls() []novuCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]novuCall(nil), f.calls...)
}

func setupNovu(t *testing.T, fake *fakeNovu) *NovuClient {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewNovuClient(config.NovuConfig{
		APIKey:           "test_novu_key",
		BaseURL:          server.URL,
		EmailWorkflow:    "email-workflow",
		SMSWorkflow:      "sms",
		InAppWorkflow:    "in-app",
		SMSCountryCode:   "+91",
		Timeout:          2 * time.Second,
		IdentifyCacheTTL: time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestNewNovuClientRequiresKey(t *testing.T) {
	_, err := NewNovuClient(config.NovuConfig{BaseURL: "http://localhost"}, slog.Default())
	assert.Error(t, err)
}

func TestSendEmail(t *testing.T) {
	fake := &fakeNovu{}
	novu := setupNovu(t, fake)

	err := novu.SendEmail(context.Background(), "Groceries", "Buy milk", "ada@example.com", "user-1")
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 2)

	assert.Equal(t, "/v1/subscribers", calls[0].Path)
	assert.Equal(t, "ApiKey test_novu_key", calls[0].Auth)
	assert.Equal(t, "user-1", calls[0].Body["subscriberId"])
	assert.Equal(t, "Subscriber", calls[0].Body["firstName"])

	assert.Equal(t, "/v1/events/trigger", calls[1].Path)
	assert.Equal(t, "email-workflow", calls[1].Body["name"])
	to := calls[1].Body["to"].(map[string]interface{})
	assert.Equal(t, "user-1", to["subscriberId"])
	assert.Equal(t, "ada@example.com", to["email"])
	payload := calls[1].Body["payload"].(map[string]interface{})
	assert.Equal(t, "Groceries", payload["title"])
	assert.Equal(t, "Buy milk", payload["description"])
}

func TestIdentifyIsCached(t *testing.T) {
	fake := &fakeNovu{}
	novu := setupNovu(t, fake)
	ctx := context.Background()

	require.NoError(t, novu.SendEmail(ctx, "a", "b", "ada@example.com", "user-1"))
	require.NoError(t, novu.SendEmail(ctx, "c", "d", "ada@example.com", "user-1"))

	var identifies int
	for _, call := range fake.Calls() {
		if call.Path == "/v1/subscribers" {
			identifies++
		}
	}
	assert.Equal(t, 1, identifies)
	assert.Len(t, fake.Calls(), 3)
}

func TestSendSMSPrefixesCountryCode(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "local number", phone: "9876543210", want: "+919876543210"},
		{name: "international number", phone: "+84901234567", want: "+84901234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeNovu{}
			novu := setupNovu(t, fake)

			require.NoError(t, novu.SendSMS(context.Background(), "t", "d", tt.phone, "user-1"))

			calls := fake.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "sms", calls[0].Body["name"])
			to := calls[0].Body["to"].(map[string]interface{})
			assert.Equal(t, tt.want, to["phone"])
		})
	}
}

func TestSendInApp(t *testing.T) {
	fake := &fakeNovu{}
	novu := setupNovu(t, fake)

	err := novu.SendInApp(context.Background(), "Groceries", "Buy milk", "user-1", "Note deleted")
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "inAppSubscriber", calls[0].Body["firstName"])
	assert.Equal(t, "in-app", calls[1].Body["name"])
	payload := calls[1].Body["payload"].(map[string]interface{})
	assert.Equal(t, "Note deleted", payload["message"])
}

func TestDispatchFailure(t *testing.T) {
	fake := &fakeNovu{status: http.StatusBadRequest, responses: map[string]string{}}
	novu := setupNovu(t, fake)

	err := novu.SendSMS(context.Background(), "t", "d", "9876543210", "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrDispatch))
	assert.Equal(t, utils.KindDispatch, utils.KindOf(err))
}

func TestDispatchUnreachable(t *testing.T) {
	novu, err := NewNovuClient(config.NovuConfig{
		APIKey:  "test_novu_key",
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	err = novu.SendInApp(context.Background(), "t", "d", "user-1", "m")
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrDispatch))
}

func TestSendRequiresRecipient(t *testing.T) {
	fake := &fakeNovu{}
	novu := setupNovu(t, fake)

	err := novu.SendEmail(context.Background(), "t", "d", "", "user-1")
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	assert.Empty(t, fake.Calls())
}

func TestCreateSubscriber(t *testing.T) {
	fake := &fakeNovu{responses: map[string]string{
		"POST /v1/subscribers": `{"data":{"_id":"abc","subscriberId":"ada@example.com","email":"ada@example.com"}}`,
	}}
	novu := setupNovu(t, fake)

	id, err := novu.CreateSubscriber(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", id)
	assert.Equal(t, "ada@example.com", fake.Calls()[0].Body["subscriberId"])
}

func TestTopics(t *testing.T) {
	fake := &fakeNovu{responses: map[string]string{
		"POST /v1/topics":                  `{"data":{"_id":"t1","key":"team"}}`,
		"GET /v1/topics/team":              `{"data":{"_id":"t1","key":"team","name":"Team","subscribers":["user-1"]}}`,
		"POST /v1/topics/team/subscribers": `{"data":{"succeeded":["user-1","user-2"]}}`,
	}}
	novu := setupNovu(t, fake)
	ctx := context.Background()

	topic, err := novu.CreateTopic(ctx, "team", "Team")
	require.NoError(t, err)
	assert.Equal(t, "team", topic.Key)
	assert.Equal(t, "Team", topic.Name)

	topic, err = novu.GetTopic(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "team", topic.Key)

	result, err := novu.AddSubscribersToTopic(ctx, "team", []string{"user-1", "user-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, result.Succeeded)

	trigger, err := novu.NotifyTopic(ctx, "team", "Standup", "In five minutes")
	require.NoError(t, err)
	assert.True(t, trigger.Acknowledged)
	assert.Equal(t, "txn-1", trigger.TransactionID)

	calls := fake.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "POST /v1/topics", calls[0].Method+" "+calls[0].Path)
	assert.Equal(t, "team", calls[0].Body["key"])
	assert.Equal(t, "GET /v1/topics/team", calls[1].Method+" "+calls[1].Path)
	assert.Equal(t, "POST /v1/topics/team/subscribers", calls[2].Method+" "+calls[2].Path)
	assert.Equal(t, []interface{}{"user-1", "user-2"}, calls[2].Body["subscribers"])

	last := calls[3]
	assert.Equal(t, "/v1/events/trigger", last.Path)
	to := last.Body["to"].([]interface{})
	require.Len(t, to, 1)
	assert.Equal(t, "Topic", to[0].(map[string]interface{})["type"])
	assert.Equal(t, "team", to[0].(map[string]interface{})["topicKey"])
}

func TestTopicFailureIsDispatchError(t *testing.T) {
	fake := &fakeNovu{status: http.StatusInternalServerError, responses: map[string]string{
		"POST /v1/topics/team/subscribers": `{"message":"boom"}`,
	}}
	novu := setupNovu(t, fake)

	_, err := novu.AddSubscribersToTopic(context.Background(), "team", []string{"user-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrDispatch))
}

func TestDecodeData(t *testing.T) {
	var result struct {
		Key string `json:"key"`
	}

	require.NoError(t, decodeData(map[string]interface{}{"data": map[string]interface{}{"key": "team"}}, &result))
	assert.Equal(t, "team", result.Key)

	result.Key = ""
	require.NoError(t, decodeData(map[string]interface{}{"key": "flat"}, &result))
	assert.Equal(t, "flat", result.Key)

	result.Key = ""
	require.NoError(t, decodeData(nil, &result))
	assert.Empty(t, result.Key)
}
