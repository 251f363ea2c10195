package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"momentum/config"
	"momentum/model"
	"momentum/utils"

	novu "github.com/novuhq/go-novu/lib"
	"github.com/patrickmn/go-cache"
)

// NovuClient dispatches notifications through Novu. Every call is attempted
// once; a failure is returned to the caller and never retried.
type NovuClient struct {
	api            *novu.APIClient
	emailWorkflow  string
	smsWorkflow    string
	inAppWorkflow  string
	smsCountryCode string
	identified     *cache.Cache
	logger         *slog.Logger
}

func NewNovuClient(cfg config.NovuConfig, logger *slog.Logger) (*NovuClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("NOVU_API_KEY not set")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("NOVU_BASE_URL not set")
	}

	backendURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOVU_BASE_URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	n := &NovuClient{
		api: novu.NewAPIClient(cfg.APIKey, &novu.Config{
			BackendURL: backendURL,
			HttpClient: &http.Client{Timeout: timeout},
		}),
		emailWorkflow:  cfg.EmailWorkflow,
		smsWorkflow:    cfg.SMSWorkflow,
		inAppWorkflow:  cfg.InAppWorkflow,
		smsCountryCode: cfg.SMSCountryCode,
		logger:         logger.With(slog.String("component", "novu")),
	}
	if cfg.IdentifyCacheTTL > 0 {
		n.identified = cache.New(cfg.IdentifyCacheTTL, 2*cfg.IdentifyCacheTTL)
	}
	return n, nil
}

// SendEmail registers the subscriber with the email address, then triggers
// the email workflow with {title, description}.
func (n *NovuClient) SendEmail(ctx context.Context, title, description, email, subscriberID string) error {
	err := n.sendEmail(ctx, title, description, email, subscriberID)
	utils.TrackNotification("email", err)
	return err
}

func (n *NovuClient) sendEmail(ctx context.Context, title, description, email, subscriberID string) error {
	if subscriberID == "" || email == "" {
		return utils.NewError(utils.KindValidation, "subscriber id and email are required", nil)
	}

	if err := n.identify(ctx, model.Subscriber{
		SubscriberID: subscriberID,
		Email:        email,
		FirstName:    "Subscriber",
	}); err != nil {
		return err
	}

	_, err := n.trigger(ctx, n.emailWorkflow,
		map[string]interface{}{"subscriberId": subscriberID, "email": email},
		map[string]interface{}{"title": title, "description": description},
	)
	return err
}

// SendSMS triggers the SMS workflow. Numbers without a leading "+" get the
// configured country code.
func (n *NovuClient) SendSMS(ctx context.Context, title, description, phone, subscriberID string) error {
	err := n.sendSMS(ctx, title, description, phone, subscriberID)
	utils.TrackNotification("sms", err)
	return err
}

func (n *NovuClient) sendSMS(ctx context.Context, title, description, phone, subscriberID string) error {
	if subscriberID == "" || phone == "" {
		return utils.NewError(utils.KindValidation, "subscriber id and phone are required", nil)
	}

	_, err := n.trigger(ctx, n.smsWorkflow,
		map[string]interface{}{"subscriberId": subscriberID, "phone": n.internationalPhone(phone)},
		map[string]interface{}{"title": title, "description": description},
	)
	return err
}

func (n *NovuClient) internationalPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return n.smsCountryCode + phone
}

// SendInApp registers the subscriber and triggers the in-app workflow with
// {title, description, message}.
func (n *NovuClient) SendInApp(ctx context.Context, title, description, subscriberID, message string) error {
	err := n.sendInApp(ctx, title, description, subscriberID, message)
	utils.TrackNotification("in_app", err)
	return err
}

func (n *NovuClient) sendInApp(ctx context.Context, title, description, subscriberID, message string) error {
	if subscriberID == "" {
		return utils.NewError(utils.KindValidation, "subscriber id is required", nil)
	}

	if err := n.identify(ctx, model.Subscriber{
		SubscriberID: subscriberID,
		FirstName:    "inAppSubscriber",
	}); err != nil {
		return err
	}

	_, err := n.trigger(ctx, n.inAppWorkflow,
		map[string]interface{}{"subscriberId": subscriberID},
		map[string]interface{}{"title": title, "description": description, "message": message},
	)
	return err
}

// CreateSubscriber registers a subscriber keyed by its email address and
// returns the subscriber id.
func (n *NovuClient) CreateSubscriber(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", utils.NewError(utils.KindValidation, "email is required", nil)
	}

	resp, err := n.api.SubscriberApi.Identify(ctx, email, subscriberPayload(model.Subscriber{
		SubscriberID: email,
		Email:        email,
	}))
	if err != nil {
		return "", n.dispatchError(ctx, "create subscriber", err)
	}

	var created model.Subscriber
	if err := decodeData(resp.Data, &created); err != nil {
		return "", n.dispatchError(ctx, "create subscriber", err)
	}
	if created.SubscriberID == "" {
		return email, nil
	}
	return created.SubscriberID, nil
}

func (n *NovuClient) CreateTopic(ctx context.Context, key, name string) (*model.Topic, error) {
	if key == "" {
		return nil, utils.NewError(utils.KindValidation, "topic key is required", nil)
	}

	if err := n.api.TopicsApi.Create(ctx, key, name); err != nil {
		return nil, n.dispatchError(ctx, "create topic", err)
	}
	return &model.Topic{Key: key, Name: name}, nil
}

func (n *NovuClient) GetTopic(ctx context.Context, key string) (*model.Topic, error) {
	resp, err := n.api.TopicsApi.Get(ctx, key)
	if err != nil {
		return nil, n.dispatchError(ctx, "get topic", err)
	}

	var topic model.Topic
	if err := decodeData(resp, &topic); err != nil {
		return nil, n.dispatchError(ctx, "get topic", err)
	}
	if topic.Key == "" {
		topic.Key = key
	}
	return &topic, nil
}

// AddSubscribersToTopic adds the subscribers to the topic. Novu reports
// unknown subscribers per id, which the client does not surface; every id
// of an accepted request is listed as succeeded.
func (n *NovuClient) AddSubscribersToTopic(ctx context.Context, key string, subscriberIDs []string) (*model.TopicSubscribersResult, error) {
	if len(subscriberIDs) == 0 {
		return nil, utils.NewError(utils.KindValidation, "at least one subscriber is required", nil)
	}

	if err := n.api.TopicsApi.AddSubscribers(ctx, key, subscriberIDs); err != nil {
		return nil, n.dispatchError(ctx, "add topic subscribers", err)
	}
	return &model.TopicSubscribersResult{Succeeded: subscriberIDs}, nil
}

// NotifyTopic triggers the email workflow for every subscriber of the topic.
func (n *NovuClient) NotifyTopic(ctx context.Context, key, title, description string) (*model.TriggerResult, error) {
	result, err := n.trigger(ctx, n.emailWorkflow,
		[]map[string]interface{}{{"type": "Topic", "topicKey": key}},
		map[string]interface{}{"title": title, "description": description},
	)
	utils.TrackNotification("topic", err)
	return result, err
}

// identify upserts the subscriber. Identical identify calls inside the
// cache TTL are skipped.
func (n *NovuClient) identify(ctx context.Context, subscriber model.Subscriber) error {
	cacheKey := strings.Join([]string{
		subscriber.SubscriberID, subscriber.Email, subscriber.Phone, subscriber.FirstName,
	}, "|")

	if n.identified != nil {
		if _, found := n.identified.Get(cacheKey); found {
			return nil
		}
	}

	if _, err := n.api.SubscriberApi.Identify(ctx, subscriber.SubscriberID, subscriberPayload(subscriber)); err != nil {
		return n.dispatchError(ctx, "identify", err)
	}

	if n.identified != nil {
		n.identified.Set(cacheKey, struct{}{}, cache.DefaultExpiration)
	}
	return nil
}

func (n *NovuClient) trigger(ctx context.Context, workflow string, to interface{}, payload map[string]interface{}) (*model.TriggerResult, error) {
	resp, err := n.api.EventApi.Trigger(ctx, workflow, novu.ITriggerPayloadOptions{
		To:      to,
		Payload: payload,
	})
	if err != nil {
		return nil, n.dispatchError(ctx, "trigger "+workflow, err)
	}

	var result model.TriggerResult
	if err := decodeData(resp.Data, &result); err != nil {
		return nil, n.dispatchError(ctx, "trigger "+workflow, err)
	}
	return &result, nil
}

func (n *NovuClient) dispatchError(ctx context.Context, operation string, err error) error {
	n.logger.WarnContext(ctx, "Novu request failed",
		slog.String("operation", operation),
		slog.Any("error", err))
	return utils.Wrap(utils.ErrDispatch, fmt.Errorf("novu %s: %w", operation, err))
}

// subscriberPayload is the identify body; empty attributes are left out so
// an identify never clears what Novu already stores.
func subscriberPayload(subscriber model.Subscriber) map[string]interface{} {
	payload := map[string]interface{}{"subscriberId": subscriber.SubscriberID}
	if subscriber.Email != "" {
		payload["email"] = subscriber.Email
	}
	if subscriber.Phone != "" {
		payload["phone"] = subscriber.Phone
	}
	if subscriber.FirstName != "" {
		payload["firstName"] = subscriber.FirstName
	}
	return payload
}

// decodeData copies an untyped SDK response into out, unwrapping the
// {"data": ...} envelope when the SDK left it in place.
func decodeData(data interface{}, out interface{}) error {
	if data == nil {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if string(raw) == "null" {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		raw = envelope.Data
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
