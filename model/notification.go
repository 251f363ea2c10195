package model

// Subscriber is the notification provider's addressable recipient.
type Subscriber struct {
	SubscriberID string `json:"subscriberId"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
}

type Topic struct {
	ID          string   `json:"_id,omitempty"`
	Key         string   `json:"key"`
	Name        string   `json:"name,omitempty"`
	Subscribers []string `json:"subscribers,omitempty"`
}

type TopicSubscribersResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    struct {
		NotFound []string `json:"notFound,omitempty"`
	} `json:"failed"`
}

type TriggerResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
}
