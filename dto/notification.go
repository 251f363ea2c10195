package dto

// The subscriber of SMS and email sends is addressed by the noteId field.
type SMSRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Phone       string `json:"phone" binding:"required"`
	NoteID      string `json:"noteId" binding:"required"`
}

type EmailRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Email       string `json:"email" binding:"required,email"`
	NoteID      string `json:"noteId" binding:"required"`
}

type InAppRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId" binding:"required"`
	Message     string `json:"message"`
}

type CreateSubscriberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SubscriberResponse struct {
	SubscriberID string `json:"subscriberId"`
}

type CreateTopicRequest struct {
	Key  string `json:"key" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type TopicSubscribersRequest struct {
	Subscribers []string `json:"subscribers" binding:"required,min=1,dive,required"`
}

type NotifyTopicRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}
