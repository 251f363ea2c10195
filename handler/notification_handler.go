package handler

import (
	"context"
	"net/http"

	"momentum/dto"
	"momentum/model"
	"momentum/utils"

	"github.com/gin-gonic/gin"
)

// Dispatcher is the notification provider as seen by the HTTP layer.
type Dispatcher interface {
	SendEmail(ctx context.Context, title, description, email, subscriberID string) error
	SendSMS(ctx context.Context, title, description, phone, subscriberID string) error
	SendInApp(ctx context.Context, title, description, subscriberID, message string) error
	CreateSubscriber(ctx context.Context, email string) (string, error)
	CreateTopic(ctx context.Context, key, name string) (*model.Topic, error)
	GetTopic(ctx context.Context, key string) (*model.Topic, error)
	AddSubscribersToTopic(ctx context.Context, key string, subscriberIDs []string) (*model.TopicSubscribersResult, error)
	NotifyTopic(ctx context.Context, key, title, description string) (*model.TriggerResult, error)
}

func SendSMSHandler(c *gin.Context, dispatcher Dispatcher) {
	var req dto.SMSRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := dispatcher.SendSMS(c.Request.Context(), req.Title, req.Description, req.Phone, req.NoteID); err != nil {
		dispatchFailure(c, err, "Failed to send SMS")
		return
	}

	utils.Message(c, "SMS sent successfully")
}

func SendEmailHandler(c *gin.Context, dispatcher Dispatcher) {
	var req dto.EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := dispatcher.SendEmail(c.Request.Context(), req.Title, req.Description, req.Email, req.NoteID); err != nil {
		dispatchFailure(c, err, "Failed to send Email")
		return
	}

	utils.Message(c, "Email sent successfully")
}

// DeleteNotificationHandler sends the in-app "note deleted" message on
// behalf of a client that removed a note itself.
func DeleteNotificationHandler(c *gin.Context, dispatcher Dispatcher) {
	var req dto.InAppRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := dispatcher.SendInApp(c.Request.Context(), req.Title, req.Description, req.UserID, req.Message); err != nil {
		dispatchFailure(c, err, "Failed to send deletion notification")
		return
	}

	utils.Message(c, "Deletion notification sent successfully")
}

func CreateSubscriberHandler(c *gin.Context, dispatcher Dispatcher) {
	var req dto.CreateSubscriberRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := dispatcher.CreateSubscriber(c.Request.Context(), req.Email)
	if err != nil {
		dispatchFailure(c, err, "Failed to create subscriber")
		return
	}

	utils.Success(c, dto.SubscriberResponse{SubscriberID: id})
}

func CreateTopicHandler(c *gin.Context, dispatcher Dispatcher) {
	var req dto.CreateTopicRequest
	if !bindJSON(c, &req) {
		return
	}

	topic, err := dispatcher.CreateTopic(c.Request.Context(), req.Key, req.Name)
	if err != nil {
		dispatchFailure(c, err, "Failed to create topic")
		return
	}

	utils.Created(c, topic)
}

func GetTopicHandler(c *gin.Context, dispatcher Dispatcher) {
	topic, err := dispatcher.GetTopic(c.Request.Context(), c.Param("key"))
	if err != nil {
		dispatchFailure(c, err, "Failed to get topic")
		return
	}

	utils.Success(c, topic)
}

func AddTopicSubscribersHandler(c *gin.Context, dispatcher Dispatcher) {
	var req dto.TopicSubscribersRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := dispatcher.AddSubscribersToTopic(c.Request.Context(), c.Param("key"), req.Subscribers)
	if err != nil {
		dispatchFailure(c, err, "Failed to add subscribers to topic")
		return
	}

	utils.Success(c, result)
}

func NotifyTopicHandler(c *gin.Context, dispatcher Dispatcher) {
	var req dto.NotifyTopicRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := dispatcher.NotifyTopic(c.Request.Context(), c.Param("key"), req.Title, req.Description)
	if err != nil {
		dispatchFailure(c, err, "Failed to notify topic")
		return
	}

	utils.Success(c, result)
}

func dispatchFailure(c *gin.Context, err error, message string) {
	if utils.IsKind(err, utils.KindValidation) {
		utils.ErrorJSON(c, utils.StatusFor(err), err)
		return
	}
	utils.ErrorJSON(c, http.StatusInternalServerError, utils.NewError(utils.KindDispatch, message, err))
}
