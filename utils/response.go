package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ErrorKindHeader = "X-Error-Kind"

type ErrorResponse struct {
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &MessageResponse{Message: message})
}

// Error responses

// ErrorJSON writes {message, kind} with the given status and records the
// error on the gin context for the logging middleware.
func ErrorJSON(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, &ErrorResponse{
		Message: MessageOf(err),
		Kind:    KindOf(err),
	})
}

// ErrorText writes a plain text failure; the kind travels in a header.
func ErrorText(c *gin.Context, status int, err error, text string) {
	_ = c.Error(err)
	c.Header(ErrorKindHeader, string(KindOf(err)))
	c.String(status, text)
}

func Unauthorized(c *gin.Context, err error) {
	ErrorJSON(c, http.StatusUnauthorized, err)
}

func BadRequest(c *gin.Context, message string) {
	ErrorJSON(c, http.StatusBadRequest, NewError(KindValidation, message, nil))
}

func InternalError(c *gin.Context, err error) {
	ErrorJSON(c, http.StatusInternalServerError, err)
}

// StatusFor is the default HTTP status of an error kind.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
