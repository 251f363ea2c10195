package utils

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable class of a failure, exposed to clients
// in the "kind" field of error bodies.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation_error"
	KindConflict   ErrorKind = "conflict_error"
	KindNotFound   ErrorKind = "not_found_error"
	KindAuth       ErrorKind = "auth_error"
	KindForbidden  ErrorKind = "forbidden_error"
	KindDispatch   ErrorKind = "dispatch_error"
	KindInternal   ErrorKind = "internal_error"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind and message so that a sentinel wrapped
// with extra cause still compares equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// Wrap attaches a cause to a sentinel error, keeping its kind and message.
func Wrap(sentinel *AppError, err error) *AppError {
	return &AppError{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

// KindOf reports the kind of err, defaulting to KindInternal for errors that
// were never classified.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong!! please try again"
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// Auth
var (
	ErrDuplicateEmail     = &AppError{Kind: KindConflict, Message: "User already exists"}
	ErrPasswordMismatch   = &AppError{Kind: KindValidation, Message: "Password should match"}
	ErrMissingName        = &AppError{Kind: KindValidation, Message: "First or last name is required"}
	ErrUserNotFound       = &AppError{Kind: KindNotFound, Message: "User does not exist"}
	ErrInvalidCredentials = &AppError{Kind: KindAuth, Message: "Invalid password, try again"}
)

// Tokens
var (
	ErrMissingToken   = &AppError{Kind: KindAuth, Message: "Missing authorization header"}
	ErrMalformedToken = &AppError{Kind: KindAuth, Message: "Malformed authorization header"}
	ErrInvalidToken   = &AppError{Kind: KindAuth, Message: "Invalid token"}
	ErrExpiredToken   = &AppError{Kind: KindAuth, Message: "Token has expired"}
	ErrRevokedToken   = &AppError{Kind: KindAuth, Message: "Token has been invalidated"}
	ErrNoIdentity     = &AppError{Kind: KindAuth, Message: "Authentication required"}
)

// Notes
var (
	ErrInvalidNoteID = &AppError{Kind: KindNotFound, Message: "No note is available with id"}
	ErrNoteNotFound  = &AppError{Kind: KindNotFound, Message: "Note not found"}
	ErrInvalidNote   = &AppError{Kind: KindValidation, Message: "Invalid note"}
	ErrForbidden     = &AppError{Kind: KindForbidden, Message: "Note belongs to another user"}
)

var (
	ErrDispatch     = &AppError{Kind: KindDispatch, Message: "Notification dispatch failed"}
	ErrBodyTooLarge = &AppError{Kind: KindValidation, Message: "Request body too large"}
)
