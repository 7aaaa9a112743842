package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeEmptyDeck         = "EMPTY_DECK"
	ErrCodeInsufficientCards = "INSUFFICIENT_CARDS"
	ErrCodeNoActiveSession   = "NO_ACTIVE_SESSION"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "EMPTY_DECK")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewEmptyDeckError reports an attempt to study a deck with no cards.
func NewEmptyDeckError(deckID int64) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyDeck,
		Message: fmt.Sprintf("deck %d has no cards to study", deckID),
		Status:  422,
	}
}

// NewInsufficientCardsError reports a quiz start on a deck too small to
// build distractors from.
func NewInsufficientCardsError(deckID int64, have int) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientCards,
		Message: fmt.Sprintf("deck %d has %d card(s), quiz mode needs at least 2", deckID, have),
		Status:  422,
	}
}

// NewNoActiveSessionError reports a turn submitted against a session that
// no longer exists.
func NewNoActiveSessionError(userID int64) *AppError {
	return &AppError{
		Code:    ErrCodeNoActiveSession,
		Message: fmt.Sprintf("user %d has no active study session, start a new one", userID),
		Status:  409,
	}
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsEmptyDeck reports whether err is an EMPTY_DECK error.
func IsEmptyDeck(err error) bool { return hasCode(err, ErrCodeEmptyDeck) }

// IsInsufficientCards reports whether err is an INSUFFICIENT_CARDS error.
func IsInsufficientCards(err error) bool { return hasCode(err, ErrCodeInsufficientCards) }

// IsNoActiveSession reports whether err is a NO_ACTIVE_SESSION error.
func IsNoActiveSession(err error) bool { return hasCode(err, ErrCodeNoActiveSession) }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }
