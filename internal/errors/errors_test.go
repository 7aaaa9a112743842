package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsEmbedIdentifiers(t *testing.T) {
	notFound := NewNotFoundError("deck", 42)
	assert.Equal(t, ErrCodeNotFound, notFound.Code)
	assert.Contains(t, notFound.Message, "42")

	noSession := NewNoActiveSessionError(7)
	assert.Equal(t, ErrCodeNoActiveSession, noSession.Code)
	assert.Contains(t, noSession.Message, "user 7")
	assert.Equal(t, 409, noSession.Status)
}

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	err := fmt.Errorf("start session: %w", NewEmptyDeckError(3))
	assert.True(t, IsEmptyDeck(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsEmptyDeck(fmt.Errorf("plain")))
}
