package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

func TestRetryableClassification(t *testing.T) {
	transient := apperrors.NewRetryableError(errors.New("connection refused"), "ladok sign-in failed")
	assert.True(t, retryable(transient))
	assert.True(t, retryable(fmt.Errorf("processing job: %w", transient)))

	assert.False(t, retryable(apperrors.ErrInvalidCredentials))
	assert.False(t, retryable(apperrors.ErrNotAuthorized))
	assert.False(t, retryable(errors.New("bad message")))
	assert.False(t, retryable(apperrors.ValidationError{Field: "grade", Value: "Q", Message: "unknown"}))
}
