package hub_test

import (
	"errors"
	"fmt"
	"testing"

	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
)

func TestIsAuthKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"missing session", hub.ErrUnableToFindSession, true},
		{"expired token", hub.ErrTokenExpired, true},
		{"malformed token", hub.ErrTokenMalformed, true},
		{"unknown subject", hub.ErrIdentityNotFound, true},
		{"invalid credentials", hub.ErrInvalidCredentials, true},
		{"password mismatch", hub.ErrMismatchedHashAndPassword, true},
		{"wrapped expired token", fmt.Errorf("validate: %w", hub.ErrTokenExpired), true},
		{"insufficient role is authorization, not authentication", hub.ErrInsufficientRole, false},
		{"duplicate email", hub.ErrDuplicateEmail, false},
		{"invalid transition", hub.ErrInvalidReportTransition, false},
		{"unrelated error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hub.IsAuthKind(tt.err))
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, hub.IsTokenExpiredError(errors.New("token is expired by 1h")))
	assert.False(t, hub.IsTokenExpiredError(errors.New("token is malformed")))
	assert.False(t, hub.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, hub.IsMalformedError(errors.New("token is malformed")))
	assert.True(t, hub.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, hub.IsMalformedError(errors.New("token is expired")))
	assert.False(t, hub.IsMalformedError(nil))
}
