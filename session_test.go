package hub_test

import (
	"testing"
	"time"

	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
)

func TestSessionObject(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	expires := time.Now().Add(167 * time.Hour)

	session := &hub.SessionObject{
		UserID:         "5b4e2aa7-7d3c-4c8a-b94e-0a43b2f0a001",
		Email:          "morgan@example.com",
		Role:           hub.RoleManager,
		Issuer:         "progress-hub",
		IssuedAt:       &issued,
		ExpirationDate: &expires,
	}

	assert.Equal(t, "5b4e2aa7-7d3c-4c8a-b94e-0a43b2f0a001", session.GetUserID())
	assert.Equal(t, "morgan@example.com", session.GetEmail())
	assert.Equal(t, hub.RoleManager, session.GetRole())
	assert.Equal(t, "progress-hub", session.GetIssuer())
	assert.Equal(t, &issued, session.GetIssuedAt())
	assert.Equal(t, &expires, session.GetExpiration())

	assert.True(t, session.HasRole(hub.RoleManager))
	assert.False(t, session.HasRole(hub.RoleDeveloper))
}

func TestSessionObject_GetUserUUID(t *testing.T) {
	session := &hub.SessionObject{UserID: "5b4e2aa7-7d3c-4c8a-b94e-0a43b2f0a001"}

	uid, err := session.GetUserUUID()
	assert.NoError(t, err)
	assert.Equal(t, "5b4e2aa7-7d3c-4c8a-b94e-0a43b2f0a001", uid.String())

	session = &hub.SessionObject{UserID: "not-a-uuid"}
	_, err = session.GetUserUUID()
	assert.Error(t, err)
}

func TestSessionObject_String(t *testing.T) {
	session := hub.SessionObject{
		UserID: "user-1",
		Role:   hub.RoleDeveloper,
		Issuer: "progress-hub",
	}

	out := session.String()
	assert.Contains(t, out, "user-1")
	assert.Contains(t, out, hub.RoleDeveloper)
	assert.Contains(t, out, "<nil>")
}
