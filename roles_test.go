package hub_test

import (
	"testing"

	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, hub.IsValidRole(hub.RoleManager))
	assert.True(t, hub.IsValidRole(hub.RoleDeveloper))
	assert.True(t, hub.IsValidRole(hub.RoleLeadership))
	assert.False(t, hub.IsValidRole("admin"))
	assert.False(t, hub.IsValidRole(""))
}

func TestParseRole(t *testing.T) {
	role, ok := hub.ParseRole("manager")
	assert.True(t, ok)
	assert.Equal(t, hub.RoleManager, role)

	_, ok = hub.ParseRole("superuser")
	assert.False(t, ok)
}

func TestRequireRole(t *testing.T) {
	t.Run("admits member of allowed set", func(t *testing.T) {
		identity, err := hub.RequireRole(testManager(), hub.RoleManager)
		assert.NoError(t, err)
		assert.Equal(t, hub.RoleManager, identity.Role())
	})

	t.Run("admits any of several allowed roles", func(t *testing.T) {
		_, err := hub.RequireRole(testDeveloper(), hub.RoleManager, hub.RoleDeveloper)
		assert.NoError(t, err)
	})

	t.Run("rejects role outside the set", func(t *testing.T) {
		identity, err := hub.RequireRole(testDeveloper(), hub.RoleManager)
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, hub.ErrInsufficientRole)
	})

	t.Run("rejects nil identity as unauthenticated", func(t *testing.T) {
		identity, err := hub.RequireRole(nil, hub.RoleManager)
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, hub.ErrUnableToFindSession)
	})
}

func TestRoleChecker(t *testing.T) {
	assert.NoError(t, hub.RoleChecker(hub.RoleManager, hub.RoleManager))
	assert.NoError(t, hub.RoleChecker(hub.RoleLeadership, hub.RoleManager, hub.RoleLeadership))

	err := hub.RoleChecker(hub.RoleDeveloper, hub.RoleManager)
	assert.ErrorIs(t, err, hub.ErrInsufficientRole)

	err = hub.RoleChecker("")
	assert.ErrorIs(t, err, hub.ErrInsufficientRole)
}
