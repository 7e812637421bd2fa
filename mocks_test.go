package hub_test

import (
	"context"
	"sync"

	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/mock"
)

// MockLogger implements hub.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// nopLogger swallows everything; used where log output is irrelevant.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// stubIdentity is a plain hub.Identity for tests that don't need
// call-count assertions.
type stubIdentity struct {
	id    string
	name  string
	email string
	role  hub.UserRole
}

func (s stubIdentity) ID() string          { return s.id }
func (s stubIdentity) Name() string        { return s.name }
func (s stubIdentity) Email() string       { return s.email }
func (s stubIdentity) Role() hub.UserRole { return s.role }

func testManager() stubIdentity {
	return stubIdentity{
		id:    "5b4e2aa7-7d3c-4c8a-b94e-0a43b2f0a001",
		name:  "Morgan Reyes",
		email: "morgan@example.com",
		role:  hub.RoleManager,
	}
}

func testDeveloper() stubIdentity {
	return stubIdentity{
		id:    "0f1d3c55-98aa-4d2b-8f6e-6c7b9d1e2002",
		name:  "Sam Okafor",
		email: "sam@example.com",
		role:  hub.RoleDeveloper,
	}
}

// captureSink records every event it receives.
type captureSink struct {
	mu     sync.Mutex
	events []hub.ActivityEvent
}

func (c *captureSink) Record(_ context.Context, event hub.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureSink) Events() []hub.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]hub.ActivityEvent, len(c.events))
	copy(out, c.events)
	return out
}

// MockIdentityProvider implements hub.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (hub.Identity, error) {
	args := m.Called(ctx, email, password)
	if identity := args.Get(0); identity != nil {
		return identity.(hub.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByID(ctx context.Context, id string) (hub.Identity, error) {
	args := m.Called(ctx, id)
	if identity := args.Get(0); identity != nil {
		return identity.(hub.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}
