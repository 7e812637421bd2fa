package hub_test

import (
	"testing"

	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
)

func TestTokenValidatorFunc(t *testing.T) {
	t.Run("nil func rejects everything", func(t *testing.T) {
		var f hub.TokenValidatorFunc

		claims, err := f.Validate("anything")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, hub.ErrTokenMalformed)
	})

	t.Run("delegates to the wrapped func", func(t *testing.T) {
		called := false
		f := hub.TokenValidatorFunc(func(tokenString string) (hub.AuthClaims, error) {
			called = true
			return nil, hub.ErrTokenExpired
		})

		_, err := f.Validate("raw")

		assert.True(t, called)
		assert.ErrorIs(t, err, hub.ErrTokenExpired)
	})
}

func TestMultiTokenValidator(t *testing.T) {
	signingKey := []byte("test-signing-key")
	local := hub.NewTokenService(signingKey, 168, "local", nopLogger{})

	rejectAll := hub.TokenValidatorFunc(func(string) (hub.AuthClaims, error) {
		return nil, hub.ErrTokenMalformed
	})

	t.Run("falls through malformed results to the next validator", func(t *testing.T) {
		identity := testDeveloper()
		tokenString, err := local.Generate(identity)
		assert.NoError(t, err)

		multi := hub.NewMultiTokenValidator(rejectAll, local)

		claims, err := multi.Validate(tokenString)

		assert.NoError(t, err)
		assert.Equal(t, identity.ID(), claims.UserID())
	})

	t.Run("expired token stops the chain", func(t *testing.T) {
		fallbackCalled := false
		expired := hub.TokenValidatorFunc(func(string) (hub.AuthClaims, error) {
			return nil, hub.ErrTokenExpired
		})
		fallback := hub.TokenValidatorFunc(func(string) (hub.AuthClaims, error) {
			fallbackCalled = true
			return nil, nil
		})

		multi := hub.NewMultiTokenValidator(expired, fallback)

		_, err := multi.Validate("some-token")

		assert.ErrorIs(t, err, hub.ErrTokenExpired)
		assert.False(t, fallbackCalled)
	})

	t.Run("all malformed returns the last malformed error", func(t *testing.T) {
		multi := hub.NewMultiTokenValidator(rejectAll, rejectAll)

		claims, err := multi.Validate("garbage")

		assert.Nil(t, claims)
		assert.True(t, hub.IsMalformedError(err))
	})

	t.Run("empty chain rejects", func(t *testing.T) {
		multi := hub.NewMultiTokenValidator()

		_, err := multi.Validate("anything")

		assert.ErrorIs(t, err, hub.ErrTokenMalformed)
	})

	t.Run("nil validators are skipped", func(t *testing.T) {
		identity := testManager()
		tokenString, err := local.Generate(identity)
		assert.NoError(t, err)

		multi := hub.NewMultiTokenValidator(nil, local, nil)

		claims, err := multi.Validate(tokenString)

		assert.NoError(t, err)
		assert.Equal(t, identity.ID(), claims.UserID())
	})
}
