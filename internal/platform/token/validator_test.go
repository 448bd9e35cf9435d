package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	v := NewValidator("test-signing-key")

	t.Run("accepts token it issued", func(t *testing.T) {
		tok, err := v.Issue("auditor@example.com", time.Minute)
		require.NoError(t, err)

		subject, err := v.ValidateToken(tok)
		require.NoError(t, err)
		assert.Equal(t, "auditor@example.com", subject)
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		other := NewValidator("other-key")
		tok, err := other.Issue("auditor@example.com", time.Minute)
		require.NoError(t, err)

		_, err = v.ValidateToken(tok)
		require.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		tok, err := v.Issue("auditor@example.com", -time.Minute)
		require.NoError(t, err)

		_, err = v.ValidateToken(tok)
		require.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := v.ValidateToken("not-a-jwt")
		require.Error(t, err)
	})
}
