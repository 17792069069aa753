package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIssueAPIKey(t *testing.T) {
	u := &User{Name: "ops", Email: "ops@example.com"}

	key, err := u.IssueAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.NotEmpty(t, u.APIKeyHash)
	assert.NotEmpty(t, u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyCreatedAt)
	assert.Nil(t, u.APIKeyLastUsedAt)
	assert.True(t, u.HasActiveAPIKey())
	assert.Equal(t, HashAPIKey(key), u.APIKeyHash)
}

func TestUserRevokeAPIKey(t *testing.T) {
	u := &User{Name: "ops", Email: "ops@example.com"}
	_, err := u.IssueAPIKey()
	require.NoError(t, err)

	u.RevokeAPIKey()

	assert.False(t, u.HasActiveAPIKey())
	assert.Equal(t, "", u.APIKeyHash)
	assert.NotNil(t, u.APIKeyRevokedAt)
}

func TestCreateUserHashesPassword(t *testing.T) {
	u, err := CreateUser("operator", "op@example.com", "secret123", ROLE_STAFF)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, CheckPasswordHash("secret123", u.Password))
	assert.False(t, CheckPasswordHash("wrong", u.Password))
}
