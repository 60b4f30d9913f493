package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" koki ", "Koki@Example.com", "secret123", 1000)
	require.NoError(t, err)
	assert.Equal(t, "koki", u.Username)
	assert.Equal(t, "koki@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.Password)
	assert.Equal(t, int64(1000), u.Balance)
	assert.Equal(t, DefaultAvatar, u.Avatar)
	require.NotNil(t, u.LastKoTicketAt)
}

func TestNewUser_Invalid(t *testing.T) {
	_, err := NewUser("", "a@b.com", "secret123", 0)
	assert.Error(t, err)
	_, err = NewUser("koki", " ", "secret123", 0)
	assert.Error(t, err)
}

func TestValidateAvatar(t *testing.T) {
	assert.NoError(t, ValidateAvatar("🦊"))
	assert.ErrorIs(t, ValidateAvatar(""), ErrInvalidAvatar)
	assert.ErrorIs(t, ValidateAvatar("this-avatar-name-is-too-long"), ErrInvalidAvatar)
}
