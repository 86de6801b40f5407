package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator(t *testing.T) {
	assert.NoError(t, EmailValidator("user@example.com"))
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("not-an-email"), ErrEmailInvalid)
	assert.ErrorIs(t, EmailValidator("a@"), ErrEmailInvalid)
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("longenough"))
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 256)), ErrPasswordTooLong)
}

func TestUsernameValidator(t *testing.T) {
	assert.NoError(t, UsernameValidator("alice_1"))
	assert.ErrorIs(t, UsernameValidator(""), ErrUsernameEmpty)
	assert.ErrorIs(t, UsernameValidator("has space"), ErrUsernameSpaces)
	assert.ErrorIs(t, UsernameValidator(strings.Repeat("a", 65)), ErrUsernameTooLong)
}
