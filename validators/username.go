package validators

import (
	"errors"
	"strings"
)

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username is too long")
	ErrUsernameSpaces  = errors.New("username can't contain spaces")
)

func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) > 64 {
		return ErrUsernameTooLong
	}

	if strings.ContainsAny(u, " \t\n") {
		return ErrUsernameSpaces
	}

	return nil
}
