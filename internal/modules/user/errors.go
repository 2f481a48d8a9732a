package user

import "errors"

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrEmptyName   = errors.New("name must not be empty")
	ErrEmptyPhoto  = errors.New("photo must not be empty")
	ErrNoUserID    = errors.New("user record has no id")
)
