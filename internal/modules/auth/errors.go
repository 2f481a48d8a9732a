package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidIDToken     = errors.New("invalid google id token")
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
	ErrUnauthorized       = errors.New("unauthorized")
)
