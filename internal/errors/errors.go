package errors

import (
	"errors"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailAlreadyInUse    = errors.New("email already in use")
	ErrMissingRefreshToken  = errors.New("refresh token is required")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token revoked")
	ErrRefreshTokenInvalid  = errors.New("refresh token invalid or expired")
	ErrMissingAuthHeader    = errors.New("missing or malformed authorization header")
	ErrAccessTokenExpired   = errors.New("access token expired")
	ErrAccessTokenInvalid   = errors.New("invalid access token")
	ErrTokenTypeMismatch    = errors.New("unexpected token type")
)
