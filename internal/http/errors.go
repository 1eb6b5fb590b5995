package http

import (
	"errors"

	"github.com/driveway/driveway/internal/service"
	"github.com/driveway/driveway/internal/store"
	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/jwtx"
)

// Classify maps every error the handlers and services can produce onto the
// API error taxonomy. Anything unrecognised falls through to a generic 500
// with no detail leaked.
func Classify(err error) *apierr.Error {
	var e *apierr.Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return apierr.ErrTokenExpired
	case errors.Is(err, jwtx.ErrInvalid):
		return apierr.ErrTokenInvalid

	case errors.Is(err, service.ErrInvalidCredentials):
		return apierr.ErrUnauthorized.WithMessage("Invalid email or password")
	case errors.Is(err, service.ErrInvalidRefresh):
		return apierr.ErrTokenInvalid.WithMessage("Invalid or expired refresh token")
	case errors.Is(err, service.ErrEmailTaken):
		return apierr.ErrAlreadyExists.WithMessage("An account with this email already exists")
	case errors.Is(err, service.ErrInvalidResetToken):
		return apierr.ErrValidation.WithMessage("Invalid or expired reset token")

	case errors.Is(err, store.ErrAlreadyExists):
		return apierr.ErrAlreadyExists
	case errors.Is(err, store.ErrNotFound):
		return apierr.ErrNotFound
	}

	return apierr.ErrInternal
}
