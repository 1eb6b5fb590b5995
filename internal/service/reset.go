package service

import (
	"context"
	"errors"
	"time"

	"github.com/driveway/driveway/internal/store"
	"github.com/driveway/driveway/pkg/cryptox"
	"github.com/driveway/driveway/pkg/idx"
	"github.com/driveway/driveway/pkg/jwtx"
	"github.com/driveway/driveway/pkg/slogx"
)

// ErrInvalidResetToken covers every reset failure mode. Keeping it a single
// error means the endpoint cannot be used to probe which tokens exist.
var ErrInvalidResetToken = errors.New("invalid_reset_token")

// ResetMessage is returned for every password reset request, whether or not
// the email maps to an account.
const ResetMessage = "If that email address is registered, a reset link has been sent."

// ResetService runs the forgot-password flow. Reset tokens are purpose-bound
// JWTs signed with their own secret, so an access or refresh token can never
// double as a reset token.
type ResetService struct {
	Store    store.Store
	Tokens   *jwtx.Service
	Mailer   Mailer
	ResetTTL time.Duration
}

// RequestReset issues a reset token for the account behind email, if one
// exists. The caller gets no signal either way; unknown emails are only
// visible in the server logs.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.Tokens.Issue(jwtx.KindReset,
		jwtx.NewResetClaims(user.ID.String()),
		s.ResetTTL,
	)
	if err != nil {
		return err
	}

	if err := s.Mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		// The requester still sees the generic message; delivery failures
		// are an operator concern.
		l.Error("password reset delivery failed", "user_id", user.ID.String(), "err", err)
		return nil
	}

	l.Info("password reset issued", "user_id", user.ID.String())
	return nil
}

// CompleteReset verifies the reset token and installs the new password. Any
// token problem collapses into ErrInvalidResetToken.
func (s *ResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.Tokens.Verify(jwtx.KindReset, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	userID, err := idx.Parse(claims.Subject)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	slogx.FromContext(ctx).Info("password reset completed", "user_id", userID.String())
	return nil
}
