package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/store"
	"github.com/driveway/driveway/pkg/cryptox"
	"github.com/driveway/driveway/pkg/idx"
	"github.com/driveway/driveway/pkg/jwtx"
	"github.com/driveway/driveway/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrEmailTaken         = errors.New("email_taken")
)

// AuthService owns registration, login and the token lifecycle. Tokens are
// stateless signed JWTs, so there is no server-side session to create or
// tear down.
type AuthService struct {
	Store      store.Store
	Tokens     *jwtx.Service
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// RegisterParams carries the already-validated registration input.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.Role
}

// Register creates the account and signs the user straight in.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*domain.AuthResult, error) {
	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           idx.New(),
		Email:        strings.ToLower(strings.TrimSpace(p.Email)),
		PasswordHash: hash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		Role:         p.Role,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID.String(), "role", user.Role.String())

	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// Login verifies the credentials and mints a fresh token pair. The same
// error comes back whether the email is unknown or the password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so unknown emails are not distinguishable
			// from bad passwords.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", "user_id", user.ID.String())
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a brand new pair. The old
// refresh token is not revoked; it simply ages out at its expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.Tokens.Verify(jwtx.KindRefresh, refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	userID, err := idx.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	// Re-read the user so a role or email change since issuance takes effect
	// on the next access token.
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// ChangePassword verifies the current password before swapping in the new
// hash. Used by the authenticated change-password endpoint.
func (s *AuthService) ChangePassword(ctx context.Context, userID idx.ID, current, next string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID.String())
	return nil
}

// GetUser fetches the profile for an authenticated principal.
func (s *AuthService) GetUser(ctx context.Context, userID idx.ID) (*domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *AuthService) issueTokens(user *domain.User) (domain.TokenPair, error) {
	access, err := s.Tokens.Issue(jwtx.KindAccess,
		jwtx.NewAccessClaims(user.ID.String(), user.Email, user.Role.String()),
		s.AccessTTL,
	)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.Tokens.Issue(jwtx.KindRefresh,
		jwtx.NewRefreshClaims(user.ID.String()),
		s.RefreshTTL,
	)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}
