package service_test

import (
	"context"
	"testing"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/service"
	"github.com/driveway/driveway/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, svc *service.AuthService, email string, role domain.Role) *domain.AuthResult {
	t.Helper()

	result, err := svc.Register(context.Background(), service.RegisterParams{
		Email:     email,
		Password:  "correct horse battery staple",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      role,
	})
	require.NoError(t, err)
	return result
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthService(t)

	result := register(t, svc, "ada@example.com", domain.RoleCustomer)

	require.Equal(t, "ada@example.com", result.User.Email)
	require.Equal(t, domain.RoleCustomer, result.User.Role)
	require.False(t, result.User.ID.IsZero())
	require.NotEmpty(t, result.Tokens.AccessToken)
	require.NotEmpty(t, result.Tokens.RefreshToken)
	require.Equal(t, "Bearer", result.Tokens.TokenType)

	// The hash never equals the plaintext and never leaves via JSON.
	require.NotEqual(t, "correct horse battery staple", result.User.PasswordHash)
}

func TestAuthService_RegisterNormalizesEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	result := register(t, svc, "  Ada@Example.COM ", domain.RoleCustomer)
	require.Equal(t, "ada@example.com", result.User.Email)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	register(t, svc, "ada@example.com", domain.RoleCustomer)

	_, err := svc.Register(context.Background(), service.RegisterParams{
		Email:     "ada@example.com",
		Password:  "another password",
		FirstName: "Eve",
		LastName:  "Mallory",
		Role:      domain.RoleCustomer,
	})
	require.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "ada@example.com", domain.RoleOwner)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "ada@example.com", "correct horse battery staple")
		require.NoError(t, err)
		require.Equal(t, domain.RoleOwner, result.User.Role)
		require.NotEmpty(t, result.Tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ada@example.com", "wrong password")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _ := newAuthService(t)
	registered := register(t, svc, "ada@example.com", domain.RoleCustomer)

	t.Run("valid refresh token mints a new pair", func(t *testing.T) {
		result, err := svc.Refresh(context.Background(), registered.Tokens.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, registered.User.ID, result.User.ID)
		require.NotEmpty(t, result.Tokens.AccessToken)
		require.NotEmpty(t, result.Tokens.RefreshToken)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), registered.Tokens.AccessToken)
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), "not.a.token")
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})

	t.Run("token for deleted user is rejected", func(t *testing.T) {
		// Token signed with the right secret but for a subject that does not
		// exist in the store.
		orphan, err := svc.Tokens.Issue(jwtx.KindRefresh,
			jwtx.NewRefreshClaims("01K1GJ0YCWVW9BX5K2YJ4T8EZQ"), svc.RefreshTTL)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), orphan)
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)
	registered := register(t, svc, "ada@example.com", domain.RoleCustomer)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), registered.User.ID, "wrong", "new password here")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("correct current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), registered.User.ID,
			"correct horse battery staple", "new password here")
		require.NoError(t, err)

		_, err = svc.Login(context.Background(), "ada@example.com", "correct horse battery staple")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = svc.Login(context.Background(), "ada@example.com", "new password here")
		require.NoError(t, err)
	})
}
