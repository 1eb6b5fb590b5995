package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService("access-secret-for-tests", "refresh-secret-for-tests", "reset-secret-for-tests")
	require.NoError(t, err)
	return svc
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewService("", "b", "c")
	require.Error(t, err)

	_, err = NewService("a", "", "c")
	require.Error(t, err)

	_, err = NewService("same", "same", "c")
	require.Error(t, err, "access and refresh secrets must be distinct")
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	tests := []struct {
		name   string
		kind   Kind
		claims Claims
	}{
		{"access", KindAccess, NewAccessClaims("user-1", "a@b.com", "customer")},
		{"refresh", KindRefresh, NewRefreshClaims("user-1")},
		{"reset", KindReset, NewResetClaims("user-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Issue(tt.kind, tt.claims, time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			got, err := svc.Verify(tt.kind, token)
			require.NoError(t, err)
			require.Equal(t, tt.claims.Subject, got.Subject)
			require.Equal(t, tt.claims.Email, got.Email)
			require.Equal(t, tt.claims.Role, got.Role)
			require.Equal(t, string(tt.kind), got.Purpose)
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Issue(KindAccess, NewAccessClaims("user-1", "a@b.com", "customer"), -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(KindAccess, token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Issue(KindAccess, NewAccessClaims("user-1", "a@b.com", "customer"), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip every byte of the signature segment in turn; every variant must
	// fail as invalid, never as expired, never succeed.
	sig := parts[2]
	for i := range sig {
		flipped := []byte(sig)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(flipped)

		_, err := svc.Verify(KindAccess, tampered)
		require.ErrorIs(t, err, ErrInvalid, "byte %d", i)
	}
}

func TestVerify_TamperedSignatureOnExpiredToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	// An expired token with a broken signature is invalid, not expired: the
	// signature verdict must win so forged tokens never learn expiry state.
	token, err := svc.Issue(KindAccess, NewAccessClaims("user-1", "a@b.com", "customer"), -time.Minute)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(KindAccess, tampered)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_PurposeCrossUse(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	access, err := svc.Issue(KindAccess, NewAccessClaims("user-1", "a@b.com", "customer"), time.Hour)
	require.NoError(t, err)
	refresh, err := svc.Issue(KindRefresh, NewRefreshClaims("user-1"), time.Hour)
	require.NoError(t, err)
	reset, err := svc.Issue(KindReset, NewResetClaims("user-1"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		kind  Kind
		token string
	}{
		{"reset token as access", KindAccess, reset},
		{"reset token as refresh", KindRefresh, reset},
		{"access token as reset", KindReset, access},
		{"access token as refresh", KindRefresh, access},
		{"refresh token as access", KindAccess, refresh},
		{"refresh token as reset", KindReset, refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.kind, tt.token)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestVerify_PrefilledPurposeIsOverwritten(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := NewRefreshClaims("user-1")
	claims.Purpose = string(KindAccess) // attempt to forge a cross-kind token

	token, err := svc.Issue(KindRefresh, claims, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(KindAccess, token)
	require.ErrorIs(t, err, ErrInvalid)

	got, err := svc.Verify(KindRefresh, token)
	require.NoError(t, err)
	require.Equal(t, string(KindRefresh), got.Purpose)
}

func TestVerify_GarbageInput(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, input := range []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c",
		"....",
		strings.Repeat("x", 4096),
		"eyJhbGciOiJub25lIn0.e30.", // alg=none
	} {
		_, err := svc.Verify(KindAccess, input)
		require.ErrorIs(t, err, ErrInvalid, "input %q", input)
	}
}

func TestIssue_UnknownKind(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Issue(Kind("session"), NewRefreshClaims("user-1"), time.Hour)
	require.Error(t, err)

	_, err = svc.Verify(Kind("session"), "whatever")
	require.ErrorIs(t, err, ErrInvalid)
}
