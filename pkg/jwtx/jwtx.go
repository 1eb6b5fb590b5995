// Package jwtx issues and verifies the signed tokens used by the API:
// short-lived access tokens, long-lived refresh tokens and single-purpose
// password-reset tokens. Each kind signs with its own HS256 secret and
// carries a purpose claim, so a token of one kind can never pass
// verification as another even if the secrets were misconfigured to match.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects the secret and purpose claim of a token.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindReset   Kind = "password-reset"
)

// Default TTLs. Access tokens are short-lived because they cannot be revoked
// before expiry; refresh tokens trade a longer window for minimal claims.
const (
	DefaultAccessTTL  = 1 * time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
	DefaultResetTTL   = 15 * time.Minute
)

// Verification resolves to exactly one of {success, ErrInvalid, ErrExpired}.
// Anything wrong with a token that is not a pure expiry (bad signature,
// malformed structure, wrong algorithm, wrong purpose) is ErrInvalid.
var (
	ErrInvalid = errors.New("jwtx: invalid token")
	ErrExpired = errors.New("jwtx: token expired")
)

// Claims is the signed claim set. Refresh tokens carry only the subject id:
// their compromise window is long, so they hold the minimum needed to mint a
// new pair (the rest is re-read from storage at exchange time).
type Claims struct {
	jwt.RegisteredClaims

	// Purpose restricts what the token may authorize. Set from the Kind at
	// issue time and checked against it at verification.
	Purpose string `json:"purpose"`

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewAccessClaims builds the claim set for an access token.
func NewAccessClaims(userID, email, role string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Email:            email,
		Role:             role,
	}
}

// NewRefreshClaims builds the minimal claim set for a refresh token.
func NewRefreshClaims(userID string) Claims {
	return Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
}

// NewResetClaims builds the claim set for a password-reset token.
func NewResetClaims(userID string) Claims {
	return Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
}

// Service signs and verifies tokens. Secrets are shared process-wide
// configuration: any instance holding them can verify tokens issued by any
// other, so there is no session affinity.
type Service struct {
	secrets map[Kind][]byte
}

// NewService builds a Service from the three kind-scoped secrets. Access and
// refresh secrets must differ so that compromising one cannot forge the
// other.
func NewService(accessSecret, refreshSecret, resetSecret string) (*Service, error) {
	if accessSecret == "" || refreshSecret == "" || resetSecret == "" {
		return nil, errors.New("jwtx: all token secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("jwtx: access and refresh secrets must be distinct")
	}

	return &Service{
		secrets: map[Kind][]byte{
			KindAccess:  []byte(accessSecret),
			KindRefresh: []byte(refreshSecret),
			KindReset:   []byte(resetSecret),
		},
	}, nil
}

// Issue signs claims for the given kind with iat/exp computed from ttl.
// The purpose claim is always overwritten from the kind; callers cannot
// forge cross-kind tokens by pre-filling it.
func (s *Service) Issue(kind Kind, claims Claims, ttl time.Duration) (string, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return "", fmt.Errorf("jwtx: unknown token kind %q", kind)
	}

	now := time.Now().UTC()
	claims.Purpose = string(kind)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = newJTI()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify parses and validates a token of the given kind. Expiry is evaluated
// against wall-clock time now, not issuance time; clock skew is not
// compensated. Verify never fails with anything but ErrExpired or ErrInvalid
// regardless of input shape.
func (s *Service) Verify(kind Kind, token string) (Claims, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return Claims{}, ErrInvalid
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// A forged token reports invalid-signature before its expiry is ever
		// considered, so expired here means genuinely expired.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalid
	}

	// The purpose claim is what stops a reset token from acting as an access
	// token (and vice versa), independent of which secret signed it.
	if claims.Purpose != string(kind) {
		return Claims{}, ErrInvalid
	}

	return claims, nil
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
