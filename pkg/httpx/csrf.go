package httpx

import (
	"net/http"
	"time"

	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/cryptox"
)

// Double-submit cookie CSRF protection: one copy of an opaque random token
// lives in an http-only cookie, the other is round-tripped by the client in
// a custom header on every mutating request. The two must match exactly.
const (
	CSRFCookieName = "csrf-token"
	CSRFHeaderName = "x-csrf-token"
	CSRFTokenTTL   = 24 * time.Hour
)

var (
	errCSRFMissing  = apierr.ErrForbidden.WithMessage("missing CSRF token")
	errCSRFMismatch = apierr.ErrForbidden.WithMessage("CSRF token mismatch")
)

// CSRFGuard issues and validates double-submit CSRF tokens. Secure marks the
// cookie HTTPS-only and should be on everywhere except local development.
type CSRFGuard struct {
	Secure bool
}

// Issue generates a fresh token, sets it as the http-only cookie and returns
// it for the client to echo in the request header.
func (g *CSRFGuard) Issue(w http.ResponseWriter) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CSRFTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   g.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	return token, nil
}

// Protect rejects mutating requests whose cookie and header tokens are
// absent or unequal. Safe methods always pass through untouched.
func (g *CSRFGuard) Protect() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			var cookieValue string
			if c, err := r.Cookie(CSRFCookieName); err == nil {
				cookieValue = c.Value
			}

			if err := ValidateCSRF(cookieValue, r.Header.Get(CSRFHeaderName)); err != nil {
				WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateCSRF checks the double-submit pair. Both values must be present
// and byte-equal; the comparison is constant-time so equality checking does
// not leak token bytes through timing.
func ValidateCSRF(cookieValue, headerValue string) *apierr.Error {
	if cookieValue == "" || headerValue == "" {
		return errCSRFMissing
	}
	if !cryptox.ConstantTimeEqual(cookieValue, headerValue) {
		return errCSRFMismatch
	}
	return nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
