package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/httpx"
	"github.com/driveway/driveway/pkg/idx"
	"github.com/driveway/driveway/pkg/jwtx"
)

// accessTokenCookie is the cookie fallback for browser clients that cannot
// attach an Authorization header. The header wins when both are present.
const accessTokenCookie = "accessToken"

// Authn verifies access tokens and attaches the principal to the request
// context. It is injected with the token service so tests can mint their own
// tokens.
type Authn struct {
	Tokens *jwtx.Service
	Errors *httpx.ErrorHandler
}

// Authenticate rejects requests without a valid access token. Expired and
// invalid tokens produce distinct error codes so clients know whether to
// refresh or to re-login.
func (a *Authn) Authenticate() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := a.resolve(r)
			if err != nil {
				a.Errors.WriteError(w, r, err)
				return
			}
			if ctx == nil {
				httpx.WriteError(w, r, apierr.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate attaches the principal when a valid token is present
// and otherwise proceeds anonymously. All token failures are swallowed: the
// endpoints behind it serve public content, so a stale token degrades to the
// anonymous view instead of breaking the page.
func (a *Authn) OptionalAuthenticate() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctx, err := a.resolve(r); err == nil && ctx != nil {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolve extracts and verifies the access token. A nil context with nil
// error means no token was presented at all.
func (a *Authn) resolve(r *http.Request) (context.Context, error) {
	token := bearerToken(r)
	if token == "" {
		if c, err := r.Cookie(accessTokenCookie); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return nil, nil
	}

	claims, err := a.Tokens.Verify(jwtx.KindAccess, token)
	if err != nil {
		return nil, err
	}

	userID, err := idx.Parse(claims.Subject)
	if err != nil {
		return nil, jwtx.ErrInvalid
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, jwtx.ErrInvalid
	}

	return withPrincipal(r.Context(), domain.Principal{
		ID:    userID,
		Email: claims.Email,
		Role:  role,
	}), nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireRole allows only principals holding one of the given roles. Must
// run inside Authenticate.
func RequireRole(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, r, apierr.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.WriteError(w, r, apierr.ErrForbidden)
		})
	}
}

// OwnerResolver maps a resource id to its owning user, so ownership checks
// stay independent of any particular resource type.
type OwnerResolver func(ctx context.Context, resourceID idx.ID) (idx.ID, error)

// RequireOwner allows the resource's owner or an admin. The resource id is
// read from the route's {id} path value. A missing resource surfaces as 404
// through the error classifier rather than 403, so the check does not reveal
// which ids exist.
func RequireOwner(resolve OwnerResolver, errors *httpx.ErrorHandler) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, r, apierr.ErrUnauthorized)
				return
			}

			if p.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			resourceID, err := idx.Parse(r.PathValue("id"))
			if err != nil {
				httpx.WriteError(w, r, apierr.ErrNotFound)
				return
			}

			ownerID, err := resolve(r.Context(), resourceID)
			if err != nil {
				errors.WriteError(w, r, err)
				return
			}

			if ownerID != p.ID {
				httpx.WriteError(w, r, apierr.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
