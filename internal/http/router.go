package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/service"
	"github.com/driveway/driveway/pkg/httpx"
	"github.com/driveway/driveway/pkg/jwtx"
	"github.com/driveway/driveway/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authn        *Authn
	errors       *httpx.ErrorHandler
	csrf         *httpx.CSRFGuard
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	secure       bool
	pingStore    func(ctx context.Context) error

	AuthService    *service.AuthService
	ResetService   *service.ResetService
	VehicleService *service.VehicleService
}

// RouterConfig carries the cross-cutting dependencies the Router needs
// besides the services.
type RouterConfig struct {
	Tokens       *jwtx.Service
	Logger       *slog.Logger
	BuildVersion string

	// Dev attaches error details to 500 responses.
	Dev bool
	// Secure marks all cookies HTTPS-only.
	Secure bool

	// PingStore backs the readiness probe.
	PingStore func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) *Router {
	errors := &httpx.ErrorHandler{
		Dev:      cfg.Dev,
		Classify: Classify,
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		authn:        &Authn{Tokens: cfg.Tokens, Errors: errors},
		errors:       errors,
		csrf:         &httpx.CSRFGuard{Secure: cfg.Secure},
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		logger:       cfg.Logger,
		secure:       cfg.Secure,
		pingStore:    cfg.PingStore,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		errors.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPasswordReset()
	r.registerCSRF()
	r.registerVehicles()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Auth:       r.AuthService,
		RefreshTTL: r.AuthService.RefreshTTL,
		Secure:     r.secure,
	}

	// Credential-presenting endpoints. These prove identity with the
	// credential in the body, so they sit outside the CSRF guard but behind
	// the strict rate limit.
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(r.errors.Wrap(h.Register),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(r.errors.Wrap(h.Login),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/refresh-token",
		httpx.Chain(r.errors.Wrap(h.Refresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Session-state mutations require both a valid access token and the
	// double-submit CSRF pair.
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(r.errors.Wrap(h.Logout),
			r.authn.Authenticate(),
			r.csrf.Protect(),
		),
	)
	r.Mux.Handle("PUT /auth/change-password",
		httpx.Chain(r.errors.Wrap(h.ChangePassword),
			r.authn.Authenticate(),
			r.csrf.Protect(),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /auth/me",
		httpx.Chain(r.errors.Wrap(h.Me),
			r.authn.Authenticate(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPasswordReset() {
	h := &ResetHandler{Reset: r.ResetService}

	r.Mux.Handle("POST /auth/forgot-password",
		httpx.Chain(r.errors.Wrap(h.Forgot),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/reset-password",
		httpx.Chain(r.errors.Wrap(h.Complete),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerCSRF() {
	h := &CSRFHandler{Guard: r.csrf}

	r.Mux.Handle("GET /csrf-token",
		httpx.Chain(r.errors.Wrap(h.Issue),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerVehicles() {
	h := &VehicleHandler{Vehicles: r.VehicleService}

	// Public reads with optional identity: listings shift with the viewer.
	r.Mux.Handle("GET /vehicles",
		httpx.Chain(r.errors.Wrap(h.List),
			r.authn.OptionalAuthenticate(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /vehicles/{id}",
		httpx.Chain(r.errors.Wrap(h.Get),
			r.authn.OptionalAuthenticate(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /vehicles",
		httpx.Chain(r.errors.Wrap(h.Create),
			r.authn.Authenticate(),
			RequireRole(domain.RoleOwner, domain.RoleAdmin),
			r.csrf.Protect(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /vehicles/{id}/rate",
		httpx.Chain(r.errors.Wrap(h.UpdateRate),
			r.authn.Authenticate(),
			RequireOwner(r.VehicleService.OwnerID, r.errors),
			r.csrf.Protect(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.pingStore))
}
