package http

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/service"
	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/httpx"
)

const (
	refreshTokenCookie = "refreshToken"

	minPasswordLength = 8
	maxPasswordLength = 128
)

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService

	// RefreshTTL bounds the refresh cookie lifetime.
	RefreshTTL time.Duration
	// Secure marks the auth cookies HTTPS-only.
	Secure bool
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// authResponse is the body for register, login and refresh. The refresh
// token travels only in the http-only cookie, never in the body.
type authResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
}

func newAuthResponse(result *domain.AuthResult) authResponse {
	return authResponse{
		User:        result.User,
		AccessToken: result.Tokens.AccessToken,
		ExpiresIn:   result.Tokens.ExpiresIn,
	}
}

// Register serves POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	var fields []apierr.FieldError
	fields = appendFieldError(fields, validateEmail(req.Email))
	fields = appendFieldError(fields, validatePassword("password", req.Password))
	if strings.TrimSpace(req.FirstName) == "" {
		fields = append(fields, apierr.FieldError{Field: "firstName", Message: "is required"})
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields = append(fields, apierr.FieldError{Field: "lastName", Message: "is required"})
	}

	role := domain.RoleCustomer
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil || parsed == domain.RoleAdmin {
			// Admin accounts are provisioned out of band, never self-signup.
			fields = append(fields, apierr.FieldError{Field: "role", Message: "must be customer or owner"})
		} else {
			role = parsed
		}
	}

	if len(fields) > 0 {
		return apierr.ErrValidation.WithDetails(fields)
	}

	result, err := h.Auth.Register(r.Context(), service.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      role,
	})
	if err != nil {
		return err
	}

	h.setRefreshCookie(w, result.Tokens.RefreshToken)
	httpx.NoCache(w)
	httpx.WriteSuccess(w, r, http.StatusCreated, newAuthResponse(result))
	return nil
}

// Login serves POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	if req.Email == "" || req.Password == "" {
		return apierr.ErrValidation.WithDetails([]apierr.FieldError{
			{Field: "email", Message: "is required"},
			{Field: "password", Message: "is required"},
		})
	}

	result, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setRefreshCookie(w, result.Tokens.RefreshToken)
	httpx.NoCache(w)
	httpx.WriteSuccess(w, r, http.StatusOK, newAuthResponse(result))
	return nil
}

// Refresh serves POST /auth/refresh-token. The token comes from the JSON
// body or falls back to the refresh cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) error {
	var req refreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
	}

	token := req.RefreshToken
	if token == "" {
		if c, err := r.Cookie(refreshTokenCookie); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return apierr.ErrValidation.WithDetails([]apierr.FieldError{
			{Field: "refreshToken", Message: "is required"},
		})
	}

	result, err := h.Auth.Refresh(r.Context(), token)
	if err != nil {
		return err
	}

	// Rotate the cookie alongside the new pair.
	h.setRefreshCookie(w, result.Tokens.RefreshToken)
	httpx.NoCache(w)
	httpx.WriteSuccess(w, r, http.StatusOK, newAuthResponse(result))
	return nil
}

// Logout serves POST /auth/logout. Tokens are stateless so there is
// nothing to revoke server-side; clearing the cookies is the whole job.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	// Paths must match the ones the cookies were set with, or the browser
	// keeps the originals.
	h.clearCookie(w, refreshTokenCookie, "/auth")
	h.clearCookie(w, accessTokenCookie, "/")
	httpx.WriteSuccess(w, r, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}

// Me serves GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) error {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return apierr.ErrUnauthorized
	}

	user, err := h.Auth.GetUser(r.Context(), p.ID)
	if err != nil {
		return err
	}

	httpx.WriteSuccess(w, r, http.StatusOK, user)
	return nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword serves PUT /auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) error {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return apierr.ErrUnauthorized
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	var fields []apierr.FieldError
	if req.CurrentPassword == "" {
		fields = append(fields, apierr.FieldError{Field: "currentPassword", Message: "is required"})
	}
	fields = appendFieldError(fields, validatePassword("newPassword", req.NewPassword))
	if len(fields) > 0 {
		return apierr.ErrValidation.WithDetails(fields)
	}

	if err := h.Auth.ChangePassword(r.Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	httpx.WriteSuccess(w, r, http.StatusOK, map[string]string{"message": "Password changed"})
	return nil
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     "/auth",
		MaxAge:   int(h.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// decodeJSON parses the request body, converting malformed JSON into a
// validation error instead of a 500.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return apierr.ErrValidation.WithMessage("Invalid request body")
	}
	return nil
}

func validateEmail(email string) *apierr.FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return &apierr.FieldError{Field: "email", Message: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &apierr.FieldError{Field: "email", Message: "is not a valid email address"}
	}
	return nil
}

func validatePassword(field, password string) *apierr.FieldError {
	switch {
	case password == "":
		return &apierr.FieldError{Field: field, Message: "is required"}
	case utf8.RuneCountInString(password) < minPasswordLength:
		return &apierr.FieldError{Field: field, Message: "must be at least 8 characters"}
	case utf8.RuneCountInString(password) > maxPasswordLength:
		return &apierr.FieldError{Field: field, Message: "must be at most 128 characters"}
	}
	return nil
}

func appendFieldError(fields []apierr.FieldError, fe *apierr.FieldError) []apierr.FieldError {
	if fe != nil {
		fields = append(fields, *fe)
	}
	return fields
}
