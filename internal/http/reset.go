package http

import (
	"net/http"

	"github.com/driveway/driveway/internal/service"
	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/httpx"
)

// ResetHandler serves the forgot/reset password endpoints.
type ResetHandler struct {
	Reset *service.ResetService
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Forgot serves POST /auth/forgot-password. The response body is the same
// for known and unknown emails; only validation failures differ.
func (h *ResetHandler) Forgot(w http.ResponseWriter, r *http.Request) error {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	if fe := validateEmail(req.Email); fe != nil {
		return apierr.ErrValidation.WithDetails([]apierr.FieldError{*fe})
	}

	if err := h.Reset.RequestReset(r.Context(), req.Email); err != nil {
		return err
	}

	httpx.WriteSuccess(w, r, http.StatusOK, map[string]string{"message": service.ResetMessage})
	return nil
}

// Complete serves POST /auth/reset-password.
func (h *ResetHandler) Complete(w http.ResponseWriter, r *http.Request) error {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	var fields []apierr.FieldError
	if req.Token == "" {
		fields = append(fields, apierr.FieldError{Field: "token", Message: "is required"})
	}
	fields = appendFieldError(fields, validatePassword("newPassword", req.NewPassword))
	if len(fields) > 0 {
		return apierr.ErrValidation.WithDetails(fields)
	}

	if err := h.Reset.CompleteReset(r.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}

	httpx.WriteSuccess(w, r, http.StatusOK, map[string]string{"message": "Password has been reset"})
	return nil
}
