package http

import (
	"net/http"
	"time"

	"github.com/driveway/driveway/internal/domain"
	"github.com/driveway/driveway/internal/service"
	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/httpx"
	"github.com/driveway/driveway/pkg/idx"
)

// VehicleHandler serves the /vehicles endpoints.
type VehicleHandler struct {
	Vehicles *service.VehicleService
}

type createVehicleRequest struct {
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	DailyRateCents int64  `json:"dailyRateCents"`
	Published      bool   `json:"published"`
}

type updateRateRequest struct {
	DailyRateCents int64 `json:"dailyRateCents"`
}

// List serves GET /vehicles. Runs behind OptionalAuthenticate: what the
// caller sees depends on who they are.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) error {
	viewer := viewerFromContext(r)

	vehicles, err := h.Vehicles.List(r.Context(), viewer)
	if err != nil {
		return err
	}
	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}

	httpx.WriteSuccess(w, r, http.StatusOK, vehicles)
	return nil
}

// Get serves GET /vehicles/{id}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		return apierr.ErrNotFound
	}

	vehicle, err := h.Vehicles.Get(r.Context(), viewerFromContext(r), id)
	if err != nil {
		return err
	}

	httpx.WriteSuccess(w, r, http.StatusOK, vehicle)
	return nil
}

// Create serves POST /vehicles. Runs behind RequireRole(owner, admin).
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) error {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return apierr.ErrUnauthorized
	}

	var req createVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	if fields := validateVehicle(req); len(fields) > 0 {
		return apierr.ErrValidation.WithDetails(fields)
	}

	vehicle, err := h.Vehicles.Create(r.Context(), p.ID, service.CreateVehicleParams{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		DailyRateCents: req.DailyRateCents,
		Published:      req.Published,
	})
	if err != nil {
		return err
	}

	httpx.WriteSuccess(w, r, http.StatusCreated, vehicle)
	return nil
}

// UpdateRate serves PUT /vehicles/{id}/rate. Runs behind RequireOwner.
func (h *VehicleHandler) UpdateRate(w http.ResponseWriter, r *http.Request) error {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		return apierr.ErrNotFound
	}

	var req updateRateRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.DailyRateCents <= 0 {
		return apierr.ErrValidation.WithDetails([]apierr.FieldError{
			{Field: "dailyRateCents", Message: "must be a positive amount"},
		})
	}

	vehicle, err := h.Vehicles.UpdateRate(r.Context(), id, req.DailyRateCents)
	if err != nil {
		return err
	}

	httpx.WriteSuccess(w, r, http.StatusOK, vehicle)
	return nil
}

func validateVehicle(req createVehicleRequest) []apierr.FieldError {
	var fields []apierr.FieldError
	if req.Make == "" {
		fields = append(fields, apierr.FieldError{Field: "make", Message: "is required"})
	}
	if req.Model == "" {
		fields = append(fields, apierr.FieldError{Field: "model", Message: "is required"})
	}
	if req.Year < 1950 || req.Year > time.Now().Year()+1 {
		fields = append(fields, apierr.FieldError{Field: "year", Message: "is out of range"})
	}
	if req.DailyRateCents <= 0 {
		fields = append(fields, apierr.FieldError{Field: "dailyRateCents", Message: "must be a positive amount"})
	}
	return fields
}

// viewerFromContext adapts the optional principal to the service's viewer
// parameter, nil meaning anonymous.
func viewerFromContext(r *http.Request) *domain.Principal {
	if p, ok := PrincipalFromContext(r.Context()); ok {
		return &p
	}
	return nil
}
