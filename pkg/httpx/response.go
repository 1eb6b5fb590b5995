package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/slogx"
)

// Meta accompanies every response envelope. RequestID comes from the inbound
// X-Request-ID header (or is generated by the logging middleware), so client
// and server logs can be correlated even when the error is unexpected.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
}

// SuccessResponse is the envelope for all 2xx responses.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Meta    Meta `json:"meta"`
}

// ErrorResponse is the envelope for all error responses.
type ErrorResponse struct {
	Success bool          `json:"success"`
	Error   *apierr.Error `json:"error"`
	Meta    Meta          `json:"meta"`
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses carrying tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteJSON writes a bare JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes data inside the success envelope.
func WriteSuccess(w http.ResponseWriter, r *http.Request, code int, data any) {
	WriteJSON(w, code, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    metaFor(r),
	})
}

// WriteError writes an error inside the error envelope using its own status.
func WriteError(w http.ResponseWriter, r *http.Request, e *apierr.Error) {
	NoCache(w)
	WriteJSON(w, e.Status, ErrorResponse{
		Success: false,
		Error:   e,
		Meta:    metaFor(r),
	})
}

func metaFor(r *http.Request) Meta {
	return Meta{
		Timestamp: time.Now().UTC(),
		RequestID: slogx.RequestIDFromContext(r.Context()),
	}
}
