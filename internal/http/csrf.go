package http

import (
	"net/http"

	"github.com/driveway/driveway/pkg/httpx"
)

// CSRFHandler serves GET /csrf-token: sets the double-submit cookie and
// returns the token for the client to echo in the request header.
type CSRFHandler struct {
	Guard *httpx.CSRFGuard
}

func (h *CSRFHandler) Issue(w http.ResponseWriter, r *http.Request) error {
	token, err := h.Guard.Issue(w)
	if err != nil {
		return err
	}

	httpx.NoCache(w)
	httpx.WriteSuccess(w, r, http.StatusOK, map[string]string{"csrfToken": token})
	return nil
}
