package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/driveway/driveway/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestCSRFGuard_Issue(t *testing.T) {
	t.Parallel()

	guard := &httpx.CSRFGuard{Secure: true}

	rec := httptest.NewRecorder()
	token, err := guard.Issue(rec)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	require.Equal(t, httpx.CSRFCookieName, c.Name)
	require.Equal(t, token, c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestCSRFGuard_IssueUniqueTokens(t *testing.T) {
	t.Parallel()

	guard := &httpx.CSRFGuard{}

	a, err := guard.Issue(httptest.NewRecorder())
	require.NoError(t, err)
	b, err := guard.Issue(httptest.NewRecorder())
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestValidateCSRF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
		header string
		wantOK bool
	}{
		{name: "matching pair", cookie: "tok-abc", header: "tok-abc", wantOK: true},
		{name: "mismatched pair", cookie: "tok-abc", header: "tok-xyz"},
		{name: "missing cookie", header: "tok-abc"},
		{name: "missing header", cookie: "tok-abc"},
		{name: "both missing"},
		{name: "prefix is not a match", cookie: "tok-abc", header: "tok-ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpx.ValidateCSRF(tt.cookie, tt.header)
			if tt.wantOK {
				require.Nil(t, err)
				return
			}

			require.NotNil(t, err)
			require.Equal(t, http.StatusForbidden, err.Status)
			require.Equal(t, "FORBIDDEN", err.Code)
		})
	}
}

func TestCSRFGuard_Protect(t *testing.T) {
	t.Parallel()

	guard := &httpx.CSRFGuard{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := guard.Protect()(next)

	t.Run("safe methods bypass the check", func(t *testing.T) {
		t.Parallel()

		for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(method, "/anything", nil))
			require.Equal(t, http.StatusNoContent, rec.Code, method)
		}
	})

	t.Run("mutating request without tokens is rejected", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/anything", nil))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("mutating request with matching tokens passes", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/anything", nil)
		req.AddCookie(&http.Cookie{Name: httpx.CSRFCookieName, Value: "tok-123"})
		req.Header.Set(httpx.CSRFHeaderName, "tok-123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("mutating request with mismatched tokens is rejected", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/anything", nil)
		req.AddCookie(&http.Cookie{Name: httpx.CSRFCookieName, Value: "tok-123"})
		req.Header.Set(httpx.CSRFHeaderName, "tok-456")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
