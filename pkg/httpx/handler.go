package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/driveway/driveway/pkg/apierr"
	"github.com/driveway/driveway/pkg/slogx"
)

// HandlerFunc is an http handler that reports failures by returning an
// error instead of writing a response itself. Errors never reach the caller
// directly: the ErrorHandler wrapping the handler is the terminal stage that
// converts them into the response envelope.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler is the terminal error classifier. Classify maps any error to
// an *apierr.Error; when nil, a minimal default is used that passes
// *apierr.Error values through and treats everything else as internal.
type ErrorHandler struct {
	// Dev attaches the underlying error and stack to internal error
	// responses. Never enable outside a development configuration.
	Dev bool

	Classify func(error) *apierr.Error
}

// Wrap adapts a HandlerFunc into an http.Handler with error classification.
func (eh *ErrorHandler) Wrap(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			eh.writeClassified(w, r, err)
		}
	})
}

// WriteError classifies err and writes it as the error envelope. For use by
// middleware that cannot return errors through a HandlerFunc.
func (eh *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	eh.writeClassified(w, r, err)
}

// Recover converts handler panics into classified internal errors. An
// uncaught panic is by definition non-operational.
func (eh *ErrorHandler) Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					eh.writeClassified(w, r, fmt.Errorf("panic: %v", rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func (eh *ErrorHandler) writeClassified(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	e := eh.classify(err)
	if e.Operational {
		// Expected business condition; the message is safe as-is.
		log.Warn("request failed", "code", e.Code, "err", err)
	} else {
		log.Error("unexpected error", "err", err, "stack", string(debug.Stack()))
		if eh.Dev {
			e = e.WithDetails(map[string]string{
				"error": err.Error(),
				"stack": string(debug.Stack()),
			})
		}
	}

	WriteError(w, r, e)
}

func (eh *ErrorHandler) classify(err error) *apierr.Error {
	if eh.Classify != nil {
		return eh.Classify(err)
	}

	var e *apierr.Error
	if errors.As(err, &e) {
		return e
	}
	return apierr.ErrInternal
}
