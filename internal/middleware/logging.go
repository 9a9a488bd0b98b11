package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/patobeur/inouttracker/internal/handlers"
	"github.com/patobeur/inouttracker/internal/requestctx"
	"github.com/patobeur/inouttracker/pkg/clientip"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ip := clientip.RealClientIP(r)

		ctx := requestctx.WithRequestID(r.Context(), id)
		ctx = requestctx.WithClientIP(ctx, ip)
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		entry := log.WithFields(log.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"action":     r.URL.Query().Get("action"),
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"client_ip":  ip,
		})
		switch {
		case rec.status >= http.StatusInternalServerError:
			entry.Error("request completed")
		case rec.status >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	})
}

// Recoverer turns a handler panic into the JSON 500 envelope and logs the
// stack. With details set, the panic value is included in the body.
func Recoverer(details bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}
					log.WithFields(log.Fields{
						"request_id": requestctx.RequestID(r.Context()),
						"panic":      rv,
					}).Error("panic recovered\n" + string(debug.Stack()))
					handlers.WriteError(w, r, panicError(rv), details)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func panicError(rv interface{}) error {
	if err, ok := rv.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rv)
}
