package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/handlers"
)

// SetupRoutes mounts the action API under every path the front end uses.
func SetupRoutes(r chi.Router, api http.Handler) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	for _, path := range []string{"/api", "/api/", "/api/index.php"} {
		r.Get(path, api.ServeHTTP)
		r.Post(path, api.ServeHTTP)
	}

	// Router-level rejections use the same JSON envelope as the API.
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, apperr.ErrMethodNotAllowed, false)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, apperr.NotFound("Not found"), false)
	})
}
