// internal/app/features/files/routes.go
package files

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /files.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.Serve)
	return r
}
