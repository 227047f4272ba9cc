// internal/app/features/files/handler.go
package files

import (
	"errors"
	"net/http"

	"github.com/dalemusser/civichub/internal/app/system/filestore"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler gives stored files a stable URL on this host. The dashboard
// returns resolved URLs directly; this endpoint exists for clients that
// hold only a storage reference.
type Handler struct {
	Files filestore.Resolver
	Log   *zap.Logger
}

func NewHandler(files filestore.Resolver, logger *zap.Logger) *Handler {
	return &Handler{
		Files: files,
		Log:   logger,
	}
}

// Serve handles GET /files/*. It redirects to the resolved URL, or 404s
// when the reference does not point at a stored file.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "*")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "files.resolve")
	defer cancel()

	u, err := h.Files.ResolveURL(ctx, ref)
	if errors.Is(err, filestore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Warn("file url resolution failed", zap.String("ref", ref), zap.Error(err))
		http.Error(w, "file temporarily unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	http.Redirect(w, r, u, http.StatusFound)
}
