// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON shape of every error the API returns outside a
// feature handler.
type errorBody struct {
	Error string `json:"error"`
}

// Handler is the errors feature handler.
// No DB needed; it only writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers requests that matched no route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers requests whose path matched but method did not.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusMethodNotAllowed, "method not allowed")
}

func write(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
