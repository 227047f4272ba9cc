package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/civichub/internal/app/system/auth"
)

// WithUser identifies the request as userID, bypassing the session and
// bearer middleware.
func WithUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), userID))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}
