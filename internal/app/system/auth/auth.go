// Package auth resolves the requesting user's identity.
//
// Two sources populate the request context: a gorilla session cookie set by
// the sign-in flow, and an HS256 bearer token for API clients. Handlers only
// ever read the result through UserID; an anonymous request simply has none.
package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: the identity subject (session value or JWT "sub")
//     that keys memberships, profiles and notifications

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID returns ctx carrying userID. Blank IDs are ignored.
func WithUserID(ctx context.Context, userID string) context.Context {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the identity placed by the auth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// UserID returns the identity of the request, if any.
func UserID(r *http.Request) (string, bool) {
	return UserIDFromContext(r.Context())
}

// alreadyIdentified lets a later middleware skip work an earlier one did.
func alreadyIdentified(r *http.Request) bool {
	_, ok := UserID(r)
	return ok
}
