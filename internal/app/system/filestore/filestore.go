// Package filestore resolves storage references (cover images, avatars) to
// URLs the browser can fetch.
package filestore

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ErrNotFound means the reference does not point at a stored file.
var ErrNotFound = errors.New("file not found")

// Resolver maps a storage reference to a URL.
// Implementations return ErrNotFound for an empty or unknown reference.
type Resolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// Local serves files from a URL prefix on this host (e.g., "/files/uploads").
// It does not check that the file exists.
type Local struct {
	BaseURL string
}

// NewLocal returns a Local resolver rooted at baseURL.
func NewLocal(baseURL string) *Local {
	return &Local{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) ResolveURL(_ context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNotFound
	}
	parts := strings.Split(strings.Trim(ref, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return l.BaseURL + "/" + strings.Join(parts, "/"), nil
}
