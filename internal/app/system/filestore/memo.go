package filestore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Memo keeps resolved URLs in process memory for ttl, so a presigned URL is
// handed out unchanged until its entry expires. TTL must be shorter than the
// presign expiry. Failures are not cached.
type Memo struct {
	next  Resolver
	urls  *expirable.LRU[string, string]
	calls singleflight.Group
}

// NewMemo wraps next with a bounded in-process URL cache.
func NewMemo(next Resolver, size int, ttl time.Duration) *Memo {
	if size <= 0 {
		size = 4096
	}
	return &Memo{next: next, urls: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (m *Memo) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", ErrNotFound
	}
	if u, ok := m.urls.Get(ref); ok {
		return u, nil
	}

	v, err, _ := m.calls.Do(ref, func() (any, error) {
		if u, ok := m.urls.Get(ref); ok {
			return u, nil
		}
		u, err := m.next.ResolveURL(ctx, ref)
		if err != nil {
			return "", err
		}
		m.urls.Add(ref, u)
		return u, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
