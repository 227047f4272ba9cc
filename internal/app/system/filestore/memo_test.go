package filestore_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers HeadObject with 200 for every key.
func fakeS3(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var heads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			heads.Add(1)
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, &heads
}

func newTestS3(t *testing.T, endpoint string) *filestore.S3 {
	t.Helper()
	s, err := filestore.NewS3(context.Background(), filestore.S3Config{
		Region:          "us-east-1",
		Bucket:          "civic",
		Endpoint:        endpoint,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Expiry:          time.Hour,
	})
	require.NoError(t, err)
	return s
}

func TestS3_PresignedURLChangesEverySecond(t *testing.T) {
	srv, _ := fakeS3(t)
	s := newTestS3(t, srv.URL)
	ctx := context.Background()

	first, err := s.ResolveURL(ctx, "covers/a.png")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	second, err := s.ResolveURL(ctx, "covers/a.png")
	require.NoError(t, err)

	assert.Contains(t, first, "/civic/covers/a.png")
	assert.NotEqual(t, first, second)
}

func TestMemo_S3URLStableAcrossSeconds(t *testing.T) {
	srv, heads := fakeS3(t)
	m := filestore.NewMemo(newTestS3(t, srv.URL), 16, time.Minute)
	ctx := context.Background()

	first, err := m.ResolveURL(ctx, "covers/a.png")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	second, err := m.ResolveURL(ctx, "covers/a.png")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), heads.Load())
}

func TestMemo_ExpiresAfterTTL(t *testing.T) {
	next := &countingResolver{url: "https://cdn.example/"}
	m := filestore.NewMemo(next, 16, 50*time.Millisecond)

	_, err := m.ResolveURL(context.Background(), "a.png")
	require.NoError(t, err)
	_, err = m.ResolveURL(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), next.calls.Load())

	time.Sleep(150 * time.Millisecond)
	_, err = m.ResolveURL(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestMemo_DoesNotCacheFailures(t *testing.T) {
	next := &countingResolver{err: filestore.ErrNotFound}
	m := filestore.NewMemo(next, 16, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := m.ResolveURL(context.Background(), "missing.png")
		assert.True(t, errors.Is(err, filestore.ErrNotFound))
	}
	assert.Equal(t, int32(3), next.calls.Load())

	_, err := m.ResolveURL(context.Background(), "")
	assert.ErrorIs(t, err, filestore.ErrNotFound)
	assert.Equal(t, int32(3), next.calls.Load())
}

func TestMemo_ConcurrentCallersShareOneLookup(t *testing.T) {
	next := &countingResolver{url: "https://cdn.example/"}
	m := filestore.NewMemo(next, 16, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := m.ResolveURL(context.Background(), "a.png")
			assert.NoError(t, err)
			assert.Equal(t, "https://cdn.example/a.png", u)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), next.calls.Load())
}
