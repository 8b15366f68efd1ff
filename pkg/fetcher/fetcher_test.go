package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/seo-companion/pkg/caching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(Options{UserAgent: "test-agent/1.0", Timeout: time.Second})

	body, err := f.Get(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "test-agent/1.0", gotUA)

	_, err = f.Get(context.Background(), srv.URL+"/missing")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestGetCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(Options{}).Get(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetSpacesRequestsToSameHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f := NewFetcher(Options{RateInterval: 50 * time.Millisecond})
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestGetUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	f := NewFetcher(Options{Cache: cache})

	for i := 0; i < 3; i++ {
		body, err := f.Get(context.Background(), srv.URL+"/sitemap.xml")
		require.NoError(t, err)
		assert.Equal(t, "body", string(body))
	}
	assert.Equal(t, int32(1), hits.Load())
}
