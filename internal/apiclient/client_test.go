package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return New(Config{
		BaseURL:         srv.URL,
		Token:           "test-token",
		Timeout:         2 * time.Second,
		RetryAttempts:   2,
		RetryBackoff:    5 * time.Millisecond,
		RateLimitPerSec: 1000,
		RateLimitBurst:  10,
	}, logrus.New())
}

func TestCall_SuccessReturnsOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res := c.Call(context.Background(), "sendMessage", map[string]any{"chat_id": "c1"})
	assert.True(t, res.Ok)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestCall_RetriesOn503ThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res := c.Call(context.Background(), "sendMessage", map[string]any{"chat_id": "c1"})
	require.True(t, res.Ok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestCall_DoesNotRetryOn400(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res := c.Call(context.Background(), "sendMessage", map[string]any{"chat_id": "c1"})
	assert.False(t, res.Ok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestCall_ExhaustsRetriesAndReturnsLastResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	res := c.Call(context.Background(), "sendMessage", map[string]any{"chat_id": "c1"})
	assert.False(t, res.Ok)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}
