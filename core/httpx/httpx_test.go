package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingServer answers with statuses in order, repeating the last one.
func countingServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		status := statuses[min(n, len(statuses))-1]
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func quick(n int) Policy {
	return Policy{Attempts: n, Backoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func TestDo_Success(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Link", `<next>; rel="next"`)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := Do(context.Background(), srv.Client(), Get(srv.URL, "secret"), Once())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(resp.Body))
	assert.Equal(t, `<next>; rel="next"`, resp.Header.Get("Link"))
	assert.Equal(t, "Bearer secret", auth)
}

func TestDo_OnceNeverRetries(t *testing.T) {
	srv, calls := countingServer(t, http.StatusServiceUnavailable)

	resp, err := Do(context.Background(), srv.Client(), Get(srv.URL, ""), Once())
	require.Error(t, err)

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusServiceUnavailable, serr.StatusCode)
	assert.Equal(t, "Service Unavailable", string(serr.Body))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestDo_GetRetriesServerErrors(t *testing.T) {
	srv, calls := countingServer(t, http.StatusBadGateway, http.StatusInternalServerError, http.StatusOK)

	resp, err := Do(context.Background(), srv.Client(), Get(srv.URL, ""), quick(3))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestDo_ClientErrorsAreFinal(t *testing.T) {
	srv, calls := countingServer(t, http.StatusUnauthorized)

	_, err := Do(context.Background(), srv.Client(), Get(srv.URL, ""), quick(4))
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestDo_PostOnlyRetriesRateLimit(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   bool
	}{
		{"server error is not resent", []int{http.StatusInternalServerError, http.StatusOK}, 1, true},
		{"gateway timeout is not resent", []int{http.StatusGatewayTimeout, http.StatusOK}, 1, true},
		{"rate limit is resent", []int{http.StatusTooManyRequests, http.StatusOK}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := countingServer(t, tt.statuses...)
			req := Request{Method: http.MethodPost, URL: srv.URL, Body: []byte(`{"name":"x"}`)}

			_, err := Do(context.Background(), srv.Client(), req, quick(3))
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDo_PostTimeoutIsNotResent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	client := srv.Client()
	client.Timeout = 10 * time.Millisecond

	_, err := Do(context.Background(), client, Request{Method: http.MethodPost, URL: srv.URL}, quick(3))
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = Do(context.Background(), client, Get(srv.URL, ""), quick(2))
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDo_ResendsBody(t *testing.T) {
	var bodies []string
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(buf))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	_, err := Do(context.Background(), srv.Client(), Request{Method: http.MethodPatch, URL: srv.URL, Body: []byte("abc")}, quick(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "abc"}, bodies)
}

func TestDo_CancelledWhileWaiting(t *testing.T) {
	srv, calls := countingServer(t, http.StatusServiceUnavailable)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, srv.Client(), Get(srv.URL, ""), Policy{Attempts: 3, Backoff: time.Hour})
	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, atomic.LoadInt32(calls), int32(1))
}

func TestPolicy(t *testing.T) {
	assert.Equal(t, Once(), Attempts(0))
	assert.Equal(t, Once(), Attempts(1))
	assert.Equal(t, 4, Attempts(4).Attempts)

	p := Policy{Attempts: 5, Backoff: time.Second, MaxBackoff: 3 * time.Second}
	assert.Equal(t, time.Second, p.delay(1, 0))
	assert.Equal(t, 2*time.Second, p.delay(2, 0))
	assert.Equal(t, 3*time.Second, p.delay(3, 0))
	assert.Equal(t, 3*time.Second, p.delay(1, time.Minute))
	assert.Equal(t, 2*time.Second, p.delay(4, 2*time.Second))
}

func TestRetryAfter(t *testing.T) {
	assert.Zero(t, retryAfter(nil))

	resp := &Response{Header: http.Header{}}
	assert.Zero(t, retryAfter(resp))

	resp.Header.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, retryAfter(resp))

	resp.Header.Set("Retry-After", "soon")
	assert.Zero(t, retryAfter(resp))
}
