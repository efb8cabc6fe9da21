package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Policy bounds how often one request is sent.
type Policy struct {
	// Attempts is the total number of sends; below 1 means 1.
	Attempts int
	// Backoff is the first wait, doubled after every failed attempt.
	Backoff time.Duration
	// MaxBackoff caps every wait, including Retry-After hints.
	MaxBackoff time.Duration
}

// Once sends every request a single time.
func Once() Policy {
	return Policy{Attempts: 1}
}

// Attempts allows n sends per request with exponential backoff.
func Attempts(n int) Policy {
	if n <= 1 {
		return Once()
	}
	return Policy{Attempts: n, Backoff: 500 * time.Millisecond, MaxBackoff: 20 * time.Second}
}

func (p Policy) delay(attempt int, hint time.Duration) time.Duration {
	d := hint
	if d <= 0 {
		d = p.Backoff << (attempt - 1)
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	return d
}

// shouldRetry decides whether a failed send may be repeated. 429 is always
// retried since the server refused the request before acting on it. Any other
// failure is only retried for idempotent methods, so a create that may have
// been applied is never sent twice.
func shouldRetry(method string, status int, sendErr error) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if !idempotent(method) {
		return false
	}
	if sendErr != nil {
		return transient(sendErr)
	}
	return status == http.StatusRequestTimeout || status >= 500
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET)
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(resp *Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}
