package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"class-sync/core/utils"
)

// Request is an outbound request that can be sent more than once.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Get builds a GET request carrying a bearer token.
func Get(rawURL, token string) Request {
	h := http.Header{}
	h.Set("Accept", "application/json")
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return Request{Method: http.MethodGet, URL: rawURL, Header: h}
}

// Response is a response whose body has been read in full.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError is returned for a response outside 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := utils.Truncate(strings.TrimSpace(string(e.Body)), 512)
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// NewClient returns a client whose requests time out after timeout, 30s when unset.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Do sends r until it succeeds or policy says to stop. A non-2xx response
// is returned together with a *StatusError.
func Do(ctx context.Context, client *http.Client, r Request, policy Policy) (*Response, error) {
	attempts := max(policy.Attempts, 1)
	for attempt := 1; ; attempt++ {
		resp, sendErr := send(ctx, client, r)

		var err error
		switch {
		case sendErr != nil:
			err = sendErr
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			err = &StatusError{Method: r.Method, URL: r.URL, StatusCode: resp.StatusCode, Body: resp.Body}
		default:
			return resp, nil
		}

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		if attempt >= attempts || !shouldRetry(r.Method, status, sendErr) {
			return resp, err
		}
		if werr := pause(ctx, policy.delay(attempt, retryAfter(resp))); werr != nil {
			return resp, werr
		}
	}
}

func send(ctx context.Context, client *http.Client, r Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: data}, nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
