package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"class-sync/core/httpx"

	"go.uber.org/zap"
)

// pageSize is sent as per_page on every listing; the API default is 10.
const pageSize = 100

var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// UpstreamError reports a failed LMS request. StatusCode is zero when the
// request never produced a response (transport failure, timeout).
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("canvas: GET %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("canvas: GET %s failed: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client talks to one LMS account.
type Client struct {
	label   string
	baseURL string
	token   string
	http    *http.Client
	policy  httpx.Policy
	logger  *zap.Logger
}

// NewClient creates a client for the given account.
func NewClient(cfg Config, httpClient *http.Client, policy httpx.Policy, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = httpx.NewClient(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		label:   cfg.DisplayLabel(),
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/"),
		token:   cfg.APIToken,
		http:    httpClient,
		policy:  policy,
		logger:  logger.With(zap.String("account", cfg.DisplayLabel())),
	}
}

// Label returns the account label.
func (c *Client) Label() string {
	return c.label
}

// FetchAll walks a paginated listing and returns every item in page order.
// A failing page aborts the walk and nothing collected so far is returned.
func (c *Client) FetchAll(ctx context.Context, startURL string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	seen := make(map[string]struct{})

	for next := startURL; next != ""; {
		if _, dup := seen[next]; dup {
			return nil, fmt.Errorf("canvas: pagination loop at %s", next)
		}
		seen[next] = struct{}{}

		resp, err := httpx.Do(ctx, c.http, httpx.Get(next, c.token), c.policy)
		if err != nil {
			return nil, upstream(next, err)
		}

		var page []json.RawMessage
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("canvas: decode page %s: %w", next, err)
		}
		c.logger.Debug("Fetched page", zap.String("url", next), zap.Int("items", len(page)))

		items = append(items, page...)
		next = NextLink(resp.Header.Get("Link"))
	}

	return items, nil
}

// FetchDocument returns the raw body of a single resource.
func (c *Client) FetchDocument(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := httpx.Do(ctx, c.http, httpx.Get(rawURL, c.token), c.policy)
	if err != nil {
		return nil, upstream(rawURL, err)
	}
	return resp.Body, nil
}

// ListCourses lists every course visible to the token.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	return fetchAllInto[Course](ctx, c, c.endpoint("/api/v1/courses", nil))
}

// ListAssignments lists a course's assignments with the caller's submission embedded.
func (c *Client) ListAssignments(ctx context.Context, courseID ID) ([]Assignment, error) {
	q := url.Values{"include[]": []string{"submission"}}
	return fetchAllInto[Assignment](ctx, c, c.endpoint("/api/v1/courses/"+url.PathEscape(courseID.String())+"/assignments", q))
}

// ListModules lists a course's modules.
func (c *Client) ListModules(ctx context.Context, courseID ID) ([]Module, error) {
	return fetchAllInto[Module](ctx, c, c.endpoint("/api/v1/courses/"+url.PathEscape(courseID.String())+"/modules", nil))
}

// ListModuleItems lists the items of one module.
func (c *Client) ListModuleItems(ctx context.Context, courseID, moduleID ID) ([]ModuleItem, error) {
	path := "/api/v1/courses/" + url.PathEscape(courseID.String()) + "/modules/" + url.PathEscape(moduleID.String()) + "/items"
	return fetchAllInto[ModuleItem](ctx, c, c.endpoint(path, nil))
}

// NextLink extracts the rel="next" target from a Link header, or "".
func NextLink(header string) string {
	if header == "" {
		return ""
	}
	m := nextLinkPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}

func fetchAllInto[T any](ctx context.Context, c *Client, startURL string) ([]T, error) {
	raw, err := c.FetchAll(ctx, startURL)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("canvas: decode item %d of %s: %w", i, startURL, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("per_page", fmt.Sprintf("%d", pageSize))
	return c.baseURL + path + "?" + q.Encode()
}

func upstream(rawURL string, err error) error {
	ue := &UpstreamError{URL: rawURL, Err: err}
	var herr *httpx.StatusError
	if errors.As(err, &herr) {
		ue.StatusCode = herr.StatusCode
	}
	return ue
}
