package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"class-sync/core/destination"
	"class-sync/core/httpx"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
)

// DefaultBaseURL is the root the API client talks to.
const DefaultBaseURL = "https://api.notion.com"

// maxPages bounds a single query walk.
const maxPages = 1000

// Client is a destination.Store backed by Notion databases.
// Collections are database ids and records are pages.
type Client struct {
	api    *notionapi.Client
	logger *zap.Logger
}

var _ destination.Store = (*Client)(nil)

// NewClient creates a Notion store. attempts bounds the sends of a request
// the API rejected with 429; other failures are returned at once.
func NewClient(cfg Config, httpClient *http.Client, attempts int, logger *zap.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = httpx.NewClient(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hc, err := rebased(httpClient, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	opts := []notionapi.ClientOption{
		notionapi.WithHTTPClient(hc),
		notionapi.WithRetry(max(attempts, 1)),
	}
	if v := strings.TrimSpace(cfg.Version); v != "" {
		opts = append(opts, notionapi.WithVersion(v))
	}

	return &Client{
		api:    notionapi.NewClient(notionapi.Token(cfg.APIToken), opts...),
		logger: logger,
	}, nil
}

// Query returns every page of a database matching filter, following cursors.
func (c *Client) Query(ctx context.Context, databaseID string, filter destination.Filter) ([]destination.Page, error) {
	req := &notionapi.DatabaseQueryRequest{}
	if f := encodeFilter(filter); f != nil {
		req.Filter = f
	}

	var pages []destination.Page
	for i := 0; i < maxPages; i++ {
		resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
		if err != nil {
			return nil, &destination.StoreError{Op: "query", Collection: databaseID, Err: err}
		}
		for _, p := range resp.Results {
			pages = append(pages, destination.Page{ID: p.ID.String(), Properties: decodeProperties(p.Properties)})
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = resp.NextCursor
	}
	return nil, &destination.StoreError{Op: "query", Collection: databaseID, Err: fmt.Errorf("more than %d result pages", maxPages)}
}

// Create adds a page to a database and returns its id.
func (c *Client) Create(ctx context.Context, databaseID string, props destination.Properties) (string, error) {
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: encodeProperties(props),
	})
	if err != nil {
		return "", &destination.StoreError{Op: "create", Collection: databaseID, Err: err}
	}
	c.logger.Debug("Created page", zap.String("database_id", databaseID), zap.String("page_id", page.ID.String()))
	return page.ID.String(), nil
}

// Update patches the given properties of a page.
func (c *Client) Update(ctx context.Context, pageID string, props destination.Properties) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: encodeProperties(props),
	})
	if err != nil {
		return &destination.StoreError{Op: "update", Err: fmt.Errorf("page %s: %w", pageID, err)}
	}
	return nil
}

// rebased returns a copy of hc whose requests go to base instead of the
// public API root. The default root returns hc unchanged.
func rebased(hc *http.Client, base string) (*http.Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" || base == DefaultBaseURL {
		return hc, nil
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("notion: invalid base url %q", base)
	}

	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	cp := *hc
	cp.Transport = &rebaseTransport{base: u, next: next}
	return &cp, nil
}

type rebaseTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *rebaseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.base.Scheme
	out.URL.Host = t.base.Host
	out.URL.Path = strings.TrimRight(t.base.Path, "/") + req.URL.Path
	out.URL.RawPath = ""
	out.Host = t.base.Host
	return t.next.RoundTrip(out)
}
