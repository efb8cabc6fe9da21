package content

import (
	"bytes"
	"context"
	"strings"

	"class-sync/core/utils"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// MaxSummaryLength caps the summary text in characters.
const MaxSummaryLength = 2000

// summaryClasses are the div classes whose text forms the summary.
var summaryClasses = []string{"content", "syllabus", "lecture-content"}

// Fetcher retrieves a raw document.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) ([]byte, error)
}

// Extractor reduces a document to plain text.
type Extractor interface {
	Extract(doc []byte) (string, error)
}

// Resolver turns a detail URL into a bounded plain-text summary.
type Resolver struct {
	fetcher   Fetcher
	extractor Extractor
	logger    *zap.Logger
}

// NewResolver creates a resolver. A nil extractor selects HTMLExtractor.
func NewResolver(fetcher Fetcher, extractor Extractor, logger *zap.Logger) *Resolver {
	if extractor == nil {
		extractor = HTMLExtractor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fetcher: fetcher, extractor: extractor, logger: logger}
}

// Summary returns the summary for url, or "" when there is none.
// Fetch and parse failures are logged at debug level and never returned.
func (r *Resolver) Summary(ctx context.Context, url string) string {
	if r == nil || r.fetcher == nil || strings.TrimSpace(url) == "" {
		return ""
	}

	doc, err := r.fetcher.FetchDocument(ctx, url)
	if err != nil {
		r.logger.Debug("Content fetch failed", zap.String("url", url), zap.Error(err))
		return ""
	}

	text, err := r.extractor.Extract(doc)
	if err != nil {
		r.logger.Debug("Content extraction failed", zap.String("url", url), zap.Error(err))
		return ""
	}
	return utils.Truncate(strings.TrimSpace(text), MaxSummaryLength)
}

// HTMLExtractor collects the text of div.content, div.syllabus and
// div.lecture-content elements in document order. Script and style bodies
// are ignored and nested matches are read once.
type HTMLExtractor struct{}

// Extract implements Extractor.
func (HTMLExtractor) Extract(doc []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return "", err
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasSummaryClass(n) {
			writeText(&out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.TrimSpace(out.String()), nil
}

func writeText(out *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		out.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(out, c)
	}
}

func hasSummaryClass(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			for _, want := range summaryClasses {
				if class == want {
					return true
				}
			}
		}
	}
	return false
}
