package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"
)

const (
	// fetchMaxBodySize caps fetched page bodies (10MB)
	fetchMaxBodySize = 10 * 1024 * 1024
	fetchTimeout     = 30 * time.Second

	// browserUserAgent is sent on outbound page fetches. Recipe sites
	// commonly reject obvious non-browser agents.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var urlPattern = regexp.MustCompile(`(?i)^https?://\S+$`)

// Resolved is the outcome of classifying a user query.
type Resolved struct {
	// Content is the text to hand to the completion provider.
	Content string
	// BypassAI is true when the query was already valid JSON and no
	// provider call is needed.
	BypassAI bool
	// ParsedJSON holds the decoded value when BypassAI is true.
	ParsedJSON interface{}
	// FetchedURL is set when Content came from an outbound page fetch.
	FetchedURL string
}

// ContentResolver decides whether a query is literal text, an
// already-structured JSON payload, or a URL to fetch.
type ContentResolver struct {
	client    *http.Client
	userAgent string
	htmlToMD  bool
	logger    *zap.Logger
}

// NewContentResolver creates a resolver. When htmlToMD is true, fetched HTML
// pages are converted to Markdown before being handed to the provider.
func NewContentResolver(htmlToMD bool, logger *zap.Logger) *ContentResolver {
	return &ContentResolver{
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: browserUserAgent,
		htmlToMD:  htmlToMD,
		logger:    logger,
	}
}

// Resolve classifies query and produces the content to analyze.
//
// A query that strictly decodes as JSON bypasses the provider entirely.
// A full-string http(s) URL is fetched with a browser-like request profile.
// Anything else is passed through verbatim.
func (r *ContentResolver) Resolve(ctx context.Context, query string) (*Resolved, error) {
	if query == "" {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(query)

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var parsed interface{}
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return &Resolved{Content: trimmed, BypassAI: true, ParsedJSON: parsed}, nil
		}
		// A leading brace is not proof of validity; treat as prose.
	}

	if urlPattern.MatchString(trimmed) {
		body, err := r.fetch(ctx, trimmed)
		if err != nil {
			return nil, err
		}
		return &Resolved{Content: body, FetchedURL: trimmed}, nil
	}

	return &Resolved{Content: query}, nil
}

// fetch retrieves the page at rawURL, posing as a regular browser session.
func (r *ContentResolver) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &UpstreamFetchError{URL: rawURL, Details: err.Error()}
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	if origin := originOf(rawURL); origin != "" {
		req.Header.Set("Referer", origin)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &UpstreamFetchError{URL: rawURL, Details: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamFetchError{URL: rawURL, Status: resp.StatusCode, Details: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetchMaxBodySize))
	if err != nil {
		return "", &UpstreamFetchError{URL: rawURL, Details: err.Error()}
	}

	r.logger.Info("fetched URL content",
		zap.String("url", rawURL),
		zap.Int("bytes", len(body)))

	text := string(body)
	if r.htmlToMD && strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		if md, convErr := htmltomarkdown.ConvertString(text); convErr == nil {
			text = md
		} else {
			r.logger.Warn("html to markdown conversion failed, using raw body",
				zap.String("url", rawURL), zap.Error(convErr))
		}
	}

	return text, nil
}

// originOf derives a referer from the URL's scheme and host.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}
