// Package acquisition populates a blank workspace with the binary engines
// and reference-data files the orchestrator needs: library JARs fetched
// directly, vendor bundles fetched through a scrape → license-form →
// ZIP-download flow, and reference CSVs unpacked alongside them.
package acquisition

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// HTTPError is a non-2xx response that is not worth retrying.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	URL        string
	Underlying error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v (URL: %s)", e.Underlying, e.URL)
}

// ParseError wraps an HTML-parsing failure.
type ParseError struct {
	URL        string
	Underlying error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v (URL: %s)", e.Underlying, e.URL)
}

// RetryError is returned once all retry attempts for a fetch are exhausted.
type RetryError struct {
	URL            string
	Attempts       int
	LastError      error
	LastStatusCode int
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("failed after %d attempts (last status: %d): %v (URL: %s)",
		e.Attempts, e.LastStatusCode, e.LastError, e.URL)
}

const (
	// DefaultTimeout bounds a single attempt, including body read.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the number of retry attempts after the first try.
	MaxRetries = 3

	// DefaultUserAgent identifies the acquirer to vendor download portals
	// that refuse bare Go HTTP clients.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ArtifactHTTPClient fetches vendor download pages, license-agreement
// forms, and ZIP bundles. It keeps a session cookie jar across requests so
// the license-acceptance POST lands in the same session as the page that
// served the form.
type ArtifactHTTPClient struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.SugaredLogger
}

// NewArtifactHTTPClient builds a client with connection pooling, a bounded
// redirect chain, and an in-memory cookie jar for session persistence.
func NewArtifactHTTPClient(logger *zap.SugaredLogger) *ArtifactHTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     32,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   DefaultTimeout,
		Jar:       newSimpleCookieJar(),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &ArtifactHTTPClient{httpClient: httpClient, userAgent: DefaultUserAgent, logger: logger}
}

// FetchAndParseHTML fetches urlStr and parses the response body as HTML,
// retrying transient failures with exponential backoff.
func (c *ArtifactHTTPClient) FetchAndParseHTML(ctx context.Context, urlStr string) (*goquery.Document, error) {
	body, _, err := c.fetch(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, &ParseError{URL: urlStr, Underlying: err}
	}
	return doc, nil
}

// FetchBytes fetches urlStr and returns the raw (decompressed) response
// body, used for direct-URL library JARs and vendor ZIP downloads.
func (c *ArtifactHTTPClient) FetchBytes(ctx context.Context, urlStr string) ([]byte, error) {
	body, _, err := c.fetch(ctx, urlStr)
	return body, err
}

// PostForm submits a POST with url-encoded form values — used for
// license-agreement acceptance — and returns the response body.
func (c *ArtifactHTTPClient) PostForm(ctx context.Context, urlStr string, values url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building form request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: urlStr, Message: strings.TrimSpace(string(body))}
	}
	return io.ReadAll(resp.Body)
}

func (c *ArtifactHTTPClient) fetch(ctx context.Context, urlStr string) ([]byte, int, error) {
	var lastErr error
	var lastStatusCode int

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			c.logger.Debugw("retrying fetch", "url", urlStr, "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, 0, fmt.Errorf("context cancelled during retry backoff: %w", ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Accept-Encoding", "gzip")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			lastStatusCode = 0
			if isTemporaryError(err) && attempt < MaxRetries {
				c.logger.Warnw("temporary error, will retry", "error", err, "attempt", attempt)
				continue
			}
			return nil, 0, &NetworkError{URL: urlStr, Underlying: err}
		}

		defer resp.Body.Close()
		lastStatusCode = resp.StatusCode

		if resp.StatusCode >= 400 {
			b, _ := io.ReadAll(resp.Body)
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(b))
			if resp.StatusCode >= 500 && attempt < MaxRetries {
				c.logger.Infow("server error, retrying", "status", resp.StatusCode, "attempt", attempt)
				continue
			}
			return nil, resp.StatusCode, &HTTPError{StatusCode: resp.StatusCode, URL: urlStr, Message: strings.TrimSpace(string(b))}
		}

		var reader io.Reader = resp.Body
		if resp.Header.Get("Content-Encoding") == "gzip" {
			gzr, err := gzip.NewReader(resp.Body)
			if err != nil {
				return nil, 0, &ParseError{URL: urlStr, Underlying: fmt.Errorf("creating gzip reader: %w", err)}
			}
			defer gzr.Close()
			reader = gzr
		}

		b, err := io.ReadAll(reader)
		if err != nil {
			lastErr = err
			if attempt < MaxRetries {
				continue
			}
			return nil, 0, &NetworkError{URL: urlStr, Underlying: err}
		}

		return b, resp.StatusCode, nil
	}

	return nil, 0, &RetryError{URL: urlStr, Attempts: MaxRetries + 1, LastError: lastErr, LastStatusCode: lastStatusCode}
}

func isTemporaryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "context") {
		return false
	}
	for _, marker := range []string{"timeout", "connection refused", "temporary", "EOF"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Close releases pooled idle connections.
func (c *ArtifactHTTPClient) Close() error {
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}

type simpleCookieJar struct {
	cookies map[string][]*http.Cookie
}

func newSimpleCookieJar() *simpleCookieJar {
	return &simpleCookieJar{cookies: make(map[string][]*http.Cookie)}
}

func (j *simpleCookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.cookies[u.Host] = cookies
}

func (j *simpleCookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.cookies[u.Host]
}
