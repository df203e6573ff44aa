package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"

	"subsearch/internal/logging"
)

const (
	defaultUserAgent      = "subsearch/dev"
	defaultHTTPTimeout    = 30 * time.Second
	defaultAttempts       = 3
	defaultInitialBackoff = 500 * time.Millisecond
	maxBackoff            = 10 * time.Second
	maxBodyBytes          = 8 << 20
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Config describes the HTTP fetcher.
type Config struct {
	UserAgent      string
	Timeout        time.Duration
	Attempts       uint
	InitialBackoff time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// HTTPFetcher implements providers.Fetcher over net/http.
type HTTPFetcher struct {
	userAgent string
	attempts  uint
	backoff   time.Duration
	http      *http.Client
	logger    *slog.Logger
}

// NewHTTPFetcher creates a fetcher from cfg, filling defaults.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	backoff := cfg.InitialBackoff
	if backoff <= 0 {
		backoff = defaultInitialBackoff
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HTTPFetcher{
		userAgent: userAgent,
		attempts:  attempts,
		backoff:   backoff,
		http:      client,
		logger:    logging.NewComponentLogger(logger, "scrape"),
	}
}

// Fetch performs a GET with header merged over the defaults and parses the
// response body as HTML.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, header http.Header) (*goquery.Document, error) {
	doc, err := retry.DoWithData(
		func() (*goquery.Document, error) {
			return f.fetchOnce(ctx, url, header)
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.backoff),
		retry.MaxDelay(maxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsRetriable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Debug("retrying fetch",
				logging.String("url", url),
				logging.Int("attempt", int(n)+1),
				logging.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return doc, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string, header http.Header) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, values := range header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if doc.Url == nil {
		doc.Url = resp.Request.URL
	}
	return doc, nil
}
