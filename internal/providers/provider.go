package providers

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves a page and returns its parsed HTML document. Header
// values are sent in addition to the fetcher's defaults.
type Fetcher interface {
	Fetch(ctx context.Context, url string, header http.Header) (*goquery.Document, error)
}

// Provider queries one subtitle source.
type Provider interface {
	Name() string
	// Query returns the source's listing for the session. A source that
	// cannot run for this session (no fingerprint, series-only, ...) returns
	// NoMatch() and a nil error.
	Query(ctx context.Context, sess *Session) (Listing, error)
}

// Resolver is implemented by providers whose listing locators point at an
// intermediate page rather than the file itself.
type Resolver interface {
	Resolve(ctx context.Context, sess *Session, locator string) (string, error)
}

// Preflight is implemented by providers that validate session state before
// the search starts. Returning a *ConfigError aborts the whole search.
type Preflight interface {
	Preflight(sess *Session) error
}
