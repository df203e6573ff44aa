package opensubtitles

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"subsearch/internal/logging"
	"subsearch/internal/providers"
)

// HashName identifies the fingerprint lookup in configuration and logs.
const HashName = "opensubtitles_hash"

// HashProvider finds subtitles uploaded for the exact video file.
type HashProvider struct {
	fetcher providers.Fetcher
	logger  *slog.Logger
}

// NewHashProvider returns a fingerprint lookup provider.
func NewHashProvider(fetcher providers.Fetcher, logger *slog.Logger) *HashProvider {
	return &HashProvider{
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "provider").With(logging.Provider(HashName)),
	}
}

// HashFactory adapts NewHashProvider for the provider registry.
func HashFactory(deps providers.Deps) providers.Provider {
	return NewHashProvider(deps.Fetcher, deps.Logger)
}

func (p *HashProvider) Name() string { return HashName }

// Query looks up the session fingerprint. A missing fingerprint or an empty
// result table yields NoMatch.
func (p *HashProvider) Query(ctx context.Context, sess *providers.Session) (providers.Listing, error) {
	hash := sess.Fingerprint()
	if hash == "" {
		p.logger.Info("no video fingerprint supplied; skipping hash lookup")
		return providers.NoMatch(), nil
	}
	endpoints := sess.Endpoints()
	searchURL := fmt.Sprintf("%s/en/search/%s/moviehash-%s", endpoints.OpenSubtitlesHash, languageSegment(sess), url.PathEscape(hash))
	doc, err := p.fetcher.Fetch(ctx, searchURL, nil)
	if err != nil {
		return providers.Listing{}, fmt.Errorf("opensubtitles hash search: %w", err)
	}
	listing := parseResults(doc, endpoints.OpenSubtitlesDownload)
	if listing.Len() == 0 {
		kind := "movies"
		if sess.Release().Series {
			kind = "episodes"
		}
		p.logger.Info("no "+kind+" found matching fingerprint", logging.String("fingerprint", hash))
		return providers.NoMatch(), nil
	}
	return listing, nil
}
