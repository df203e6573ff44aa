package opensubtitles

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"subsearch/internal/logging"
	"subsearch/internal/providers"
)

// TitleName identifies the title search in configuration and logs.
const TitleName = "opensubtitles"

// TitleProvider searches by release title, narrowed to movies or to the
// episode's season and number.
type TitleProvider struct {
	fetcher providers.Fetcher
	logger  *slog.Logger
}

// NewTitleProvider returns a title search provider.
func NewTitleProvider(fetcher providers.Fetcher, logger *slog.Logger) *TitleProvider {
	return &TitleProvider{
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "provider").With(logging.Provider(TitleName)),
	}
}

// TitleFactory adapts NewTitleProvider for the provider registry.
func TitleFactory(deps providers.Deps) providers.Provider {
	return NewTitleProvider(deps.Fetcher, deps.Logger)
}

func (p *TitleProvider) Name() string { return TitleName }

func (p *TitleProvider) Query(ctx context.Context, sess *providers.Session) (providers.Listing, error) {
	endpoints := sess.Endpoints()
	searchURL := endpoints.OpenSubtitles + "/en/search/" + languageSegment(sess) + "/" + titlePath(sess)
	doc, err := p.fetcher.Fetch(ctx, searchURL, nil)
	if err != nil {
		return providers.Listing{}, fmt.Errorf("opensubtitles title search: %w", err)
	}
	listing := parseResults(doc, endpoints.OpenSubtitlesDownload)
	p.logger.Debug("title search parsed", logging.String("url", searchURL), logging.Int("entries", listing.Len()))
	return listing, nil
}

func titlePath(sess *providers.Session) string {
	rel := sess.Release()
	title := url.PathEscape(strings.ToLower(strings.TrimSpace(rel.Title)))
	if rel.Series {
		return fmt.Sprintf("searchonlytvseries-on/season-%d/episode-%d/moviename-%s", rel.Season, rel.Episode, title)
	}
	query := strings.ToLower(strings.TrimSpace(rel.SearchQuery()))
	return "searchonlymovies-on/moviename-" + url.PathEscape(query)
}
