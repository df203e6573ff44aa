// Package yifysubtitles lists movie subtitles from yifysubtitles by IMDb id.
package yifysubtitles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"subsearch/internal/imdb"
	"subsearch/internal/language"
	"subsearch/internal/logging"
	"subsearch/internal/providers"
)

// Name identifies the provider in configuration and logs.
const Name = "yifysubtitles"

// Provider queries the movie page for the release's IMDb id.
type Provider struct {
	fetcher providers.Fetcher
	logger  *slog.Logger
}

// New returns a YIFY provider.
func New(fetcher providers.Fetcher, logger *slog.Logger) *Provider {
	return &Provider{
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "provider").With(logging.Provider(Name)),
	}
}

// Factory adapts New for the provider registry.
func Factory(deps providers.Deps) providers.Provider {
	return New(deps.Fetcher, deps.Logger)
}

func (p *Provider) Name() string { return Name }

// Query lists subtitles in the session language. Series and titles without
// an IMDb match yield NoMatch.
func (p *Provider) Query(ctx context.Context, sess *providers.Session) (providers.Listing, error) {
	rel := sess.Release()
	if rel.Series {
		p.logger.Debug("series release; provider only lists movies")
		return providers.NoMatch(), nil
	}
	endpoints := sess.Endpoints()
	id, err := imdb.FindID(ctx, p.fetcher, endpoints.IMDb, rel.Title, rel.Year)
	if errors.Is(err, imdb.ErrNotFound) {
		p.logger.Info("no imdb id for release", logging.String("title", rel.Title), logging.Int("year", rel.Year))
		return providers.NoMatch(), nil
	}
	if err != nil {
		return providers.Listing{}, fmt.Errorf("yifysubtitles: %w", err)
	}

	doc, err := p.fetcher.Fetch(ctx, endpoints.YifySubtitles+"/movie-imdb/"+id, nil)
	if err != nil {
		return providers.Listing{}, fmt.Errorf("yifysubtitles movie page: %w", err)
	}
	want := language.DisplayName(sess.Language())
	listing := providers.NewListing()
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if !strings.EqualFold(strings.TrimSpace(row.Find("span.sub-lang").First().Text()), want) {
			return
		}
		link := row.Find(`a[href^="/subtitles/"]`).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(link.Text())
		name = strings.TrimSpace(strings.TrimPrefix(name, "subtitle"))
		if name == "" {
			return
		}
		slug := path.Base(strings.TrimRight(href, "/"))
		listing.Add(name, fmt.Sprintf("%s/subtitle/%s.zip", endpoints.YifySubtitles, slug))
	})
	p.logger.Debug("movie page parsed", logging.String("imdb_id", id), logging.Int("entries", listing.Len()))
	return listing, nil
}
