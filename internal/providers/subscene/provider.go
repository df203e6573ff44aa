package subscene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"subsearch/internal/language"
	"subsearch/internal/logging"
	"subsearch/internal/providers"
	"subsearch/internal/release"
)

// Name identifies the provider in configuration and logs.
const Name = "subscene"

var errNoDownloadButton = errors.New("subscene: download button not found")

// Provider lists subtitles from subscene title pages.
type Provider struct {
	fetcher providers.Fetcher
	logger  *slog.Logger
}

// New returns a subscene provider using fetcher for every request.
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

// Preflight builds the session token so configuration mistakes abort the
// search before any provider runs.
func (p *Provider) Preflight(sess *providers.Session) error {
	_, err := tokenFor(sess)
	return err
}

func tokenFor(sess *providers.Session) (Token, error) {
	id, _ := language.SubsceneID(sess.Language())
	return BuildToken(sess.Preferences(), id)
}

// Query finds the release's title page and lists its subtitles.
func (p *Provider) Query(ctx context.Context, sess *providers.Session) (providers.Listing, error) {
	token, err := tokenFor(sess)
	if err != nil {
		return providers.Listing{}, err
	}
	header := token.Header()
	base := sess.Endpoints().Subscene
	rel := sess.Release()

	searchURL := base + "/subtitles/searchbytitle?query=" + url.QueryEscape(rel.Title)
	doc, err := p.fetcher.Fetch(ctx, searchURL, header)
	if err != nil {
		return providers.Listing{}, fmt.Errorf("subscene search: %w", err)
	}

	want := strings.ToLower(titleKey(rel))
	var titleHref string
	doc.Find("div.search-result div.title a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.ToLower(strings.TrimSpace(sel.Text())) != want {
			return true
		}
		titleHref, _ = sel.Attr("href")
		return false
	})
	if titleHref == "" {
		p.logger.Info("no title match", logging.String("title_key", titleKey(rel)))
		return providers.NoMatch(), nil
	}

	titleURL, err := absoluteURL(base, titleHref)
	if err != nil {
		return providers.Listing{}, fmt.Errorf("subscene title link: %w", err)
	}
	page, err := p.fetcher.Fetch(ctx, titleURL, header)
	if err != nil {
		return providers.Listing{}, fmt.Errorf("subscene title page: %w", err)
	}

	episode := ""
	if rel.Series && rel.Episode > 0 {
		episode = strings.ToLower(rel.SeasonOrdinal + rel.EpisodeOrdinal)
	}
	listing := providers.NewListing()
	page.Find("td.a1 a").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Find("span").Eq(1).Text())
		href, ok := sel.Attr("href")
		if name == "" || !ok {
			return
		}
		if episode != "" && !strings.Contains(strings.ToLower(name), episode) {
			return
		}
		locator, err := absoluteURL(base, href)
		if err != nil {
			return
		}
		listing.Add(name, locator)
	})
	p.logger.Debug("title page parsed",
		logging.String("title_url", titleURL),
		logging.Int("entries", listing.Len()),
	)
	return listing, nil
}

// Resolve follows a subtitle page to its archive download link.
func (p *Provider) Resolve(ctx context.Context, sess *providers.Session, locator string) (string, error) {
	token, err := tokenFor(sess)
	if err != nil {
		return "", err
	}
	doc, err := p.fetcher.Fetch(ctx, locator, token.Header())
	if err != nil {
		return "", fmt.Errorf("subscene subtitle page: %w", err)
	}
	href, ok := doc.Find("#downloadButton").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", errNoDownloadButton
	}
	return absoluteURL(sess.Endpoints().Subscene, href)
}

// titleKey is the link text the search page shows for the release:
// "Title (2020)" for movies, "Title - Second Season" for series.
func titleKey(rel release.Descriptor) string {
	if rel.Series {
		return fmt.Sprintf("%s - %s Season", rel.Title, seasonWord(rel.Season))
	}
	if rel.Year > 0 {
		return fmt.Sprintf("%s (%d)", rel.Title, rel.Year)
	}
	return rel.Title
}

func absoluteURL(base, href string) (string, error) {
	baseURL, err := url.Parse(base + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}
