// Package imdb resolves a release title and year to an IMDb title id using
// the advanced title search page.
package imdb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"subsearch/internal/providers"
)

// ErrNotFound is returned when no search result matches title and year.
var ErrNotFound = errors.New("imdb: no matching title")

var (
	idPattern   = regexp.MustCompile(`tt[0-9]+`)
	yearPattern = regexp.MustCompile(`[0-9]{4}`)
)

// SearchURL builds the advanced search URL covering releases from the start
// of the previous year to the end of year.
func SearchURL(base, title string, year int) string {
	query := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "+")
	return fmt.Sprintf("%s/search/title/?title=%s&release_date=%d-01-01,%d-12-31", base, query, year-1, year)
}

// FindID returns the id ("tt1234567") of the first result whose title
// equals title (case-insensitive) and whose year is year or year-1.
func FindID(ctx context.Context, fetcher providers.Fetcher, base, title string, year int) (string, error) {
	if strings.TrimSpace(title) == "" || year <= 0 {
		return "", ErrNotFound
	}
	doc, err := fetcher.Fetch(ctx, SearchURL(base, title, year), nil)
	if err != nil {
		return "", fmt.Errorf("imdb search: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(title))
	var id string
	doc.Find("div.lister-item-content").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		header := item.Find("h3.lister-item-header").First()
		link := header.Find("a").First()
		if strings.ToLower(strings.TrimSpace(link.Text())) != want {
			return true
		}
		found := yearPattern.FindString(header.Find("span.lister-item-year").First().Text())
		y, err := strconv.Atoi(found)
		if err != nil || (y != year && y != year-1) {
			return true
		}
		href, _ := link.Attr("href")
		if match := idPattern.FindString(href); match != "" {
			id = match
			return false
		}
		return true
	})
	if id == "" {
		return "", ErrNotFound
	}
	return id, nil
}
