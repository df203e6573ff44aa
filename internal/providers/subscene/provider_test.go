package subscene

import (
	"context"
	"strings"
	"testing"
	"time"

	"subsearch/internal/providers"
	"subsearch/internal/release"
	"subsearch/internal/scrape"
	"subsearch/internal/testsupport"
)

const searchPage = `<html><body>
<div class="search-result">
  <h2 class="exact">Exact</h2>
  <ul>
    <li><div class="title"><a href="/subtitles/movie-1999">Movie (1999)</a></div></li>
    <li><div class="title"><a href="/subtitles/movie-2020">Movie (2020)</a></div></li>
    <li><div class="title"><a href="/subtitles/show-second-season">Show - Second Season</a></div></li>
  </ul>
</div>
</body></html>`

const moviePage = `<html><body><table><tbody>
<tr><td class="a1"><a href="/subtitles/movie-2020/english/111">
  <span class="l r positive-icon">English</span>
  <span>Movie.2020.1080p.BluRay.x264-GROUP</span>
</a></td></tr>
<tr><td class="a1"><a href="/subtitles/movie-2020/english/222">
  <span class="l r neutral-icon">English</span>
  <span>Movie.2020.CAM</span>
</a></td></tr>
<tr><td class="a1"><a href="/subtitles/movie-2020/english/333">
  <span class="l r positive-icon">English</span>
  <span>Movie.2020.1080p.BluRay.x264-GROUP</span>
</a></td></tr>
</tbody></table></body></html>`

const showPage = `<html><body><table><tbody>
<tr><td class="a1"><a href="/subtitles/show-second-season/english/1"><span>English</span><span>Show.S02E03.720p.HDTV-GRP</span></a></td></tr>
<tr><td class="a1"><a href="/subtitles/show-second-season/english/2"><span>English</span><span>Show.S02E04.720p.HDTV-GRP</span></a></td></tr>
</tbody></table></body></html>`

func newTestProvider() *Provider {
	return New(scrape.NewHTTPFetcher(scrape.Config{Attempts: 1, Timeout: 5 * time.Second}), nil)
}

func newSession(site *testsupport.Site, rel release.Descriptor, prefs providers.Preferences) *providers.Session {
	endpoints := providers.Endpoints{Subscene: site.URL}
	return providers.NewSession(rel, prefs, endpoints, "")
}

func movieRelease() release.Descriptor {
	return release.Descriptor{Title: "Movie", Year: 2020, Name: "Movie.2020.1080p.BluRay.x264-GROUP"}
}

func TestQueryListsTitlePage(t *testing.T) {
	site := testsupport.NewSite(t)
	site.Page("/subtitles/searchbytitle?query=Movie", searchPage)
	site.Page("/subtitles/movie-2020", moviePage)

	prefs := providers.Preferences{Language: "en", HearingImpaired: true, NonHearingImpaired: true}
	listing, err := newTestProvider().Query(context.Background(), newSession(site, movieRelease(), prefs))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if listing.Absent() {
		t.Fatal("expected present listing")
	}
	entries := listing.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 distinct names, got %+v", entries)
	}
	if entries[0].Name != "Movie.2020.1080p.BluRay.x264-GROUP" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[0].Locator != site.URL+"/subtitles/movie-2020/english/333" {
		t.Fatalf("duplicate name should keep last locator, got %q", entries[0].Locator)
	}

	wantCookie := "DarkTheme=False; SortSubtitlesByDate=false; LanguageFilter=13; HearingImpaired=0; ForeignOnly=False"
	for _, req := range site.Requests() {
		if req.Cookie != wantCookie {
			t.Fatalf("request %s sent cookie %q", req.Path, req.Cookie)
		}
	}
}

func TestQueryFiltersEpisodeRows(t *testing.T) {
	site := testsupport.NewSite(t)
	site.Page("/subtitles/searchbytitle?query=Show", searchPage)
	site.Page("/subtitles/show-second-season", showPage)

	rel := release.Descriptor{Title: "Show", Series: true, Season: 2, Episode: 3, SeasonOrdinal: "S02", EpisodeOrdinal: "E03"}
	prefs := providers.Preferences{Language: "en", HearingImpaired: true}
	listing, err := newTestProvider().Query(context.Background(), newSession(site, rel, prefs))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	entries := listing.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Name, "S02E03") {
		t.Fatalf("expected only the S02E03 row, got %+v", entries)
	}
	if cookie := site.Requests()[0].Cookie; !strings.Contains(cookie, "HearingImpaired=1") {
		t.Fatalf("expected HI-only filter, got %q", cookie)
	}
}

func TestQueryWithoutTitleMatchIsNoMatch(t *testing.T) {
	site := testsupport.NewSite(t)
	site.Page("/subtitles/searchbytitle?query=Other", searchPage)

	rel := release.Descriptor{Title: "Other", Year: 2001}
	prefs := providers.Preferences{Language: "en", HearingImpaired: true, NonHearingImpaired: true}
	listing, err := newTestProvider().Query(context.Background(), newSession(site, rel, prefs))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !listing.Absent() {
		t.Fatal("expected NoMatch")
	}
}

func TestQueryFetchErrorIsReturned(t *testing.T) {
	site := testsupport.NewSite(t)
	prefs := providers.Preferences{Language: "en", HearingImpaired: true, NonHearingImpaired: true}
	_, err := newTestProvider().Query(context.Background(), newSession(site, movieRelease(), prefs))
	if err == nil {
		t.Fatal("expected error for missing search page")
	}
	if providers.IsConfigError(err) {
		t.Fatal("transport failure must not be a ConfigError")
	}
}

func TestResolveFollowsDownloadButton(t *testing.T) {
	site := testsupport.NewSite(t)
	site.Page("/subtitles/movie-2020/english/111", `<div class="download"><a id="downloadButton" href="/subtitles/english-text/abc123">Download</a></div>`)
	site.Page("/subtitles/movie-2020/english/222", `<div>removed</div>`)

	prefs := providers.Preferences{Language: "en", HearingImpaired: true, NonHearingImpaired: true}
	sess := newSession(site, movieRelease(), prefs)
	p := newTestProvider()

	got, err := p.Resolve(context.Background(), sess, site.URL+"/subtitles/movie-2020/english/111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != site.URL+"/subtitles/english-text/abc123" {
		t.Fatalf("Resolve = %q", got)
	}
	if _, err := p.Resolve(context.Background(), sess, site.URL+"/subtitles/movie-2020/english/222"); err == nil {
		t.Fatal("expected error when download button is missing")
	}
}

func TestPreflightRejectsImpossibleFilter(t *testing.T) {
	site := testsupport.NewSite(t)
	sess := newSession(site, movieRelease(), providers.Preferences{Language: "en"})
	p := newTestProvider()
	if err := p.Preflight(sess); !providers.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if _, err := p.Query(context.Background(), sess); !providers.IsConfigError(err) {
		t.Fatalf("expected Query to surface ConfigError, got %v", err)
	}
	if len(site.Requests()) != 0 {
		t.Fatal("no request should be sent with an invalid token")
	}
}
