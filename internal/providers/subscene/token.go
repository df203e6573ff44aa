// Package subscene queries subscene.com. The site filters listings
// server-side from a cookie, so every request carries the session Token.
package subscene

import (
	"net/http"
	"strconv"
	"strings"

	"subsearch/internal/providers"
)

// Hearing-impaired filter values understood by the site.
const (
	HearingImpairedAny  = 0
	HearingImpairedOnly = 1
	HearingImpairedNone = 2
)

// Token is the server-side filter state sent with every request.
type Token struct {
	LanguageFilter  string
	HearingImpaired int
	ForeignOnly     bool
	DarkTheme       bool
	SortByDate      bool
}

// BuildToken derives the filter token from the user's preferences. It fails
// with a *providers.ConfigError when neither hearing-impaired nor regular
// subtitles are allowed, or when the language has no filter id.
func BuildToken(prefs providers.Preferences, languageID string) (Token, error) {
	var hi int
	switch {
	case prefs.HearingImpaired && prefs.NonHearingImpaired:
		hi = HearingImpairedAny
	case prefs.HearingImpaired:
		hi = HearingImpairedOnly
	case prefs.NonHearingImpaired:
		hi = HearingImpairedNone
	default:
		return Token{}, providers.NewConfigError("search.hearing_impaired", "at least one of hearing_impaired or non_hearing_impaired must be true")
	}
	languageID = strings.TrimSpace(languageID)
	if languageID == "" {
		return Token{}, providers.NewConfigError("search.language", "subscene has no language filter for %q", prefs.Language)
	}
	return Token{
		LanguageFilter:  languageID,
		HearingImpaired: hi,
		ForeignOnly:     prefs.ForeignOnly,
	}, nil
}

// Cookie renders the token in the site's cookie syntax.
func (t Token) Cookie() string {
	parts := []string{
		"DarkTheme=" + capitalBool(t.DarkTheme),
		"SortSubtitlesByDate=" + lowerBool(t.SortByDate),
		"LanguageFilter=" + t.LanguageFilter,
		"HearingImpaired=" + strconv.Itoa(t.HearingImpaired),
		"ForeignOnly=" + capitalBool(t.ForeignOnly),
	}
	return strings.Join(parts, "; ")
}

// Header returns a fresh header carrying the token cookie.
func (t Token) Header() http.Header {
	header := make(http.Header, 1)
	header.Set("Cookie", t.Cookie())
	return header
}

// The site parses DarkTheme and ForeignOnly as "True"/"False" but
// SortSubtitlesByDate as lowercase.
func capitalBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func lowerBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
