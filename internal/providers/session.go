package providers

import (
	"strings"

	"subsearch/internal/language"
	"subsearch/internal/release"
)

// Preferences carries the user's subtitle filters for one search.
type Preferences struct {
	Language           string
	HearingImpaired    bool
	NonHearingImpaired bool
	ForeignOnly        bool
	Threshold          int
	ManualFallback     bool
}

// Endpoints holds provider base URLs. Tests point these at local servers.
type Endpoints struct {
	Subscene              string
	OpenSubtitles         string
	OpenSubtitlesHash     string
	OpenSubtitlesDownload string
	YifySubtitles         string
	IMDb                  string
}

// DefaultEndpoints returns the public provider hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Subscene:              "https://subscene.com",
		OpenSubtitles:         "https://www.opensubtitles.org",
		OpenSubtitlesHash:     "https://www.opensubtitles.org",
		OpenSubtitlesDownload: "https://dl.opensubtitles.org",
		YifySubtitles:         "https://yifysubtitles.org",
		IMDb:                  "https://www.imdb.com",
	}
}

// Session is the read-only context of a single search. It is shared by
// pointer across provider goroutines and exposes no mutators.
type Session struct {
	release     release.Descriptor
	prefs       Preferences
	endpoints   Endpoints
	fingerprint string
	target      string
}

// NewSession snapshots the inputs of a search.
func NewSession(rel release.Descriptor, prefs Preferences, endpoints Endpoints, fingerprint string) *Session {
	prefs.Language = strings.TrimSpace(prefs.Language)
	return &Session{
		release:     rel,
		prefs:       prefs,
		endpoints:   endpoints,
		fingerprint: strings.ToLower(strings.TrimSpace(fingerprint)),
		target:      rel.Target(),
	}
}

func (s *Session) Release() release.Descriptor { return s.release }

func (s *Session) Preferences() Preferences { return s.prefs }

func (s *Session) Endpoints() Endpoints { return s.endpoints }

// Fingerprint returns the caller-supplied video hash, or "" when none was given.
func (s *Session) Fingerprint() string { return s.fingerprint }

// Target is the string every candidate name is scored against.
func (s *Session) Target() string { return s.target }

// Language returns the configured language as written by the user.
func (s *Session) Language() string { return s.prefs.Language }

// LanguageCode returns the ISO 639-1 form of the configured language.
func (s *Session) LanguageCode() string {
	return language.ToISO2(s.prefs.Language)
}

// Threshold returns the acceptance score.
func (s *Session) Threshold() int { return s.prefs.Threshold }
