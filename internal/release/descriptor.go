// Package release turns release filenames into the metadata the subtitle
// providers search with and the scorer compares against.
package release

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	ptn "github.com/razsteinmetz/go-ptn"
)

// DefaultVideoExtensions lists container suffixes stripped before parsing.
var DefaultVideoExtensions = []string{".avi", ".mp4", ".mkv", ".mpg", ".mpeg", ".mov", ".rm", ".vob", ".wmv", ".flv", ".3gp", ".3g2", ".swf", ".mswmm", ".m4v", ".ts"}

var (
	episodeMarkerRe = regexp.MustCompile(`(?i)(?:^|[.\s_-])s(\d{1,2})e(\d{1,3})(?:[.\s_-]|$)`)
	seasonMarkerRe  = regexp.MustCompile(`(?i)(?:^|[.\s_-])s(\d{1,2})(?:[.\s_-]|$)`)
	yearMarkerRe    = regexp.MustCompile(`(?:^|[.\s_(\[-])((?:19|20)\d{2})(?:[.\s_)\]-]|$)`)
	groupRe         = regexp.MustCompile(`-([A-Za-z0-9]+)$`)
	separatorsRe    = regexp.MustCompile(`[.\s_]+`)
)

// Descriptor is the parsed form of one release name.
type Descriptor struct {
	Title          string
	Year           int
	Season         int
	Episode        int
	SeasonOrdinal  string
	EpisodeOrdinal string
	Series         bool
	// Name is the full release name without directory or container extension.
	Name string
	// Tag is everything after the title/year/episode prefix, e.g. "1080p.BluRay.x264-GROUP".
	Tag        string
	Group      string
	Resolution string
	Source     string
}

// Parse extracts a Descriptor from a filename or path. Extensions listed in
// videoExts (DefaultVideoExtensions when empty) are stripped first.
func Parse(path string, videoExts ...string) Descriptor {
	name := stripExtension(filepath.Base(strings.TrimSpace(path)), videoExts)
	desc := Descriptor{Name: name}
	if name == "" || name == "." {
		desc.Name = ""
		return desc
	}

	if info, err := ptn.Parse(name); err == nil && info != nil {
		desc.Title = strings.TrimSpace(info.Title)
		desc.Year = info.Year
		desc.Season = info.Season
		desc.Episode = info.Episode
		desc.Group = strings.TrimSpace(info.Group)
		desc.Resolution = strings.TrimSpace(info.Resolution)
		desc.Source = strings.TrimSpace(info.Quality)
	}

	markerEnd := -1
	if m := episodeMarkerRe.FindStringSubmatchIndex(name); m != nil {
		if desc.Season == 0 {
			desc.Season, _ = strconv.Atoi(name[m[2]:m[3]])
		}
		if desc.Episode == 0 {
			desc.Episode, _ = strconv.Atoi(name[m[4]:m[5]])
		}
		markerEnd = m[5]
		if desc.Title == "" {
			desc.Title = humanize(name[:m[0]])
		}
	} else if m := seasonMarkerRe.FindStringSubmatchIndex(name); m != nil {
		if desc.Season == 0 {
			desc.Season, _ = strconv.Atoi(name[m[2]:m[3]])
		}
		markerEnd = m[3]
		if desc.Title == "" {
			desc.Title = humanize(name[:m[0]])
		}
	}
	if m := lastYearMarker(name); m != nil {
		if desc.Year == 0 {
			desc.Year, _ = strconv.Atoi(name[m[2]:m[3]])
		}
		if markerEnd < 0 {
			markerEnd = m[3]
		}
		if desc.Title == "" {
			desc.Title = humanize(name[:m[0]])
		}
	}
	if markerEnd >= 0 {
		desc.Tag = strings.Trim(name[markerEnd:], ".-_ )]")
	}
	if desc.Title == "" {
		desc.Title = humanize(name)
	}
	if desc.Group == "" {
		if m := groupRe.FindStringSubmatch(name); m != nil {
			desc.Group = m[1]
		}
	}

	desc.Series = desc.Season > 0 || desc.Episode > 0
	if desc.Season > 0 {
		desc.SeasonOrdinal = fmt.Sprintf("S%02d", desc.Season)
	}
	if desc.Episode > 0 {
		desc.EpisodeOrdinal = fmt.Sprintf("E%02d", desc.Episode)
	}
	return desc
}

// Target returns the string candidates are scored against.
func (d Descriptor) Target() string {
	if d.Name != "" {
		return d.Name
	}
	parts := make([]string, 0, 4)
	if title := strings.TrimSpace(d.Title); title != "" {
		parts = append(parts, separatorsRe.ReplaceAllString(title, "."))
	}
	if d.Series {
		parts = append(parts, d.SeasonOrdinal+d.EpisodeOrdinal)
	} else if d.Year > 0 {
		parts = append(parts, strconv.Itoa(d.Year))
	}
	if tag := strings.TrimSpace(d.Tag); tag != "" {
		parts = append(parts, tag)
	}
	return strings.Join(parts, ".")
}

// SearchQuery returns the human title query sent to listing providers.
func (d Descriptor) SearchQuery() string {
	query := strings.TrimSpace(d.Title)
	switch {
	case d.Series && d.Season > 0 && d.Episode > 0:
		query = fmt.Sprintf("%s %s%s", query, d.SeasonOrdinal, d.EpisodeOrdinal)
	case d.Series && d.Season > 0:
		query = fmt.Sprintf("%s %s", query, d.SeasonOrdinal)
	case d.Year > 0:
		query = fmt.Sprintf("%s %d", query, d.Year)
	}
	return strings.TrimSpace(query)
}

// Label renders the descriptor for logs and tables.
func (d Descriptor) Label() string {
	switch {
	case d.Series:
		return strings.TrimSpace(fmt.Sprintf("%s %s%s", d.Title, d.SeasonOrdinal, d.EpisodeOrdinal))
	case d.Year > 0:
		return fmt.Sprintf("%s (%d)", d.Title, d.Year)
	default:
		return d.Title
	}
}

func stripExtension(name string, videoExts []string) string {
	if len(videoExts) == 0 {
		videoExts = DefaultVideoExtensions
	}
	ext := filepath.Ext(name)
	if ext == "" {
		return name
	}
	for _, known := range videoExts {
		if strings.EqualFold(ext, known) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// lastYearMarker picks the last year-looking token so titles such as
// "2001.A.Space.Odyssey.1968" resolve to 1968.
func lastYearMarker(name string) []int {
	all := yearMarkerRe.FindAllStringSubmatchIndex(name, -1)
	if len(all) == 0 {
		return nil
	}
	last := all[len(all)-1]
	if last[0] == 0 && len(all) == 1 && len(name) > last[1] {
		// A leading year with nothing before it is part of the title.
		return nil
	}
	return last
}

func humanize(value string) string {
	return strings.TrimSpace(separatorsRe.ReplaceAllString(strings.Trim(value, ".-_ ([)]"), " "))
}
