// Package opensubtitles scrapes the opensubtitles.org web search. Two
// providers share the result-table parser: HashProvider looks subtitles up
// by the video fingerprint, TitleProvider by release title.
package opensubtitles
