// Package language provides unified language code normalization and mapping.
//
// All language conversions needed by the subtitle providers (ISO 639-1,
// the bibliographic ISO 639-2 codes opensubtitles.org expects, display names
// printed by YIFY listings, and Subscene LanguageFilter ids) are consolidated
// here so configuration values such as "english", "en", "en-US", or the
// legacy "English, en" form all resolve to one entry.
package language
