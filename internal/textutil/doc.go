// Package textutil provides text processing utilities for release-name
// tokenization, similarity scoring and path-segment sanitization.
//
// The primary use cases are:
//   - Splitting release names into order-independent token bags
//   - Computing cosine similarity between token fingerprints
//   - Reducing provider names to safe download path segments
//
// Tokenization lowercases text and splits on every run of non-alphanumeric
// characters, so "Movie.2020.1080p", "movie 2020 1080p" and
// "Movie_2020-1080p" produce the same tokens.
package textutil
