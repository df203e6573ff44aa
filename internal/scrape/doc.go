// Package scrape fetches provider pages and parses them into goquery
// documents, retrying transient transport failures with backoff.
package scrape
