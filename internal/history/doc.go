// Package history persists completed searches in SQLite so past results can
// be listed, inspected, and picked from without querying providers again.
//
// Each search is stored under a UUID together with every scored candidate.
// The store keeps the most recent searches and prunes the rest after each
// write.
package history
