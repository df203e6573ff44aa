// Package matching scores subtitle candidate names against the target
// release name.
//
// Release names are bags of tokens (title, year, resolution, source, codec,
// group) whose order and separators vary between uploaders, so the score
// blends an order-independent token cosine with an edit-distance ratio over
// the sorted token lists. Score is pure and safe for concurrent use.
package matching
