package search

// Candidate is one scored subtitle listing.
type Candidate struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
	// Locator is the download URL for accepted candidates. Rejected
	// candidates may still point at an intermediate page.
	Locator string `json:"locator"`
	Score   int    `json:"score"`
}

// Classification is a provider's candidates split by the threshold, each
// slice in provider order.
type Classification struct {
	Accepted []Candidate
	Rejected []Candidate
}
