package history

import "time"

// Candidate is one scored subtitle as recorded.
type Candidate struct {
	Provider string
	Name     string
	Locator  string
	Score    int
	Accepted bool
}

// ProviderError records a provider that failed during the search.
type ProviderError struct {
	Provider string
	Message  string
}

// Search is a recorded search.
type Search struct {
	ID           string
	Release      string
	Target       string
	Language     string
	Threshold    int
	Fingerprint  string
	Status       string
	ManifestPath string
	CreatedAt    time.Time
	Candidates   []Candidate
	Errors       []ProviderError
}

// Accepted returns the accepted candidates in recorded order.
func (s *Search) Accepted() []Candidate {
	var out []Candidate
	for _, c := range s.Candidates {
		if c.Accepted {
			out = append(out, c)
		}
	}
	return out
}

// Summary is a list row for a recorded search.
type Summary struct {
	ID        string
	Release   string
	Status    string
	Accepted  int
	Total     int
	CreatedAt time.Time
}
