package search

import (
	"errors"
	"sort"
)

// ErrNoCandidates reports that no provider produced an acceptable subtitle.
var ErrNoCandidates = errors.New("no subtitles found")

// Status summarizes a search.
type Status int

const (
	// StatusNoCandidates means every provider was empty, absent, or failed.
	StatusNoCandidates Status = iota
	// StatusNoneAccepted means candidates exist but none passed the threshold.
	StatusNoneAccepted
	// StatusMatched means at least one candidate was accepted.
	StatusMatched
)

func (s Status) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusNoneAccepted:
		return "none_accepted"
	default:
		return "no_candidates"
	}
}

// Outcome is one provider's contribution to a search.
type Outcome struct {
	Provider string
	Accepted []Candidate
	Rejected []Candidate
	// Absent is set when the provider signalled NoMatch.
	Absent bool
	// Err holds the provider failure, if any. The provider contributes no
	// candidates when set.
	Err error
	// Cancelled is set when the search was cancelled before this provider
	// finished; its results were dropped.
	Cancelled bool
}

// Results holds outcomes in configured provider order.
type Results struct {
	Outcomes []Outcome
}

// Outcome returns the named provider's outcome.
func (r Results) Outcome(provider string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Provider == provider {
			return o, true
		}
	}
	return Outcome{}, false
}

// Accepted returns every accepted candidate in provider order.
func (r Results) Accepted() []Candidate {
	var out []Candidate
	for _, o := range r.Outcomes {
		out = append(out, o.Accepted...)
	}
	return out
}

// Rejected returns every rejected candidate in provider order.
func (r Results) Rejected() []Candidate {
	var out []Candidate
	for _, o := range r.Outcomes {
		out = append(out, o.Rejected...)
	}
	return out
}

// Status classifies the search as a whole.
func (r Results) Status() Status {
	status := StatusNoCandidates
	for _, o := range r.Outcomes {
		if len(o.Accepted) > 0 {
			return StatusMatched
		}
		if len(o.Rejected) > 0 {
			status = StatusNoneAccepted
		}
	}
	return status
}

// ManualChoices ranks rejected candidates by score, highest first, keeping
// provider order among equal scores.
func (r Results) ManualChoices() []Candidate {
	choices := r.Rejected()
	sort.SliceStable(choices, func(i, j int) bool {
		return choices[i].Score > choices[j].Score
	})
	return choices
}
