package search

import (
	"context"
	"log/slog"

	"subsearch/internal/logging"
	"subsearch/internal/matching"
	"subsearch/internal/providers"
)

// Scorer rates a candidate name against the release target on [0,100].
type Scorer func(candidate, target string) int

// Classifier scores listings and resolves accepted locators.
type Classifier struct {
	Scorer Scorer
	logger *slog.Logger
}

// NewClassifier returns a classifier using matching.Score.
func NewClassifier(logger *slog.Logger) *Classifier {
	return &Classifier{
		Scorer: matching.Score,
		logger: logging.NewComponentLogger(logger, "classifier"),
	}
}

// Classify scores every entry of listing in order. Entries scoring at or
// above the session threshold are accepted; when provider implements
// providers.Resolver their locators are resolved first, and a failed
// resolution demotes the entry to rejected with its locator unchanged.
func (c *Classifier) Classify(ctx context.Context, provider providers.Provider, listing providers.Listing, sess *providers.Session) Classification {
	var out Classification
	if listing.Absent() || listing.Len() == 0 {
		return out
	}
	scorer := c.Scorer
	if scorer == nil {
		scorer = matching.Score
	}
	logger := logging.WithContext(logging.WithProvider(ctx, provider.Name()), c.logger)
	resolver, _ := provider.(providers.Resolver)
	threshold := sess.Threshold()
	target := sess.Target()

	for _, entry := range listing.Entries() {
		cand := Candidate{
			Provider: provider.Name(),
			Name:     entry.Name,
			Locator:  entry.Locator,
			Score:    scorer(entry.Name, target),
		}
		accepted := cand.Score >= threshold
		logMatch(ctx, logger, cand, threshold, accepted)
		if !accepted {
			out.Rejected = append(out.Rejected, cand)
			continue
		}
		if resolver != nil {
			resolved, err := resolver.Resolve(ctx, sess, entry.Locator)
			if err != nil {
				logging.WarnWithContext(logger, "download link resolution failed; candidate rejected", "resolution_failure",
					logging.String("name", cand.Name),
					logging.String("locator", cand.Locator),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "the subtitle page may have been removed"),
					logging.String(logging.FieldImpact, "candidate moved to the rejected list"),
				)
				out.Rejected = append(out.Rejected, cand)
				continue
			}
			cand.Locator = resolved
		}
		out.Accepted = append(out.Accepted, cand)
	}
	return out
}

// logMatch reports accepted candidates at Info and rejected ones at Debug.
func logMatch(ctx context.Context, logger *slog.Logger, cand Candidate, threshold int, accepted bool) {
	level, result, reason := slog.LevelDebug, "rejected", "below_threshold"
	if accepted {
		level, result, reason = slog.LevelInfo, "accepted", "meets_threshold"
	}
	attrs := append(logging.DecisionAttrs("candidate_match", result, reason),
		logging.String("name", cand.Name),
		logging.Int("score", cand.Score),
		logging.Int("threshold", threshold),
	)
	logger.Log(ctx, level, "candidate scored", logging.Args(attrs...)...)
}
