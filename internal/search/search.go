package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"subsearch/internal/logging"
	"subsearch/internal/providers"
)

// Options configures a Searcher.
type Options struct {
	// ProviderTimeout bounds each provider's query and resolution work.
	// Zero disables the per-provider limit.
	ProviderTimeout time.Duration
	// MaxConcurrent caps providers running at once. Zero means unbounded.
	MaxConcurrent int
	Classifier    *Classifier
	Logger        *slog.Logger
}

// Searcher runs one search across a fixed provider set.
type Searcher struct {
	providers  []providers.Provider
	classifier *Classifier
	timeout    time.Duration
	limit      int
	logger     *slog.Logger
}

// NewSearcher returns a searcher over list, queried in the given order.
func NewSearcher(list []providers.Provider, opts Options) *Searcher {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = NewClassifier(opts.Logger)
	}
	return &Searcher{
		providers:  append([]providers.Provider(nil), list...),
		classifier: classifier,
		timeout:    opts.ProviderTimeout,
		limit:      opts.MaxConcurrent,
		logger:     logging.NewComponentLogger(opts.Logger, "search"),
	}
}

// Search queries every provider concurrently and classifies each listing as
// it arrives. Provider failures are recorded in their Outcome; the returned
// error is non-nil only for a *providers.ConfigError.
func (s *Searcher) Search(ctx context.Context, sess *providers.Session) (Results, error) {
	for _, p := range s.providers {
		check, ok := p.(providers.Preflight)
		if !ok {
			continue
		}
		if err := check.Preflight(sess); err != nil {
			return Results{}, fmt.Errorf("search: %s preflight: %w", p.Name(), err)
		}
	}

	logger := logging.WithContext(ctx, s.logger)
	logger.Info("search started",
		logging.String("target", sess.Target()),
		logging.String("language", sess.Language()),
		logging.Int("threshold", sess.Threshold()),
		logging.Int("providers", len(s.providers)),
	)
	started := time.Now()

	outcomes := make([]Outcome, len(s.providers))
	var group errgroup.Group
	if s.limit > 0 {
		group.SetLimit(s.limit)
	}
	for i, p := range s.providers {
		group.Go(func() error {
			outcomes[i] = s.runProvider(ctx, p, sess)
			if providers.IsConfigError(outcomes[i].Err) {
				return outcomes[i].Err
			}
			return nil
		})
	}
	results := Results{Outcomes: outcomes}
	if err := group.Wait(); err != nil {
		return results, fmt.Errorf("search: %w", err)
	}

	logger.Info("search finished",
		logging.String("status", results.Status().String()),
		logging.Int("accepted", len(results.Accepted())),
		logging.Int("rejected", len(results.Rejected())),
		logging.Duration("elapsed", time.Since(started)),
	)
	return results, nil
}

func (s *Searcher) runProvider(ctx context.Context, p providers.Provider, sess *providers.Session) Outcome {
	name := p.Name()
	outcome := Outcome{Provider: name}
	if ctx.Err() != nil {
		outcome.Cancelled = true
		return outcome
	}

	pctx := logging.WithProvider(ctx, name)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(pctx, s.timeout)
		defer cancel()
	}
	logger := logging.WithContext(pctx, s.logger)

	listing, err := p.Query(pctx, sess)
	if ctx.Err() != nil {
		outcome.Cancelled = true
		logger.Debug("search cancelled; dropping provider result")
		return outcome
	}
	if err != nil {
		outcome.Err = fmt.Errorf("%s: %w", name, err)
		if !providers.IsConfigError(err) {
			hint := "provider may be down or blocking requests; retry later"
			if errors.Is(err, context.DeadlineExceeded) {
				hint = "raise search.provider_timeout_seconds"
			}
			logging.WarnWithContext(logger, "provider unavailable", "provider_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, hint),
				logging.String(logging.FieldImpact, "provider contributes no candidates"),
			)
		}
		return outcome
	}
	outcome.Absent = listing.Absent()
	if outcome.Absent {
		logger.Info("provider found no match")
		return outcome
	}

	classified := s.classifier.Classify(pctx, p, listing, sess)
	if ctx.Err() != nil {
		outcome.Cancelled = true
		logger.Debug("search cancelled; dropping provider result")
		return outcome
	}
	outcome.Accepted = classified.Accepted
	outcome.Rejected = classified.Rejected
	logger.Info("provider classified",
		logging.Int("listed", listing.Len()),
		logging.Int("accepted", len(outcome.Accepted)),
		logging.Int("rejected", len(outcome.Rejected)),
	)
	return outcome
}
