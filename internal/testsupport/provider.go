package testsupport

import (
	"context"
	"sync/atomic"
	"time"

	"subsearch/internal/providers"
)

// Listing builds a present listing from name/locator pairs.
func Listing(pairs ...string) providers.Listing {
	listing := providers.NewListing()
	for i := 0; i+1 < len(pairs); i += 2 {
		listing.Add(pairs[i], pairs[i+1])
	}
	return listing
}

// FakeProvider returns a fixed listing or error after an optional delay.
type FakeProvider struct {
	ProviderName string
	Result       providers.Listing
	Err          error
	Delay        time.Duration

	calls atomic.Int32
}

func (f *FakeProvider) Name() string { return f.ProviderName }

func (f *FakeProvider) Query(ctx context.Context, _ *providers.Session) (providers.Listing, error) {
	f.calls.Add(1)
	if f.Delay > 0 {
		timer := time.NewTimer(f.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return providers.Listing{}, ctx.Err()
		case <-timer.C:
		}
	}
	if f.Err != nil {
		return providers.Listing{}, f.Err
	}
	return f.Result, nil
}

// Calls reports how many times Query ran.
func (f *FakeProvider) Calls() int { return int(f.calls.Load()) }

// ResolvingProvider is a FakeProvider whose locators need a second hop.
// Locators missing from Resolved fail to resolve.
type ResolvingProvider struct {
	FakeProvider
	Resolved map[string]string

	resolves atomic.Int32
}

func (r *ResolvingProvider) Resolve(_ context.Context, _ *providers.Session, locator string) (string, error) {
	r.resolves.Add(1)
	if resolved, ok := r.Resolved[locator]; ok {
		return resolved, nil
	}
	return "", &ResolveError{Locator: locator}
}

// Resolves reports how many locators were resolved.
func (r *ResolvingProvider) Resolves() int { return int(r.resolves.Load()) }

// ResolveError is returned for unknown locators.
type ResolveError struct {
	Locator string
}

func (e *ResolveError) Error() string { return "no download link for " + e.Locator }

// PreflightProvider is a FakeProvider whose preflight check returns PreflightErr.
type PreflightProvider struct {
	FakeProvider
	PreflightErr error
}

func (p *PreflightProvider) Preflight(*providers.Session) error { return p.PreflightErr }
