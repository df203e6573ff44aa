package search

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"subsearch/internal/providers"
	"subsearch/internal/release"
	"subsearch/internal/testsupport"
)

const testTarget = "Movie.2020.1080p.BluRay.x264-GROUP"

func newSession(threshold int) *providers.Session {
	rel := release.Descriptor{Name: testTarget, Title: "Movie", Year: 2020}
	prefs := providers.Preferences{Language: "en", HearingImpaired: true, NonHearingImpaired: true, Threshold: threshold}
	return providers.NewSession(rel, prefs, providers.DefaultEndpoints(), "")
}

// fixedScorer scores names from a table and everything else 0.
func fixedScorer(scores map[string]int) Scorer {
	return func(candidate, _ string) int { return scores[candidate] }
}

func TestClassifyThresholdBoundary(t *testing.T) {
	classifier := NewClassifier(nil)
	classifier.Scorer = fixedScorer(map[string]int{"exact": 80, "below": 79, "top": 100})
	provider := &testsupport.FakeProvider{ProviderName: "subscene"}
	listing := testsupport.Listing("below", "u1", "exact", "u2", "top", "u3")

	got := classifier.Classify(context.Background(), provider, listing, newSession(80))

	if len(got.Accepted) != 2 || got.Accepted[0].Name != "exact" || got.Accepted[1].Name != "top" {
		t.Fatalf("unexpected accepted %+v", got.Accepted)
	}
	if len(got.Rejected) != 1 || got.Rejected[0].Name != "below" || got.Rejected[0].Score != 79 {
		t.Fatalf("unexpected rejected %+v", got.Rejected)
	}
	if got.Accepted[0].Locator != "u2" || got.Accepted[0].Provider != "subscene" {
		t.Fatalf("accepted candidate lost fields: %+v", got.Accepted[0])
	}
}

func TestClassifyEveryEntryLandsOnce(t *testing.T) {
	classifier := NewClassifier(nil)
	listing := testsupport.Listing(
		testTarget, "a",
		"Movie.2020.1080p.BluRay.x264", "b",
		"Movie.2020.CAM", "c",
		"Other.Film.1999.DVDRip", "d",
	)
	got := classifier.Classify(context.Background(), &testsupport.FakeProvider{ProviderName: "opensubtitles"}, listing, newSession(90))

	if total := len(got.Accepted) + len(got.Rejected); total != listing.Len() {
		t.Fatalf("expected %d classified candidates, got %d", listing.Len(), total)
	}
	seen := map[string]int{}
	for _, c := range append(append([]Candidate(nil), got.Accepted...), got.Rejected...) {
		seen[c.Name]++
		if c.Score < 0 || c.Score > 100 {
			t.Fatalf("score out of range: %+v", c)
		}
	}
	for _, entry := range listing.Entries() {
		if seen[entry.Name] != 1 {
			t.Fatalf("%q classified %d times", entry.Name, seen[entry.Name])
		}
	}
	if len(got.Accepted) == 0 || got.Accepted[0].Name != testTarget {
		t.Fatalf("exact release should be accepted first, got %+v", got.Accepted)
	}
}

func TestClassifyKeepsProviderOrder(t *testing.T) {
	classifier := NewClassifier(nil)
	classifier.Scorer = fixedScorer(map[string]int{"z": 95, "a": 95, "m": 10, "b": 20})
	listing := testsupport.Listing("z", "1", "m", "2", "a", "3", "b", "4")

	got := classifier.Classify(context.Background(), &testsupport.FakeProvider{ProviderName: "p"}, listing, newSession(90))
	if got.Accepted[0].Name != "z" || got.Accepted[1].Name != "a" {
		t.Fatalf("accepted order changed: %+v", got.Accepted)
	}
	if got.Rejected[0].Name != "m" || got.Rejected[1].Name != "b" {
		t.Fatalf("rejected order changed: %+v", got.Rejected)
	}
}

func TestClassifyAbsentAndEmptyListings(t *testing.T) {
	classifier := NewClassifier(nil)
	provider := &testsupport.FakeProvider{ProviderName: "p"}
	for name, listing := range map[string]providers.Listing{
		"absent": providers.NoMatch(),
		"empty":  providers.NewListing(),
	} {
		t.Run(name, func(t *testing.T) {
			got := classifier.Classify(context.Background(), provider, listing, newSession(90))
			if len(got.Accepted) != 0 || len(got.Rejected) != 0 {
				t.Fatalf("expected nothing classified, got %+v", got)
			}
		})
	}
}

func TestClassifyResolvesAcceptedOnly(t *testing.T) {
	classifier := NewClassifier(nil)
	classifier.Scorer = fixedScorer(map[string]int{"good": 95, "broken": 97, "bad": 10})
	provider := &testsupport.ResolvingProvider{
		FakeProvider: testsupport.FakeProvider{ProviderName: "subscene"},
		Resolved:     map[string]string{"/page/good": "https://dl.example/good.zip"},
	}
	listing := testsupport.Listing("good", "/page/good", "broken", "/page/broken", "bad", "/page/bad")

	got := classifier.Classify(context.Background(), provider, listing, newSession(90))

	if provider.Resolves() != 2 {
		t.Fatalf("expected only accepted candidates to be resolved, got %d resolves", provider.Resolves())
	}
	if len(got.Accepted) != 1 || got.Accepted[0].Locator != "https://dl.example/good.zip" {
		t.Fatalf("unexpected accepted %+v", got.Accepted)
	}
	if len(got.Rejected) != 2 {
		t.Fatalf("expected failed resolution to be demoted, got %+v", got.Rejected)
	}
	for _, c := range got.Rejected {
		if c.Name == "broken" && c.Locator != "/page/broken" {
			t.Fatalf("demoted candidate should keep its original locator, got %q", c.Locator)
		}
	}
}

func TestClassifyLogsDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	classifier := NewClassifier(logger)
	classifier.Scorer = fixedScorer(map[string]int{"keep": 91})

	classifier.Classify(context.Background(), &testsupport.FakeProvider{ProviderName: "yifysubtitles"}, testsupport.Listing("keep", "u"), newSession(90))

	out := buf.String()
	for _, want := range []string{`"decision_type":"candidate_match"`, `"provider":"yifysubtitles"`, `"score":91`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s: %s", want, out)
		}
	}
}

func TestClassifyLogsRejectedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	classifier := NewClassifier(logger)
	classifier.Scorer = fixedScorer(map[string]int{"keep": 95, "drop": 42})

	listing := testsupport.Listing("keep", "u1", "drop", "u2")
	classifier.Classify(context.Background(), &testsupport.FakeProvider{ProviderName: "subscene"}, listing, newSession(85))

	out := buf.String()
	if !strings.Contains(out, `"name":"keep"`) || !strings.Contains(out, `"decision_result":"accepted"`) {
		t.Fatalf("accepted candidate missing from info output: %s", out)
	}
	if strings.Contains(out, `"name":"drop"`) || strings.Contains(out, `"decision_result":"rejected"`) {
		t.Fatalf("rejected candidate logged above debug: %s", out)
	}
}
