package subscene

import (
	"testing"

	"subsearch/internal/providers"
)

func TestBuildTokenHearingImpairedEncoding(t *testing.T) {
	tests := []struct {
		name  string
		hi    bool
		nonHI bool
		want  int
	}{
		{"both", true, true, HearingImpairedAny},
		{"hi only", true, false, HearingImpairedOnly},
		{"non-hi only", false, true, HearingImpairedNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := BuildToken(providers.Preferences{HearingImpaired: tt.hi, NonHearingImpaired: tt.nonHI}, "13")
			if err != nil {
				t.Fatalf("BuildToken: %v", err)
			}
			if token.HearingImpaired != tt.want {
				t.Fatalf("HearingImpaired = %d, want %d", token.HearingImpaired, tt.want)
			}
		})
	}
}

func TestBuildTokenNeitherFlagIsConfigError(t *testing.T) {
	_, err := BuildToken(providers.Preferences{}, "13")
	if !providers.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestBuildTokenMissingLanguageIsConfigError(t *testing.T) {
	_, err := BuildToken(providers.Preferences{HearingImpaired: true, Language: "tlh"}, "")
	if !providers.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestTokenCookie(t *testing.T) {
	token, err := BuildToken(providers.Preferences{HearingImpaired: false, NonHearingImpaired: true, ForeignOnly: true}, "13")
	if err != nil {
		t.Fatalf("BuildToken: %v", err)
	}
	want := "DarkTheme=False; SortSubtitlesByDate=false; LanguageFilter=13; HearingImpaired=2; ForeignOnly=True"
	if got := token.Cookie(); got != want {
		t.Fatalf("Cookie() = %q, want %q", got, want)
	}
	if got := token.Header().Get("Cookie"); got != want {
		t.Fatalf("Header cookie = %q, want %q", got, want)
	}
}

func TestTokenIsPure(t *testing.T) {
	prefs := providers.Preferences{HearingImpaired: true, NonHearingImpaired: true}
	a, _ := BuildToken(prefs, "18")
	b, _ := BuildToken(prefs, "18")
	if a != b || a.Cookie() != b.Cookie() {
		t.Fatalf("tokens differ for identical inputs: %+v vs %+v", a, b)
	}
}

func TestSeasonWord(t *testing.T) {
	if got := seasonWord(3); got != "Third" {
		t.Fatalf("seasonWord(3) = %q", got)
	}
	if got := seasonWord(40); got != "40th" {
		t.Fatalf("seasonWord(40) = %q", got)
	}
}
