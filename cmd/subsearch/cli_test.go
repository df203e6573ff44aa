package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subsearch/internal/config"
	"subsearch/internal/dlqueue"
	"subsearch/internal/providers"
	"subsearch/internal/search"
	"subsearch/internal/testsupport"
)

const (
	testHash    = "8e245d9679d31e12"
	testRelease = "/media/Movie.2020.1080p.BluRay.x264-GROUP.mkv"
	hashPath    = "/en/search/sublanguageid-eng/moviehash-" + testHash
)

const hashResultsPage = `<html><body><table id="search_results"><tbody>
<tr id="name7001"><td id="main7001"><strong><a class="bnone" href="/en/subtitles/7001/movie-en">Movie (2020)</a></strong><br/>
<span title="Movie.2020.1080p.BluRay.x264-GROUP">Movie.2020.1080p.BluRay.x26...</span></td></tr>
<tr id="name7002"><td id="main7002"><strong><a class="bnone" href="/en/subtitles/7002/movie-en">Movie (2020)</a></strong>
Movie.2020.720p.WEB-DL
</td></tr>
</tbody></table></body></html>`

type cliTestEnv struct {
	cfg        *config.Config
	site       *testsupport.Site
	configPath string
}

func setupCLITestEnv(t *testing.T, mutate func(*config.Config)) *cliTestEnv {
	t.Helper()

	site := testsupport.NewSite(t)
	cfg := testsupport.NewConfig(t, testsupport.WithEndpoints(site.URL), testsupport.WithProviders("opensubtitles_hash"))
	t.Setenv("HOME", testsupport.BaseDir(cfg))
	if mutate != nil {
		mutate(cfg)
	}
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, site: site, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := config.Encode(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func decodeReport(t *testing.T, out string) searchReport {
	t.Helper()
	var report searchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	return report
}

func TestSearchQueuesAcceptedSubtitles(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.site.Page(hashPath, hashResultsPage)

	out, stderr, err := runCLI(t, []string{"search", testRelease, "--hash", strings.ToUpper(testHash), "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v\n%s", err, stderr)
	}
	report := decodeReport(t, out)
	if report.Status != search.StatusMatched.String() {
		t.Fatalf("status = %q", report.Status)
	}
	if len(report.Tasks) != 1 {
		t.Fatalf("expected one task, got %+v", report.Tasks)
	}
	task := report.Tasks[0]
	if task.Provider != "opensubtitles_hash" || task.URL != env.site.URL+"/en/download/sub/7001" || task.Index != 1 || task.Total != 1 {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.Path != filepath.Join(env.cfg.Paths.TempDir, "opensubtitles_hash_1.zip") {
		t.Fatalf("unexpected task path %q", task.Path)
	}

	manifest, err := dlqueue.ReadManifest(t.Context(), env.cfg.Paths.TempDir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if manifest.SearchID != report.SearchID || len(manifest.Tasks) != 1 {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	requireContains(t, stderr, "candidate scored")
}

func TestSearchTextOutput(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.site.Page(hashPath, hashResultsPage)

	out, _, err := runCLI(t, []string{"search", testRelease, "--hash", testHash}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Movie (2020)")
	requireContains(t, out, "opensubtitles_hash:")
	requireContains(t, out, "1 accepted, 1 rejected")
	requireContains(t, out, "Queued 1 download(s)")
}

func TestSearchWithoutCandidatesFails(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.site.Page(hashPath, `<html><body>No results</body></html>`)

	out, _, err := runCLI(t, []string{"search", testRelease, "--hash", testHash}, env.configPath)
	if !errors.Is(err, search.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	requireContains(t, out, "No subtitles found")
	if _, statErr := os.Stat(dlqueue.ManifestPath(env.cfg.Paths.TempDir)); !os.IsNotExist(statErr) {
		t.Fatalf("no manifest expected, stat err %v", statErr)
	}
}

func TestSearchProviderFailureIsNotFatalToOutput(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.site.Fail(hashPath, 500)

	out, _, err := runCLI(t, []string{"search", testRelease, "--hash", testHash, "--json"}, env.configPath)
	if !errors.Is(err, search.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	report := decodeReport(t, out)
	if len(report.Providers) != 1 || report.Providers[0].Error == "" {
		t.Fatalf("expected provider error in report, got %+v", report.Providers)
	}
}

func TestSearchManualPick(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.site.Page(hashPath, hashResultsPage)

	out, stderr, err := runCLI(t, []string{"search", "Movie.2020.2160p.UHD.HDR.mkv", "--hash", testHash, "--pick", "1", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v\n%s", err, stderr)
	}
	report := decodeReport(t, out)
	if report.Status != search.StatusNoneAccepted.String() {
		t.Fatalf("status = %q", report.Status)
	}
	if len(report.ManualChoices) != 2 {
		t.Fatalf("expected both rows as manual choices, got %+v", report.ManualChoices)
	}
	if report.ManualChoices[0].Score < report.ManualChoices[1].Score {
		t.Fatalf("manual choices not ranked: %+v", report.ManualChoices)
	}
	if len(report.Tasks) != 1 || report.Tasks[0].Name != report.ManualChoices[0].Name {
		t.Fatalf("expected top choice queued, got %+v", report.Tasks)
	}
}

func TestSearchPickOutOfRange(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.site.Page(hashPath, hashResultsPage)

	_, _, err := runCLI(t, []string{"search", "Movie.2020.2160p.UHD.HDR.mkv", "--hash", testHash, "--pick", "9"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}
}

func TestSearchRejectsUnknownProvider(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	_, _, err := runCLI(t, []string{"search", testRelease, "--providers", "addic7ed"}, env.configPath)
	if !providers.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestSearchRejectsInvalidThreshold(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	_, _, err := runCLI(t, []string{"search", testRelease, "--threshold", "150"}, env.configPath)
	if !providers.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestHistoryRecordsSearches(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.site.Page(hashPath, hashResultsPage)

	out, _, err := runCLI(t, []string{"search", testRelease, "--hash", testHash, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	report := decodeReport(t, out)

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, report.SearchID[:8])
	requireContains(t, out, "matched")

	out, _, err = runCLI(t, []string{"history", "show", report.SearchID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Movie.2020.1080p.BluRay.x264-GROUP")
	requireContains(t, out, "Movie.2020.720p.WEB-DL")

	if _, _, err := runCLI(t, []string{"history", "show", "ffffffff"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown search id")
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, func(cfg *config.Config) { cfg.History.Enabled = false })

	if _, _, err := runCLI(t, []string{"history"}, env.configPath); err == nil {
		t.Fatal("expected error when history is disabled")
	}
}

func TestProvidersCommand(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"providers"}, env.configPath)
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	for _, name := range config.ProviderNames {
		requireContains(t, out, name)
	}
	requireContains(t, out, "yes")
	requireContains(t, out, "no")
}

func TestConfigInitShowAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "match_threshold")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, target); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
