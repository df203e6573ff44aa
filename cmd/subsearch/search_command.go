package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subsearch/internal/config"
	"subsearch/internal/dlqueue"
	"subsearch/internal/history"
	"subsearch/internal/language"
	"subsearch/internal/logging"
	"subsearch/internal/providers"
	"subsearch/internal/providers/builtin"
	"subsearch/internal/release"
	"subsearch/internal/search"
)

type searchFlags struct {
	hash      string
	language  string
	threshold int
	providers []string
	pick      int
	json      bool
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search <release-or-path>",
		Short: "Search every provider for subtitles matching a release",
		Long: "Search queries the configured providers concurrently, scores each listed subtitle\n" +
			"against the release name, and writes the accepted ones to the download queue\n" +
			"manifest in the temp directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			run, err := applySearchOverrides(cmd, cfg, flags)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(run, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report, err := runSearch(cmd.Context(), run, logger, args[0], flags)
			if err != nil {
				return err
			}
			if flags.json {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printSearchReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
			}
			if len(report.Tasks) == 0 && !report.ManualFallback {
				return search.ErrNoCandidates
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.hash, "hash", "", "OpenSubtitles video hash of the file")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Subtitle language (overrides search.language)")
	cmd.Flags().IntVarP(&flags.threshold, "threshold", "t", 0, "Acceptance score 0-100 (overrides search.match_threshold)")
	cmd.Flags().StringSliceVarP(&flags.providers, "providers", "p", nil, "Comma separated providers to query (overrides search.providers)")
	cmd.Flags().IntVar(&flags.pick, "pick", 0, "When nothing is accepted, queue the Nth ranked manual choice")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the result as JSON")
	return cmd
}

// applySearchOverrides returns a copy of cfg with command flags applied and
// revalidated.
func applySearchOverrides(cmd *cobra.Command, cfg *config.Config, flags searchFlags) (*config.Config, error) {
	run := *cfg
	if lang := strings.TrimSpace(flags.language); lang != "" {
		if code := language.ToISO2(lang); code != "" {
			lang = code
		}
		run.Search.Language = lang
	}
	if cmd.Flags().Changed("threshold") {
		run.Search.MatchThreshold = flags.threshold
	}
	if len(flags.providers) > 0 {
		names := make([]string, 0, len(flags.providers))
		for _, name := range flags.providers {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				names = append(names, name)
			}
		}
		run.Search.Providers = names
	}
	if flags.pick < 0 {
		return nil, fmt.Errorf("--pick must be positive")
	}
	if flags.pick > 0 {
		run.Search.ManualFallback = true
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return &run, nil
}

type providerReport struct {
	Provider  string `json:"provider"`
	Accepted  int    `json:"accepted"`
	Rejected  int    `json:"rejected"`
	Absent    bool   `json:"absent,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Error     string `json:"error,omitempty"`
}

type searchReport struct {
	SearchID       string             `json:"search_id"`
	Release        string             `json:"release"`
	Target         string             `json:"target"`
	Threshold      int                `json:"threshold"`
	Status         string             `json:"status"`
	Providers      []providerReport   `json:"providers"`
	Accepted       []search.Candidate `json:"accepted"`
	ManualChoices  []search.Candidate `json:"manual_choices,omitempty"`
	ManualFallback bool               `json:"manual_fallback"`
	Tasks          []dlqueue.Task     `json:"tasks"`
	Manifest       string             `json:"manifest,omitempty"`
}

func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger, input string, flags searchFlags) (*searchReport, error) {
	searchID := history.NewID()
	ctx = logging.WithSearchID(ctx, searchID)

	rel := release.Parse(input, cfg.Search.VideoExtensions...)
	if rel.Target() == "" {
		return nil, fmt.Errorf("cannot derive a release name from %q", input)
	}
	sess := providers.NewSession(rel, cfg.Preferences(), cfg.ProviderEndpoints(), flags.hash)

	list, err := builtin.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	searcher := search.NewSearcher(list, search.Options{
		ProviderTimeout: cfg.ProviderTimeout(),
		MaxConcurrent:   cfg.Search.MaxConcurrent,
		Logger:          logger,
	})
	results, err := searcher.Search(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &searchReport{
		SearchID:       searchID,
		Release:        rel.Label(),
		Target:         sess.Target(),
		Threshold:      sess.Threshold(),
		Status:         results.Status().String(),
		Accepted:       results.Accepted(),
		ManualFallback: cfg.Search.ManualFallback,
	}
	for _, outcome := range results.Outcomes {
		report.Providers = append(report.Providers, newProviderReport(outcome))
	}

	tasks := dlqueue.AssembleResults(results, cfg.Paths.TempDir, cfg.Search.ArchiveExtension)
	if len(tasks) == 0 && cfg.Search.ManualFallback {
		report.ManualChoices = results.ManualChoices()
		if flags.pick > 0 {
			tasks, err = pickManualChoice(ctx, list, sess, report.ManualChoices, flags.pick, cfg)
			if err != nil {
				return nil, err
			}
		}
	}
	report.Tasks = tasks

	if len(tasks) > 0 {
		path, err := dlqueue.WriteManifest(ctx, cfg.Paths.TempDir, dlqueue.Manifest{
			SearchID: searchID,
			Release:  sess.Target(),
			Tasks:    tasks,
		})
		if err != nil {
			return nil, err
		}
		report.Manifest = path
		logging.WithContext(ctx, logger).Info("download queue written",
			logging.String("manifest", path),
			logging.Int("tasks", len(tasks)),
		)
	}

	if cfg.History.Enabled {
		recordHistory(ctx, cfg, logger, sess, results, report)
	}
	return report, nil
}

func newProviderReport(outcome search.Outcome) providerReport {
	pr := providerReport{
		Provider:  outcome.Provider,
		Accepted:  len(outcome.Accepted),
		Rejected:  len(outcome.Rejected),
		Absent:    outcome.Absent,
		Cancelled: outcome.Cancelled,
	}
	if outcome.Err != nil {
		pr.Error = outcome.Err.Error()
	}
	return pr
}

// pickManualChoice queues the 1-based choice, resolving its locator first
// when the provider needs a second hop.
func pickManualChoice(ctx context.Context, list []providers.Provider, sess *providers.Session, choices []search.Candidate, pick int, cfg *config.Config) ([]dlqueue.Task, error) {
	if pick > len(choices) {
		return nil, fmt.Errorf("--pick %d out of range: %d manual choice(s) available", pick, len(choices))
	}
	choice := choices[pick-1]
	for _, p := range list {
		if p.Name() != choice.Provider {
			continue
		}
		if resolver, ok := p.(providers.Resolver); ok {
			resolved, err := resolver.Resolve(ctx, sess, choice.Locator)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", choice.Name, err)
			}
			choice.Locator = resolved
		}
		break
	}
	return dlqueue.Assemble(choice.Provider, []search.Candidate{choice}, cfg.Paths.TempDir, cfg.Search.ArchiveExtension), nil
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, sess *providers.Session, results search.Results, report *searchReport) {
	logger = logging.WithContext(ctx, logger)
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_failure",
			logging.Error(err),
			logging.String(logging.FieldImpact, "search not recorded"),
		)
		return
	}
	defer store.Close()

	entry := history.Search{
		ID:           report.SearchID,
		Release:      report.Release,
		Target:       sess.Target(),
		Language:     sess.LanguageCode(),
		Threshold:    sess.Threshold(),
		Fingerprint:  sess.Fingerprint(),
		Status:       report.Status,
		ManifestPath: report.Manifest,
	}
	for _, outcome := range results.Outcomes {
		for _, c := range outcome.Accepted {
			entry.Candidates = append(entry.Candidates, historyCandidate(c, true))
		}
		for _, c := range outcome.Rejected {
			entry.Candidates = append(entry.Candidates, historyCandidate(c, false))
		}
		if outcome.Err != nil {
			entry.Errors = append(entry.Errors, history.ProviderError{Provider: outcome.Provider, Message: outcome.Err.Error()})
		}
	}
	if _, err := store.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "history write failed", "history_failure",
			logging.Error(err),
			logging.String(logging.FieldImpact, "search not recorded"),
		)
	}
}

func historyCandidate(c search.Candidate, accepted bool) history.Candidate {
	return history.Candidate{Provider: c.Provider, Name: c.Name, Locator: c.Locator, Score: c.Score, Accepted: accepted}
}

func printSearchReport(out io.Writer, report *searchReport, colorize bool) {
	fmt.Fprintf(out, "Release: %s\n", report.Release)
	fmt.Fprintf(out, "Target:  %s (threshold %d)\n\n", report.Target, report.Threshold)

	for _, pr := range report.Providers {
		kind, message := statusOK, fmt.Sprintf("%d accepted, %d rejected", pr.Accepted, pr.Rejected)
		switch {
		case pr.Error != "":
			kind, message = statusError, pr.Error
		case pr.Cancelled:
			kind, message = statusWarn, "cancelled"
		case pr.Absent:
			kind, message = statusInfo, "no match"
		case pr.Accepted == 0:
			kind = statusWarn
		}
		fmt.Fprintln(out, renderStatusLine(pr.Provider, kind, message, colorize))
	}
	fmt.Fprintln(out)

	if len(report.Accepted) > 0 {
		fmt.Fprintln(out, candidateTable(report.Accepted))
	}
	if len(report.ManualChoices) > 0 {
		fmt.Fprintln(out, "No subtitle passed the threshold. Manual choices (use --pick N):")
		fmt.Fprintln(out, candidateTable(report.ManualChoices))
	}
	switch {
	case report.Manifest != "":
		fmt.Fprintf(out, "Queued %d download(s) in %s\n", len(report.Tasks), report.Manifest)
	case len(report.ManualChoices) == 0:
		fmt.Fprintln(out, "No subtitles found")
	}
}

func candidateTable(candidates []search.Candidate) string {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, []string{strconv.Itoa(i + 1), c.Provider, strconv.Itoa(c.Score), c.Name})
	}
	return renderTable([]tableColumn{
		numberColumn("#"),
		textColumn("Provider"),
		scoreColumn(),
		releaseColumn(),
	}, rows)
}
