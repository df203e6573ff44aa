package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subsearch/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, summaries)
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No searches recorded")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					shortID(s.ID),
					s.CreatedAt.Local().Format(time.DateTime),
					s.Status,
					fmt.Sprintf("%d/%d", s.Accepted, s.Total),
					s.Release,
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				textColumn("ID"),
				textColumn("When"),
				textColumn("Status"),
				numberColumn("Accepted"),
				releaseColumn(),
			}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of searches to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the candidates of a recorded search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("no search with id %q", args[0])
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entry)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Search:    %s\n", entry.ID)
			fmt.Fprintf(out, "Release:   %s\n", entry.Release)
			fmt.Fprintf(out, "Target:    %s\n", entry.Target)
			fmt.Fprintf(out, "Language:  %s\n", entry.Language)
			fmt.Fprintf(out, "Threshold: %d\n", entry.Threshold)
			fmt.Fprintf(out, "Status:    %s\n", entry.Status)
			if entry.ManifestPath != "" {
				fmt.Fprintf(out, "Manifest:  %s\n", entry.ManifestPath)
			}
			for _, pe := range entry.Errors {
				fmt.Fprintln(out, renderStatusLine(pe.Provider, statusError, pe.Message, shouldColorize(out)))
			}
			if len(entry.Candidates) == 0 {
				fmt.Fprintln(out, "No candidates recorded")
				return nil
			}
			rows := make([][]string, 0, len(entry.Candidates))
			for _, c := range entry.Candidates {
				rows = append(rows, []string{c.Provider, strconv.Itoa(c.Score), yesNo(c.Accepted), c.Name})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				textColumn("Provider"),
				scoreColumn(),
				textColumn("Accepted"),
				releaseColumn(),
			}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("search history is disabled (history.enabled = false)")
	}
	return history.Open(cfg)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
