package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subsearch/internal/providers/builtin"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List subtitle providers and whether they are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			enabled := make(map[string]int, len(cfg.Search.Providers))
			for i, name := range cfg.Search.Providers {
				enabled[name] = i + 1
			}
			rows := [][]string{}
			for _, name := range builtin.Registry().Names() {
				order := "-"
				pos, ok := enabled[name]
				if ok {
					order = fmt.Sprint(pos)
				}
				rows = append(rows, []string{name, yesNo(ok), order})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				textColumn("Provider"),
				textColumn("Enabled"),
				numberColumn("Order"),
			}, rows))
			return nil
		},
	}
}
