package main

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/bdcrecon/internal/core"
	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print how each Global column is filled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, core.IntroText())
			fmt.Fprintln(out)
			fmt.Fprintln(out, core.GlobalRules())
			return nil
		},
	}
}

func newSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the exports the reconciliation reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, def := range core.All() {
				info := def.Info
				req := "optional"
				if info.Required {
					req = "required"
				}
				fmt.Fprintf(out, "%s (%s, %s)\n", info.Key, info.Label, req)

				start := fmt.Sprintf("header searched from row %d", info.SkipRows+1)
				if info.Marker != "" {
					start = fmt.Sprintf("header searched from the %q marker", info.Marker)
				}
				fmt.Fprintf(out, "  %s\n", start)

				if len(info.Columns) == 0 {
					fmt.Fprintln(out, "  columns: all detected columns")
				} else {
					fmt.Fprintf(out, "  columns: %s\n", strings.Join(info.Columns, ", "))
				}
			}
			return nil
		},
	}
}
