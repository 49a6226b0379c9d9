package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/bdcrecon/internal/config"
	"github.com/JonMunkholm/bdcrecon/internal/core"
	"github.com/JonMunkholm/bdcrecon/internal/workbook"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *cliOptions) *cobra.Command {
	var (
		paths  = make(map[string]*string)
		output string
		cover  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile the exports and write the report workbook",
		Example: `  bdcrecon run --orders commandes.xlsx --output rapport.xlsx
  bdcrecon run --orders commandes.xlsx --dispatch envoi.xlsx \
    --certifications constatations.xlsx --invoices factures.xlsx \
    --workflow workflow.xlsx --output rapport.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cover") {
				cfg.Reconcile.CoverSheet = cover
			}

			logger := opts.logger()
			service := core.NewService(
				workbook.NewReader(logger),
				workbook.NewWriter(
					workbook.WithCoverSheet(cfg.Reconcile.CoverSheet),
					workbook.WithWriterLogger(logger),
				),
				core.WithLiterals(cfg.Reconcile.Literals()),
				core.WithLogger(logger),
			)

			in := core.Inputs{Sources: make(map[string]string), Output: output}
			for key, p := range paths {
				in.Sources[key] = strings.TrimSpace(*p)
			}

			out := cmd.OutOrStdout()
			result, err := service.Run(cmd.Context(), in, func(msg string) {
				fmt.Fprintln(out, msg)
			})
			if err != nil {
				return err
			}
			printSummary(cmd, result)
			return nil
		},
	}

	for _, def := range core.All() {
		p := new(string)
		paths[def.Info.Key] = p
		usage := def.Info.Label + " export (.xlsx)"
		if def.Info.Required {
			usage += ", required"
		}
		cmd.Flags().StringVar(p, def.Info.Key, "", usage)
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "report workbook to write")
	cmd.Flags().BoolVar(&cover, "cover", true, "add the rules cover sheet (overrides RECON_COVER_SHEET)")

	return cmd
}

func printSummary(cmd *cobra.Command, result *core.RunResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Report written to %s (%d Global rows)\n", result.Output, result.GlobalRows)

	keys := make([]string, 0, len(result.SourceRows))
	for key := range result.SourceRows {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "  %-15s %d rows\n", key, result.SourceRows[key])
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "  skipped: %s\n", strings.Join(result.Skipped, ", "))
	}
}
